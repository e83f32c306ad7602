package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anamartens/bigday/internal/cli"
	"github.com/anamartens/bigday/internal/config"
	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
	"github.com/anamartens/bigday/internal/summary"
	"github.com/anamartens/bigday/internal/tasks"
	"github.com/anamartens/bigday/internal/timeline"
	"github.com/anamartens/bigday/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "bigday",
	Short: "Wedding planning tracker",
	Long:  `Bigday tracks your wedding budget, tasks, and day-of timeline from the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load config
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// Run initial migration if this is a fresh database
		// This handles first-time setup without user interaction
		status, _ := db.GetMigrationStatus()
		if status != nil && status.CurrentVersion == 0 {
			if err := db.RunMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Error running initial migrations: %v\n", err)
				os.Exit(1)
			}
		}

		// Launch TUI
		if err := tui.Run(database, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the planning summary for a wedding",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, err := openReadOnly()
		if err != nil {
			return err
		}
		defer db.Close()

		weddingID, _ := cmd.Flags().GetInt64("wedding")
		w, err := resolveWedding(database, weddingID)
		if err != nil {
			return err
		}

		guard := identity.NewGuard(repository.NewWeddingRepo(database), identity.Static(cfg.Owner))
		engine := summary.NewEngine(database, guard)

		snap, err := engine.Snapshot(w.ID)
		if err != nil {
			return err
		}

		fmt.Print(renderSnapshot(cfg, snap))

		overdue, err := engine.OverdueTasks(w.ID)
		if err != nil {
			return err
		}
		if len(overdue) > 0 {
			fmt.Printf("\nOverdue tasks:\n")
			for _, t := range overdue {
				fmt.Printf("  ! %s (due %s)\n", t.Title, t.DueDate.Format("Jan 02"))
			}
		}

		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a markdown planning summary to the exports directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, err := openReadOnly()
		if err != nil {
			return err
		}
		defer db.Close()

		weddingID, _ := cmd.Flags().GetInt64("wedding")
		w, err := resolveWedding(database, weddingID)
		if err != nil {
			return err
		}

		guard := identity.NewGuard(repository.NewWeddingRepo(database), identity.Static(cfg.Owner))

		content, err := renderMarkdown(cfg, database, guard, w.ID)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.ExportsOutput, 0755); err != nil {
			return err
		}
		name := fmt.Sprintf("bigday-%s.md", time.Now().Format("2006-01-02"))
		path := filepath.Join(cfg.ExportsOutput, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}

		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().Int64("wedding", 0, "Wedding ID (defaults to the only wedding)")
	exportCmd.Flags().Int64("wedding", 0, "Wedding ID (defaults to the only wedding)")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logError(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openReadOnly() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.OpenAndMigrate()
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

// resolveWedding picks the wedding to report on: an explicit id, or
// the only one in the database.
func resolveWedding(database *sql.DB, id int64) (*models.Wedding, error) {
	repo := repository.NewWeddingRepo(database)

	if id != 0 {
		w, err := repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, &models.NotFoundError{Entity: "wedding", ID: id}
		}
		return w, nil
	}

	weddings, err := repo.GetAll()
	if err != nil {
		return nil, err
	}
	switch len(weddings) {
	case 0:
		return nil, fmt.Errorf("no wedding yet; run 'bigday' to set one up")
	case 1:
		return &weddings[0], nil
	default:
		var ids []string
		for _, w := range weddings {
			ids = append(ids, fmt.Sprintf("%d (%s)", w.ID, w.Title))
		}
		return nil, fmt.Errorf("multiple weddings; pass --wedding with one of: %s", strings.Join(ids, ", "))
	}
}

func renderSnapshot(cfg *config.Config, snap *summary.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s — %s\n", strings.ToUpper(snap.Wedding.Title), snap.Wedding.Date.Format("Jan 02, 2006"))
	fmt.Fprintf(&b, "The big day is %s.\n\n", cli.FormatCountdown(snap.DaysUntil))

	fmt.Fprintf(&b, "  Progress    %d%% (%d of %d tasks done)\n", snap.ProgressPercent, snap.TasksDone, snap.TasksTotal)
	fmt.Fprintf(&b, "  Budget      %s of %s spent (%s)\n",
		cli.FormatMoney(cfg.Currency, snap.Budget.TotalSpent),
		cli.FormatMoney(cfg.Currency, snap.Budget.TotalBudget),
		cli.FormatPercent(snap.Budget.UsedPercentage))
	fmt.Fprintf(&b, "  Remaining   %s\n", cli.FormatMoney(cfg.Currency, snap.Budget.Remaining))
	fmt.Fprintf(&b, "  Timeline    %d milestones, %s planned\n",
		snap.MilestoneCount, cli.FormatMinutes(snap.OccupiedMinutes))

	return b.String()
}

func renderMarkdown(cfg *config.Config, database *sql.DB, guard *identity.Guard, weddingID int64) (string, error) {
	engine := summary.NewEngine(database, guard)
	scheduler := timeline.NewScheduler(database, guard)
	tracker := tasks.NewTracker(database, guard)

	snap, err := engine.Snapshot(weddingID)
	if err != nil {
		return "", err
	}
	milestones, err := scheduler.OrderedMilestones(weddingID)
	if err != nil {
		return "", err
	}
	taskList, err := tracker.List(weddingID, tasks.Filter{})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", snap.Wedding.Title)
	fmt.Fprintf(&b, "Date: %s (%s)\n\n", snap.Wedding.Date.Format("January 2, 2006"), cli.FormatCountdown(snap.DaysUntil))
	fmt.Fprintf(&b, "- Progress: %d%% (%d/%d tasks)\n", snap.ProgressPercent, snap.TasksDone, snap.TasksTotal)
	fmt.Fprintf(&b, "- Budget: %s spent of %s (%s)\n",
		cli.FormatMoney(cfg.Currency, snap.Budget.TotalSpent),
		cli.FormatMoney(cfg.Currency, snap.Budget.TotalBudget),
		cli.FormatPercent(snap.Budget.UsedPercentage))
	fmt.Fprintf(&b, "- Timeline: %d milestones, %s planned\n\n", snap.MilestoneCount, cli.FormatMinutes(snap.OccupiedMinutes))

	if len(milestones) > 0 {
		b.WriteString("## Day-of timeline\n\n")
		for _, m := range milestones {
			if m.ScheduledAt != nil {
				fmt.Fprintf(&b, "- %s–%s  %s", m.ScheduledAt, timeline.EndTime(*m.ScheduledAt, m.DurationMin), m.Title)
			} else {
				fmt.Fprintf(&b, "- (unscheduled)  %s", m.Title)
			}
			if m.Location != "" {
				fmt.Fprintf(&b, " @ %s", m.Location)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(taskList) > 0 {
		b.WriteString("## Tasks\n\n")
		for _, t := range taskList {
			mark := " "
			if t.Status == models.StatusDone {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", mark, t.Title, t.Priority)
		}
	}

	return b.String(), nil
}

func logError(err error) {
	logPath, pathErr := config.ErrorLogPath()
	if pathErr != nil {
		return
	}

	// Ensure directory exists
	if err := config.EnsureDirectories(); err != nil {
		return
	}

	f, fileErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %v\n", time.Now().Format(time.RFC3339), err)
}
