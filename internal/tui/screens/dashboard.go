package screens

import (
	"database/sql"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anamartens/bigday/internal/cli"
	"github.com/anamartens/bigday/internal/config"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/summary"
)

type Dashboard struct {
	cfg       *config.Config
	engine    *summary.Engine
	weddingID int64
	width     int
	height    int

	snap    *summary.Snapshot
	overdue []models.Task
	loading bool
	err     error
}

func NewDashboard(db *sql.DB, cfg *config.Config, guard *identity.Guard, weddingID int64) *Dashboard {
	return &Dashboard{
		cfg:       cfg,
		engine:    summary.NewEngine(db, guard),
		weddingID: weddingID,
		loading:   true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	snap    *summary.Snapshot
	overdue []models.Task
	err     error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	snap, err := d.engine.Snapshot(d.weddingID)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	overdue, err := d.engine.OverdueTasks(d.weddingID)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{snap: snap, overdue: overdue}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.snap = msg.snap
		d.overdue = msg.overdue
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "b":
			return Navigate("budget")
		case "e":
			return Navigate("expenses")
		case "t":
			return Navigate("tasks")
		case "l":
			return Navigate("timeline")
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("BIGDAY"))
	b.WriteString("\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		return b.String()
	}

	snap := d.snap
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s — %s (%s)",
		snap.Wedding.Title,
		snap.Wedding.Date.Format("Jan 02, 2006"),
		cli.FormatCountdown(snap.DaysUntil),
	)))
	b.WriteString("\n\n")

	statsContent := fmt.Sprintf(
		"Progress: %d%% (%d of %d tasks done)\nBudget:   %s of %s spent (%s)\nTimeline: %d milestones, %s planned",
		snap.ProgressPercent, snap.TasksDone, snap.TasksTotal,
		cli.FormatMoney(d.cfg.Currency, snap.Budget.TotalSpent),
		cli.FormatMoney(d.cfg.Currency, snap.Budget.TotalBudget),
		cli.FormatPercent(snap.Budget.UsedPercentage),
		snap.MilestoneCount,
		cli.FormatMinutes(snap.OccupiedMinutes),
	)
	b.WriteString(BoxStyle.Render(statsContent))
	b.WriteString("\n\n")

	if len(d.overdue) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%d overdue:", len(d.overdue))))
		b.WriteString("\n")
		for _, t := range d.overdue {
			b.WriteString(fmt.Sprintf("  ! %s (due %s)\n",
				NormalStyle.Render(t.Title),
				t.DueDate.Format("Jan 02"),
			))
		}
	} else {
		b.WriteString(SuccessStyle.Render("Nothing overdue."))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	help := "[b] Budget  [e] Expenses  [t] Tasks  [l] Timeline  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
