package tui

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/anamartens/bigday/internal/config"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/repository"
	"github.com/anamartens/bigday/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenBudget
	ScreenExpenses
	ScreenTasks
	ScreenTimeline
)

type App struct {
	db            *sql.DB
	cfg           *config.Config
	guard         *identity.Guard
	currentScreen Screen
	width         int
	height        int
	weddingID     int64

	// First-run setup (huh form)
	needSetup bool
	setupForm *huh.Form
	setupVals setupValues
	setupErr  error

	// Screen models
	dashboard *screens.Dashboard
	budget    *screens.Budget
	expenses  *screens.Expenses
	tasks     *screens.Tasks
	timeline  *screens.Timeline
}

func NewApp(db *sql.DB, cfg *config.Config) *App {
	guard := identity.NewGuard(repository.NewWeddingRepo(db), identity.Static(cfg.Owner))
	return &App{
		db:            db,
		cfg:           cfg,
		guard:         guard,
		currentScreen: ScreenDashboard,
	}
}

type setupValues struct {
	title  string
	date   string
	guests string
	budget string
}

func newSetupForm(vals *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Who's getting married?").
				Placeholder("Ana & Robin").
				Value(&vals.title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Wedding date").
				Placeholder("2027-06-12").
				Value(&vals.date).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Estimated guest count (optional)").
				Value(&vals.guests).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.ParseInt(s, 10, 64); err != nil {
						return fmt.Errorf("expected a whole number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Total budget (optional)").
				Value(&vals.budget).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if v, err := strconv.ParseFloat(s, 64); err != nil || v < 0 {
						return fmt.Errorf("expected a non-negative amount")
					}
					return nil
				}),
		),
	)
}

func (a *App) Init() tea.Cmd {
	weddings, err := repository.NewWeddingRepo(a.db).GetAll()
	if err == nil && len(weddings) == 0 {
		a.needSetup = true
		a.setupForm = newSetupForm(&a.setupVals)
		return a.setupForm.Init()
	}
	if err == nil {
		a.weddingID = weddings[0].ID
	}

	return a.initScreens()
}

func (a *App) initScreens() tea.Cmd {
	a.dashboard = screens.NewDashboard(a.db, a.cfg, a.guard, a.weddingID)
	a.budget = screens.NewBudget(a.db, a.cfg, a.guard, a.weddingID)
	a.expenses = screens.NewExpenses(a.db, a.cfg, a.guard, a.weddingID)
	a.tasks = screens.NewTasks(a.db, a.guard, a.weddingID)
	a.timeline = screens.NewTimeline(a.db, a.guard, a.weddingID)

	if a.width > 0 {
		a.setSizes()
	}

	return a.dashboard.Init()
}

func (a *App) setSizes() {
	a.dashboard.SetSize(a.width, a.height)
	a.budget.SetSize(a.width, a.height)
	a.expenses.SetSize(a.width, a.height)
	a.tasks.SetSize(a.width, a.height)
	a.timeline.SetSize(a.width, a.height)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.needSetup {
		if msg, ok := msg.(tea.WindowSizeMsg); ok {
			a.width = msg.Width
			a.height = msg.Height
		}
		return a.updateSetupForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.setSizes()

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenBudget:
		cmd = a.budget.Update(msg)
	case ScreenExpenses:
		cmd = a.expenses.Update(msg)
	case ScreenTasks:
		cmd = a.tasks.Update(msg)
	case ScreenTimeline:
		cmd = a.timeline.Update(msg)
	}

	return a, cmd
}

func (a *App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetup(); err != nil {
			a.setupErr = err
			a.setupForm = newSetupForm(&a.setupVals)
			return a, a.setupForm.Init()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, a.initScreens()
	}

	if a.setupForm.State == huh.StateAborted {
		return a, tea.Quit
	}

	return a, cmd
}

func (a *App) saveSetup() error {
	date, err := time.Parse("2006-01-02", a.setupVals.date)
	if err != nil {
		return err
	}

	var guests *int64
	if a.setupVals.guests != "" {
		n, err := strconv.ParseInt(a.setupVals.guests, 10, 64)
		if err != nil {
			return err
		}
		guests = &n
	}

	var budget *float64
	if a.setupVals.budget != "" {
		v, err := strconv.ParseFloat(a.setupVals.budget, 64)
		if err != nil {
			return err
		}
		budget = &v
	}

	w, err := repository.NewWeddingRepo(a.db).Create(a.setupVals.title, date, guests, budget, a.cfg.Owner)
	if err != nil {
		return err
	}
	a.weddingID = w.ID
	return nil
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "budget":
		a.currentScreen = ScreenBudget
		return a, a.budget.Init()
	case "expenses":
		a.currentScreen = ScreenExpenses
		a.expenses.SetCategoryFilter(msg.CategoryID)
		return a, a.expenses.Init()
	case "tasks":
		a.currentScreen = ScreenTasks
		return a, a.tasks.Init()
	case "timeline":
		a.currentScreen = ScreenTimeline
		return a, a.timeline.Init()
	}
	return a, nil
}

func (a *App) View() string {
	if a.needSetup {
		var header string
		header = screens.TitleStyle.Render("BIGDAY") + "\n" +
			screens.SubtitleStyle.Render("Let's set up your wedding.") + "\n"
		if a.setupErr != nil {
			header += screens.ErrorStyle.Render(fmt.Sprintf("Error: %v", a.setupErr)) + "\n"
		}
		return header + a.setupForm.View()
	}

	var content string
	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenBudget:
		content = a.budget.View()
	case ScreenExpenses:
		content = a.expenses.View()
	case ScreenTasks:
		content = a.tasks.View()
	case ScreenTimeline:
		content = a.timeline.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(db *sql.DB, cfg *config.Config) error {
	app := NewApp(db, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
