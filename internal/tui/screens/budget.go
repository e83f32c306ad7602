package screens

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anamartens/bigday/internal/budget"
	"github.com/anamartens/bigday/internal/cli"
	"github.com/anamartens/bigday/internal/config"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/repository"
)

type budgetMode int

const (
	budgetModeList budgetMode = iota
	budgetModeAdd
	budgetModeAllocate
	budgetModeDelete
)

type Budget struct {
	cfg       *config.Config
	ledger    *budget.Ledger
	weddingID int64
	width     int
	height    int

	categories []repository.CategoryWithSpent
	cursor     int
	mode       budgetMode
	addForm    *form
	allocInput textinput.Model
	loading    bool
	err        error
	message    string
}

func NewBudget(db *sql.DB, cfg *config.Config, guard *identity.Guard, weddingID int64) *Budget {
	ti := textinput.New()
	ti.Placeholder = "Amount (blank = not budgeted)"
	ti.CharLimit = 20
	ti.Width = 30

	return &Budget{
		cfg:       cfg,
		ledger:    budget.NewLedger(db, guard),
		weddingID: weddingID,
		addForm: newForm(
			formField{label: "Category name", placeholder: "Catering"},
			formField{label: "Allocated amount (optional)", placeholder: "12000"},
		),
		allocInput: ti,
	}
}

func (s *Budget) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type budgetDataMsg struct {
	categories []repository.CategoryWithSpent
	err        error
}

func (s *Budget) Init() tea.Cmd {
	s.loading = true
	s.mode = budgetModeList
	s.message = ""
	return s.loadData
}

func (s *Budget) loadData() tea.Msg {
	categories, err := s.ledger.Categories(s.weddingID)
	return budgetDataMsg{categories: categories, err: err}
}

func (s *Budget) Update(msg tea.Msg) tea.Cmd {
	// In input modes, pass messages to the focused input first
	if s.mode == budgetModeAdd {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				if !s.addForm.atLast() {
					s.addForm.next()
					return nil
				}
				return s.handleAdd()
			case "tab", "down":
				s.addForm.next()
				return nil
			case "shift+tab", "up":
				s.addForm.prev()
				return nil
			case "esc":
				s.mode = budgetModeList
				return nil
			}
		}
		return s.addForm.update(msg)
	}

	if s.mode == budgetModeAllocate {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return s.handleAllocate()
			case "esc":
				s.mode = budgetModeList
				s.allocInput.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		s.allocInput, cmd = s.allocInput.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case budgetDataMsg:
		s.loading = false
		s.err = msg.err
		s.categories = msg.categories
		if s.cursor >= len(s.categories) {
			s.cursor = max(0, len(s.categories)-1)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch s.mode {
		case budgetModeList:
			return s.handleListKey(msg)
		case budgetModeDelete:
			return s.handleDeleteKey(msg)
		}
	}

	return nil
}

func (s *Budget) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.categories)-1 {
			s.cursor++
		}
	case "a":
		s.mode = budgetModeAdd
		s.addForm.reset()
	case "m":
		if len(s.categories) > 0 {
			s.mode = budgetModeAllocate
			c := s.categories[s.cursor]
			if c.Allocated != nil {
				s.allocInput.SetValue(strconv.FormatFloat(*c.Allocated, 'f', -1, 64))
			} else {
				s.allocInput.SetValue("")
			}
			s.allocInput.Focus()
		}
	case "d":
		if len(s.categories) > 0 {
			s.mode = budgetModeDelete
		}
	case "enter":
		if len(s.categories) > 0 {
			return NavigateWithCategory("expenses", s.categories[s.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (s *Budget) handleAdd() tea.Cmd {
	name := s.addForm.value(0)

	var allocated *float64
	if raw := s.addForm.value(1); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.err = fmt.Errorf("invalid allocated amount %q", raw)
			s.mode = budgetModeList
			return nil
		}
		allocated = &v
	}

	_, err := s.ledger.AddCategory(s.weddingID, name, "", "", allocated)
	if err != nil {
		s.err = err
	} else {
		s.message = fmt.Sprintf("Created category: %s", name)
	}
	s.mode = budgetModeList
	return s.loadData
}

func (s *Budget) handleAllocate() tea.Cmd {
	var allocated *float64
	if raw := strings.TrimSpace(s.allocInput.Value()); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.err = fmt.Errorf("invalid amount %q", raw)
			s.mode = budgetModeList
			s.allocInput.Blur()
			return nil
		}
		allocated = &v
	}

	err := s.ledger.SetAllocation(s.categories[s.cursor].ID, allocated)
	if err != nil {
		s.err = err
	} else {
		s.message = fmt.Sprintf("Updated allocation for %s", s.categories[s.cursor].Name)
	}
	s.mode = budgetModeList
	s.allocInput.Blur()
	return s.loadData
}

func (s *Budget) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		name := s.categories[s.cursor].Name
		err := s.ledger.DeleteCategory(s.categories[s.cursor].ID)
		if err != nil {
			s.err = err
		} else {
			s.message = fmt.Sprintf("Deleted category: %s", name)
		}
		s.mode = budgetModeList
		return s.loadData

	case "n", "N", "esc":
		s.mode = budgetModeList
	}
	return nil
}

func (s *Budget) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("BUDGET"))
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n\n")
		s.err = nil
	}

	if s.message != "" {
		b.WriteString(SuccessStyle.Render(s.message))
		b.WriteString("\n\n")
	}

	if s.mode == budgetModeAdd {
		b.WriteString("New category:\n\n")
		s.addForm.view(&b)
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Next/Save  [tab] Next field  [esc] Cancel"))
		return b.String()
	}

	if s.mode == budgetModeAllocate && len(s.categories) > 0 {
		b.WriteString(fmt.Sprintf("Allocation for %s:\n", s.categories[s.cursor].Name))
		b.WriteString(s.allocInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if s.mode == budgetModeDelete && len(s.categories) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete category '%s'? Its expenses become uncategorized. (y/n)",
			s.categories[s.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	// List mode
	if len(s.categories) == 0 {
		b.WriteString(DimStyle.Render("No categories yet."))
		b.WriteString("\n\n")
	} else {
		for i, c := range s.categories {
			cursor := "  "
			style := NormalStyle
			if i == s.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			allocated := DimStyle.Render("(not budgeted)")
			if c.Allocated != nil {
				allocated = fmt.Sprintf("of %s", cli.FormatMoney(s.cfg.Currency, *c.Allocated))
			}

			line := fmt.Sprintf("%s%s — %s spent %s (%d expenses)",
				cursor,
				c.Name,
				cli.FormatMoney(s.cfg.Currency, c.Spent),
				allocated,
				c.ExpenseCount,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [m] Allocation  [d] Delete  [enter] View expenses  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
