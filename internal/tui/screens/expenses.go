package screens

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anamartens/bigday/internal/budget"
	"github.com/anamartens/bigday/internal/cli"
	"github.com/anamartens/bigday/internal/config"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
)

type expensesMode int

const (
	expensesModeList expensesMode = iota
	expensesModeAdd
	expensesModeDelete
)

type Expenses struct {
	cfg       *config.Config
	ledger    *budget.Ledger
	weddingID int64
	width     int
	height    int

	expenses       []models.Expense
	categoryFilter *int64
	cursor         int
	mode           expensesMode
	addForm        *form
	loading        bool
	err            error
	message        string
}

func NewExpenses(db *sql.DB, cfg *config.Config, guard *identity.Guard, weddingID int64) *Expenses {
	return &Expenses{
		cfg:       cfg,
		ledger:    budget.NewLedger(db, guard),
		weddingID: weddingID,
		addForm: newForm(
			formField{label: "Name", placeholder: "Florist deposit"},
			formField{label: "Actual amount (optional)", placeholder: "450"},
			formField{label: "Estimated amount (optional)", placeholder: "500"},
			formField{label: "Payment status", placeholder: "unpaid | deposit_paid | balance_paid | fully_paid"},
			formField{label: "Notes (optional)", placeholder: ""},
		),
	}
}

func (s *Expenses) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Expenses) SetCategoryFilter(categoryID *int64) {
	s.categoryFilter = categoryID
}

type expensesDataMsg struct {
	expenses []models.Expense
	err      error
}

func (s *Expenses) Init() tea.Cmd {
	s.loading = true
	s.mode = expensesModeList
	s.message = ""
	return s.loadData
}

func (s *Expenses) loadData() tea.Msg {
	expenses, err := s.ledger.Expenses(s.weddingID)
	if err != nil {
		return expensesDataMsg{err: err}
	}

	if s.categoryFilter != nil {
		var filtered []models.Expense
		for _, e := range expenses {
			if e.CategoryID != nil && *e.CategoryID == *s.categoryFilter {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	return expensesDataMsg{expenses: expenses}
}

func (s *Expenses) Update(msg tea.Msg) tea.Cmd {
	if s.mode == expensesModeAdd {
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
				s.mode = expensesModeList
				return nil
			}
		}
		return s.addForm.update(msg)
	}

	switch msg := msg.(type) {
	case expensesDataMsg:
		s.loading = false
		s.err = msg.err
		s.expenses = msg.expenses
		if s.cursor >= len(s.expenses) {
			s.cursor = max(0, len(s.expenses)-1)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch s.mode {
		case expensesModeList:
			return s.handleListKey(msg)
		case expensesModeDelete:
			return s.handleDeleteKey(msg)
		}
	}

	return nil
}

func (s *Expenses) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.expenses)-1 {
			s.cursor++
		}
	case "a":
		s.mode = expensesModeAdd
		s.addForm.reset("", "", "", string(models.PaymentUnpaid), "")
	case "p":
		if len(s.expenses) > 0 {
			return s.cyclePayment()
		}
	case "d":
		if len(s.expenses) > 0 {
			s.mode = expensesModeDelete
		}
	case "q", "esc":
		if s.categoryFilter != nil {
			return Navigate("budget")
		}
		return Navigate("dashboard")
	}
	return nil
}

func (s *Expenses) handleAdd() tea.Cmd {
	in := budget.ExpenseInput{
		CategoryID:    s.categoryFilter,
		Name:          s.addForm.value(0),
		PaymentStatus: models.PaymentStatus(s.addForm.value(3)),
		Notes:         s.addForm.value(4),
	}

	var parseErr error
	in.Actual, parseErr = parseOptionalAmount(s.addForm.value(1))
	if parseErr == nil {
		var err error
		in.Estimated, err = parseOptionalAmount(s.addForm.value(2))
		parseErr = err
	}
	if parseErr != nil {
		s.err = parseErr
		s.mode = expensesModeList
		return nil
	}

	_, err := s.ledger.AddExpense(s.weddingID, in)
	if err != nil {
		s.err = err
	} else {
		s.message = fmt.Sprintf("Added expense: %s", in.Name)
	}
	s.mode = expensesModeList
	return s.loadData
}

// cyclePayment advances the selected expense through the payment
// states in order.
func (s *Expenses) cyclePayment() tea.Cmd {
	e := s.expenses[s.cursor]

	order := []models.PaymentStatus{
		models.PaymentUnpaid,
		models.PaymentDepositPaid,
		models.PaymentBalancePaid,
		models.PaymentFullyPaid,
	}
	next := order[0]
	for i, st := range order {
		if st == e.PaymentStatus {
			next = order[(i+1)%len(order)]
			break
		}
	}

	_, err := s.ledger.UpdateExpense(e.ID, budget.ExpenseInput{
		CategoryID:    e.CategoryID,
		Name:          e.Name,
		Estimated:     e.Estimated,
		Actual:        e.Actual,
		PaymentStatus: next,
		Notes:         e.Notes,
	})
	if err != nil {
		s.err = err
	}
	return s.loadData
}

func (s *Expenses) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		name := s.expenses[s.cursor].Name
		err := s.ledger.DeleteExpense(s.expenses[s.cursor].ID)
		if err != nil {
			s.err = err
		} else {
			s.message = fmt.Sprintf("Deleted expense: %s", name)
		}
		s.mode = expensesModeList
		return s.loadData

	case "n", "N", "esc":
		s.mode = expensesModeList
	}
	return nil
}

func (s *Expenses) View() string {
	var b strings.Builder

	title := "EXPENSES"
	if s.categoryFilter != nil && len(s.expenses) > 0 && s.expenses[0].CategoryName != "" {
		title = fmt.Sprintf("EXPENSES - %s", s.expenses[0].CategoryName)
	}
	b.WriteString(TitleStyle.Render(title))
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

	if s.mode == expensesModeAdd {
		b.WriteString("New expense:\n\n")
		s.addForm.view(&b)
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Next/Save  [tab] Next field  [esc] Cancel"))
		return b.String()
	}

	if s.mode == expensesModeDelete && len(s.expenses) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete expense '%s'? (y/n)",
			s.expenses[s.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	// List mode
	if len(s.expenses) == 0 {
		b.WriteString(DimStyle.Render("No expenses yet."))
		b.WriteString("\n\n")
	} else {
		for i, e := range s.expenses {
			cursor := "  "
			style := NormalStyle
			if i == s.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			actual := DimStyle.Render("(no amount)")
			if e.Actual != nil {
				actual = cli.FormatMoney(s.cfg.Currency, *e.Actual)
			}

			category := ""
			if s.categoryFilter == nil {
				category = DimStyle.Render(" (uncategorized)")
				if e.CategoryName != "" {
					category = DimStyle.Render(fmt.Sprintf(" (%s)", e.CategoryName))
				}
			}

			line := fmt.Sprintf("%s%s — %s [%s]%s",
				cursor,
				e.Name,
				actual,
				e.PaymentStatus,
				category,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [p] Cycle payment  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func parseOptionalAmount(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return &v, nil
}
