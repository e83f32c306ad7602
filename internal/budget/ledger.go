// Package budget tracks allocated vs. spent amounts per category and
// per line-item expense. Every spent figure is derived on read, never
// stored.
package budget

import (
	"database/sql"
	"math"
	"strings"

	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

type Ledger struct {
	weddings   *repository.WeddingRepo
	categories *repository.CategoryRepo
	expenses   *repository.ExpenseRepo
	guard      *identity.Guard
}

func NewLedger(db *sql.DB, guard *identity.Guard) *Ledger {
	return &Ledger{
		weddings:   repository.NewWeddingRepo(db),
		categories: repository.NewCategoryRepo(db),
		expenses:   repository.NewExpenseRepo(db),
		guard:      guard,
	}
}

// ExpenseInput carries caller-supplied expense fields. Nil amounts mean
// "not known yet"; an empty payment status defaults to unpaid.
type ExpenseInput struct {
	CategoryID    *int64
	Name          string
	Estimated     *float64
	Actual        *float64
	PaymentStatus models.PaymentStatus
	Notes         string
}

func (in *ExpenseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "required"}
	}
	if in.Estimated != nil && *in.Estimated < 0 {
		return &models.ValidationError{Field: "estimated", Reason: "must not be negative"}
	}
	if in.Actual != nil && *in.Actual < 0 {
		return &models.ValidationError{Field: "actual", Reason: "must not be negative"}
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentUnpaid
	}
	if !in.PaymentStatus.Valid() {
		return &models.ValidationError{Field: "payment_status", Reason: "unknown value"}
	}
	return nil
}

func (l *Ledger) AddExpense(weddingID int64, in ExpenseInput) (*models.Expense, error) {
	if err := l.guard.Authorize(weddingID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := l.checkCategory(weddingID, in.CategoryID); err != nil {
		return nil, err
	}

	return l.expenses.Create(&models.Expense{
		WeddingID:     weddingID,
		CategoryID:    in.CategoryID,
		Name:          strings.TrimSpace(in.Name),
		Estimated:     in.Estimated,
		Actual:        in.Actual,
		PaymentStatus: in.PaymentStatus,
		Notes:         in.Notes,
	})
}

func (l *Ledger) UpdateExpense(id int64, in ExpenseInput) (*models.Expense, error) {
	existing, err := l.expenses.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &models.NotFoundError{Entity: "expense", ID: id}
	}
	if err := l.guard.Authorize(existing.WeddingID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := l.checkCategory(existing.WeddingID, in.CategoryID); err != nil {
		return nil, err
	}

	existing.CategoryID = in.CategoryID
	existing.Name = strings.TrimSpace(in.Name)
	existing.Estimated = in.Estimated
	existing.Actual = in.Actual
	existing.PaymentStatus = in.PaymentStatus
	existing.Notes = in.Notes

	if err := l.expenses.Update(existing); err != nil {
		return nil, err
	}
	return l.expenses.GetByID(id)
}

func (l *Ledger) DeleteExpense(id int64) error {
	existing, err := l.expenses.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &models.NotFoundError{Entity: "expense", ID: id}
	}
	if err := l.guard.Authorize(existing.WeddingID); err != nil {
		return err
	}
	return l.expenses.Delete(id)
}

func (l *Ledger) Expenses(weddingID int64) ([]models.Expense, error) {
	return l.expenses.GetByWeddingID(weddingID)
}

// CategorySpent sums actual amounts over the category's expenses,
// treating unset amounts as zero.
func (l *Ledger) CategorySpent(categoryID int64) (float64, error) {
	return l.expenses.SumActualByCategory(categoryID)
}

// TotalSpent covers categorized and uncategorized expenses alike.
func (l *Ledger) TotalSpent(weddingID int64) (float64, error) {
	return l.expenses.SumActualByWedding(weddingID)
}

// BudgetUsedPercentage returns spend as a share of the wedding's budget
// ceiling, rounded to one decimal. Zero when no ceiling is set.
func (l *Ledger) BudgetUsedPercentage(weddingID int64) (float64, error) {
	w, err := l.weddings.GetByID(weddingID)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, &models.NotFoundError{Entity: "wedding", ID: weddingID}
	}
	if w.TotalBudget == nil || *w.TotalBudget == 0 {
		return 0, nil
	}

	spent, err := l.TotalSpent(weddingID)
	if err != nil {
		return 0, err
	}
	return math.Round(spent / *w.TotalBudget * 1000) / 10, nil
}

func (l *Ledger) AddCategory(weddingID int64, name, icon, color string, allocated *float64) (*models.BudgetCategory, error) {
	if err := l.guard.Authorize(weddingID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "required"}
	}
	if allocated != nil && *allocated < 0 {
		return nil, &models.ValidationError{Field: "allocated", Reason: "must not be negative"}
	}
	return l.categories.Create(weddingID, strings.TrimSpace(name), icon, color, allocated)
}

func (l *Ledger) SetAllocation(categoryID int64, allocated *float64) error {
	c, err := l.categories.GetByID(categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Entity: "category", ID: categoryID}
	}
	if err := l.guard.Authorize(c.WeddingID); err != nil {
		return err
	}
	if allocated != nil && *allocated < 0 {
		return &models.ValidationError{Field: "allocated", Reason: "must not be negative"}
	}
	return l.categories.SetAllocation(categoryID, allocated)
}

// DeleteCategory leaves the category's expenses behind as
// uncategorized.
func (l *Ledger) DeleteCategory(categoryID int64) error {
	c, err := l.categories.GetByID(categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Entity: "category", ID: categoryID}
	}
	if err := l.guard.Authorize(c.WeddingID); err != nil {
		return err
	}
	return l.categories.Delete(categoryID)
}

// Categories lists the wedding's categories with their derived spent
// figures.
func (l *Ledger) Categories(weddingID int64) ([]repository.CategoryWithSpent, error) {
	return l.categories.GetByWeddingIDWithSpent(weddingID)
}

// checkCategory rejects refs to absent categories or to categories of
// another wedding. A nil ref (uncategorized) is always fine.
func (l *Ledger) checkCategory(weddingID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	c, err := l.categories.GetByID(*categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Entity: "category", ID: *categoryID}
	}
	if c.WeddingID != weddingID {
		return &models.ValidationError{Field: "category_id", Reason: "belongs to a different wedding"}
	}
	return nil
}
