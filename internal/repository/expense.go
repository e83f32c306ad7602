package repository

import (
	"database/sql"

	"github.com/anamartens/bigday/internal/models"
)

type ExpenseRepo struct {
	db *sql.DB
}

func NewExpenseRepo(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{db: db}
}

func (r *ExpenseRepo) Create(e *models.Expense) (*models.Expense, error) {
	result, err := r.db.Exec(`
		INSERT INTO expenses (wedding_id, category_id, name, estimated, actual, payment_status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.WeddingID, e.CategoryID, e.Name, e.Estimated, e.Actual, string(e.PaymentStatus), e.Notes)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create expense", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &models.PersistenceError{Op: "create expense", Err: err}
	}

	return r.GetByID(id)
}

func (r *ExpenseRepo) GetByID(id int64) (*models.Expense, error) {
	row := r.db.QueryRow(`
		SELECT e.id, e.wedding_id, e.category_id, e.name, e.estimated, e.actual,
		       e.payment_status, e.notes, e.created_at, c.name
		FROM expenses e
		LEFT JOIN budget_categories c ON c.id = e.category_id
		WHERE e.id = ?
	`, id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get expense", Err: err}
	}
	return e, nil
}

func (r *ExpenseRepo) GetByWeddingID(weddingID int64) ([]models.Expense, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.wedding_id, e.category_id, e.name, e.estimated, e.actual,
		       e.payment_status, e.notes, e.created_at, c.name
		FROM expenses e
		LEFT JOIN budget_categories c ON c.id = e.category_id
		WHERE e.wedding_id = ?
		ORDER BY e.id
	`, weddingID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepo) GetByCategoryID(categoryID int64) ([]models.Expense, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.wedding_id, e.category_id, e.name, e.estimated, e.actual,
		       e.payment_status, e.notes, e.created_at, c.name
		FROM expenses e
		LEFT JOIN budget_categories c ON c.id = e.category_id
		WHERE e.category_id = ?
		ORDER BY e.id
	`, categoryID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepo) Update(e *models.Expense) error {
	result, err := r.db.Exec(`
		UPDATE expenses
		SET category_id = ?, name = ?, estimated = ?, actual = ?, payment_status = ?, notes = ?
		WHERE id = ?
	`, e.CategoryID, e.Name, e.Estimated, e.Actual, string(e.PaymentStatus), e.Notes, e.ID)
	if err != nil {
		return &models.PersistenceError{Op: "update expense", Err: err}
	}
	return requireAffected(result, "expense", e.ID)
}

func (r *ExpenseRepo) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return &models.PersistenceError{Op: "delete expense", Err: err}
	}
	return requireAffected(result, "expense", id)
}

// SumActualByCategory derives the category's spent figure in a single
// read. NULL actual amounts count as zero.
func (r *ExpenseRepo) SumActualByCategory(categoryID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(COALESCE(actual, 0)), 0)
		FROM expenses
		WHERE category_id = ?
	`, categoryID).Scan(&sum)
	if err != nil {
		return 0, &models.PersistenceError{Op: "sum category spend", Err: err}
	}
	return sum, nil
}

// SumActualByWedding covers every expense of the wedding, categorized
// or not.
func (r *ExpenseRepo) SumActualByWedding(weddingID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(COALESCE(actual, 0)), 0)
		FROM expenses
		WHERE wedding_id = ?
	`, weddingID).Scan(&sum)
	if err != nil {
		return 0, &models.PersistenceError{Op: "sum wedding spend", Err: err}
	}
	return sum, nil
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "scan expense", Err: err}
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	var categoryID sql.NullInt64
	var estimated, actual sql.NullFloat64
	var paymentStatus string
	var categoryName sql.NullString

	err := row.Scan(
		&e.ID, &e.WeddingID, &categoryID, &e.Name, &estimated, &actual,
		&paymentStatus, &e.Notes, &e.CreatedAt, &categoryName,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if estimated.Valid {
		e.Estimated = &estimated.Float64
	}
	if actual.Valid {
		e.Actual = &actual.Float64
	}
	e.PaymentStatus = models.PaymentStatus(paymentStatus)
	e.CategoryName = categoryName.String

	return &e, nil
}
