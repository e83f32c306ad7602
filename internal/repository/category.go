package repository

import (
	"database/sql"

	"github.com/anamartens/bigday/internal/models"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(weddingID int64, name, icon, color string, allocated *float64) (*models.BudgetCategory, error) {
	result, err := r.db.Exec(`
		INSERT INTO budget_categories (wedding_id, name, icon, color, allocated)
		VALUES (?, ?, ?, ?, ?)
	`, weddingID, name, icon, color, allocated)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create category", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &models.PersistenceError{Op: "create category", Err: err}
	}

	return r.GetByID(id)
}

func (r *CategoryRepo) GetByID(id int64) (*models.BudgetCategory, error) {
	row := r.db.QueryRow(`
		SELECT id, wedding_id, name, icon, color, allocated, created_at
		FROM budget_categories
		WHERE id = ?
	`, id)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get category", Err: err}
	}
	return c, nil
}

func (r *CategoryRepo) GetByWeddingID(weddingID int64) ([]models.BudgetCategory, error) {
	rows, err := r.db.Query(`
		SELECT id, wedding_id, name, icon, color, allocated, created_at
		FROM budget_categories
		WHERE wedding_id = ?
		ORDER BY id
	`, weddingID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	var categories []models.BudgetCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "list categories", Err: err}
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepo) Update(id int64, name, icon, color string, allocated *float64) error {
	result, err := r.db.Exec(`
		UPDATE budget_categories SET name = ?, icon = ?, color = ?, allocated = ?
		WHERE id = ?
	`, name, icon, color, allocated, id)
	if err != nil {
		return &models.PersistenceError{Op: "update category", Err: err}
	}
	return requireAffected(result, "category", id)
}

func (r *CategoryRepo) SetAllocation(id int64, allocated *float64) error {
	result, err := r.db.Exec("UPDATE budget_categories SET allocated = ? WHERE id = ?", allocated, id)
	if err != nil {
		return &models.PersistenceError{Op: "update allocation", Err: err}
	}
	return requireAffected(result, "category", id)
}

// Delete removes the category; its expenses and tasks stay behind as
// uncategorized (schema sets category_id to NULL).
func (r *CategoryRepo) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM budget_categories WHERE id = ?", id)
	if err != nil {
		return &models.PersistenceError{Op: "delete category", Err: err}
	}
	return requireAffected(result, "category", id)
}

type CategoryWithSpent struct {
	models.BudgetCategory
	Spent        float64
	ExpenseCount int
}

// GetByWeddingIDWithSpent lists categories with their derived spent
// figure, each computed in the same read.
func (r *CategoryRepo) GetByWeddingIDWithSpent(weddingID int64) ([]CategoryWithSpent, error) {
	rows, err := r.db.Query(`
		SELECT
			c.id, c.wedding_id, c.name, c.icon, c.color, c.allocated, c.created_at,
			COALESCE(SUM(COALESCE(e.actual, 0)), 0) AS spent,
			COUNT(e.id) AS expense_count
		FROM budget_categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		WHERE c.wedding_id = ?
		GROUP BY c.id
		ORDER BY c.id
	`, weddingID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list categories with spent", Err: err}
	}
	defer rows.Close()

	var categories []CategoryWithSpent
	for rows.Next() {
		var c CategoryWithSpent
		var allocated sql.NullFloat64

		if err := rows.Scan(
			&c.ID, &c.WeddingID, &c.Name, &c.Icon, &c.Color, &allocated, &c.CreatedAt,
			&c.Spent, &c.ExpenseCount,
		); err != nil {
			return nil, &models.PersistenceError{Op: "list categories with spent", Err: err}
		}

		if allocated.Valid {
			c.Allocated = &allocated.Float64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(row rowScanner) (*models.BudgetCategory, error) {
	var c models.BudgetCategory
	var allocated sql.NullFloat64

	err := row.Scan(&c.ID, &c.WeddingID, &c.Name, &c.Icon, &c.Color, &allocated, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if allocated.Valid {
		c.Allocated = &allocated.Float64
	}
	return &c, nil
}
