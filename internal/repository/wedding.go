package repository

import (
	"database/sql"
	"time"

	"github.com/anamartens/bigday/internal/models"
)

type WeddingRepo struct {
	db *sql.DB
}

func NewWeddingRepo(db *sql.DB) *WeddingRepo {
	return &WeddingRepo{db: db}
}

func (r *WeddingRepo) Create(title string, date time.Time, guestCount *int64, totalBudget *float64, ownerID string) (*models.Wedding, error) {
	result, err := r.db.Exec(`
		INSERT INTO weddings (title, wedding_date, guest_count, total_budget, status, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, title, date, guestCount, totalBudget, string(models.WeddingPlanning), ownerID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create wedding", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &models.PersistenceError{Op: "create wedding", Err: err}
	}

	return r.GetByID(id)
}

func (r *WeddingRepo) GetByID(id int64) (*models.Wedding, error) {
	row := r.db.QueryRow(`
		SELECT id, title, wedding_date, guest_count, total_budget, status, owner_id, created_at
		FROM weddings
		WHERE id = ?
	`, id)

	w, err := scanWedding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get wedding", Err: err}
	}
	return w, nil
}

func (r *WeddingRepo) GetAll() ([]models.Wedding, error) {
	rows, err := r.db.Query(`
		SELECT id, title, wedding_date, guest_count, total_budget, status, owner_id, created_at
		FROM weddings
		ORDER BY wedding_date ASC
	`)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list weddings", Err: err}
	}
	defer rows.Close()

	var weddings []models.Wedding
	for rows.Next() {
		w, err := scanWedding(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "list weddings", Err: err}
		}
		weddings = append(weddings, *w)
	}
	return weddings, rows.Err()
}

func (r *WeddingRepo) Update(id int64, title string, date time.Time, guestCount *int64, totalBudget *float64) error {
	result, err := r.db.Exec(`
		UPDATE weddings SET title = ?, wedding_date = ?, guest_count = ?, total_budget = ?
		WHERE id = ?
	`, title, date, guestCount, totalBudget, id)
	if err != nil {
		return &models.PersistenceError{Op: "update wedding", Err: err}
	}
	return requireAffected(result, "wedding", id)
}

func (r *WeddingRepo) SetStatus(id int64, status models.WeddingStatus) error {
	result, err := r.db.Exec("UPDATE weddings SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return &models.PersistenceError{Op: "update wedding status", Err: err}
	}
	return requireAffected(result, "wedding", id)
}

// Delete removes the wedding; the schema cascades to categories,
// expenses, tasks, and milestones.
func (r *WeddingRepo) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM weddings WHERE id = ?", id)
	if err != nil {
		return &models.PersistenceError{Op: "delete wedding", Err: err}
	}
	return requireAffected(result, "wedding", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWedding(row rowScanner) (*models.Wedding, error) {
	var w models.Wedding
	var guestCount sql.NullInt64
	var totalBudget sql.NullFloat64
	var status string

	err := row.Scan(&w.ID, &w.Title, &w.Date, &guestCount, &totalBudget, &status, &w.OwnerID, &w.CreatedAt)
	if err != nil {
		return nil, err
	}

	if guestCount.Valid {
		w.GuestCount = &guestCount.Int64
	}
	if totalBudget.Valid {
		w.TotalBudget = &totalBudget.Float64
	}
	w.Status = models.WeddingStatus(status)

	return &w, nil
}

// requireAffected turns a zero-row mutation into a NotFoundError.
func requireAffected(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return &models.PersistenceError{Op: "rows affected", Err: err}
	}
	if n == 0 {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
