package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/anamartens/bigday/internal/models"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(t *models.Task) (*models.Task, error) {
	result, err := r.db.Exec(`
		INSERT INTO tasks (wedding_id, title, description, kind, priority, status,
		                   due_date, estimated_cost, provider_ref, venue_ref, category_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.WeddingID, t.Title, t.Description, string(t.Kind), string(t.Priority), string(t.Status),
		t.DueDate, t.EstimatedCost, uuidString(t.ProviderRef), uuidString(t.VenueRef), t.CategoryID, t.Notes)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create task", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &models.PersistenceError{Op: "create task", Err: err}
	}

	return r.GetByID(id)
}

func (r *TaskRepo) GetByID(id int64) (*models.Task, error) {
	row := r.db.QueryRow(taskSelect+" WHERE t.id = ?", id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get task", Err: err}
	}
	return t, nil
}

func (r *TaskRepo) GetByWeddingID(weddingID int64) ([]models.Task, error) {
	rows, err := r.db.Query(taskSelect+" WHERE t.wedding_id = ? ORDER BY t.id", weddingID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "list tasks", Err: err}
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(t *models.Task) error {
	result, err := r.db.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, kind = ?, priority = ?, due_date = ?,
		    estimated_cost = ?, provider_ref = ?, venue_ref = ?, category_id = ?, notes = ?
		WHERE id = ?
	`, t.Title, t.Description, string(t.Kind), string(t.Priority), t.DueDate,
		t.EstimatedCost, uuidString(t.ProviderRef), uuidString(t.VenueRef), t.CategoryID, t.Notes, t.ID)
	if err != nil {
		return &models.PersistenceError{Op: "update task", Err: err}
	}
	return requireAffected(result, "task", t.ID)
}

// SetStatus writes the status and completion stamp together so a task
// can never be observed done without its stamp.
func (r *TaskRepo) SetStatus(id int64, status models.TaskStatus, completedAt *time.Time) error {
	result, err := r.db.Exec(`
		UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?
	`, string(status), completedAt, id)
	if err != nil {
		return &models.PersistenceError{Op: "update task status", Err: err}
	}
	return requireAffected(result, "task", id)
}

func (r *TaskRepo) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return &models.PersistenceError{Op: "delete task", Err: err}
	}
	return requireAffected(result, "task", id)
}

// CountByWedding derives total and done counts in one read.
func (r *TaskRepo) CountByWedding(weddingID int64) (total, done int, err error) {
	err = r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE wedding_id = ?
	`, weddingID).Scan(&total, &done)
	if err != nil {
		return 0, 0, &models.PersistenceError{Op: "count tasks", Err: err}
	}
	return total, done, nil
}

const taskSelect = `
	SELECT t.id, t.wedding_id, t.title, t.description, t.kind, t.priority, t.status,
	       t.due_date, t.estimated_cost, t.provider_ref, t.venue_ref, t.category_id,
	       t.notes, t.completed_at, t.created_at, c.name
	FROM tasks t
	LEFT JOIN budget_categories c ON c.id = t.category_id
`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var kind, priority, status string
	var dueDate, completedAt sql.NullTime
	var estimatedCost sql.NullFloat64
	var providerRef, venueRef, categoryName sql.NullString
	var categoryID sql.NullInt64

	err := row.Scan(
		&t.ID, &t.WeddingID, &t.Title, &t.Description, &kind, &priority, &status,
		&dueDate, &estimatedCost, &providerRef, &venueRef, &categoryID,
		&t.Notes, &completedAt, &t.CreatedAt, &categoryName,
	)
	if err != nil {
		return nil, err
	}

	t.Kind = models.TaskKind(kind)
	t.Priority = models.TaskPriority(priority)
	t.Status = models.TaskStatus(status)
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if estimatedCost.Valid {
		t.EstimatedCost = &estimatedCost.Float64
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	t.CategoryName = categoryName.String

	if t.ProviderRef, err = parseUUID(providerRef); err != nil {
		return nil, err
	}
	if t.VenueRef, err = parseUUID(venueRef); err != nil {
		return nil, err
	}

	return &t, nil
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
