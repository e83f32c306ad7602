package repository

import (
	"database/sql"

	"github.com/anamartens/bigday/internal/models"
)

type MilestoneRepo struct {
	db *sql.DB
}

func NewMilestoneRepo(db *sql.DB) *MilestoneRepo {
	return &MilestoneRepo{db: db}
}

func (r *MilestoneRepo) Create(m *models.Milestone) (*models.Milestone, error) {
	result, err := r.db.Exec(`
		INSERT INTO milestones (wedding_id, title, description, scheduled_at, duration_min,
		                        location, contact_name, contact_phone, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.WeddingID, m.Title, m.Description, timeOfDayString(m.ScheduledAt), m.DurationMin,
		m.Location, m.ContactName, m.ContactPhone, m.Notes)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create milestone", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &models.PersistenceError{Op: "create milestone", Err: err}
	}

	return r.GetByID(id)
}

func (r *MilestoneRepo) GetByID(id int64) (*models.Milestone, error) {
	row := r.db.QueryRow(`
		SELECT id, wedding_id, title, description, scheduled_at, duration_min,
		       location, contact_name, contact_phone, notes, created_at
		FROM milestones
		WHERE id = ?
	`, id)

	m, err := scanMilestone(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get milestone", Err: err}
	}
	return m, nil
}

// GetByWeddingID returns the wedding's milestones in day order:
// scheduled ones ascending, unscheduled ones last, ties by insertion.
// The zero-padded HH:MM wire form sorts correctly as text.
func (r *MilestoneRepo) GetByWeddingID(weddingID int64) ([]models.Milestone, error) {
	rows, err := r.db.Query(`
		SELECT id, wedding_id, title, description, scheduled_at, duration_min,
		       location, contact_name, contact_phone, notes, created_at
		FROM milestones
		WHERE wedding_id = ?
		ORDER BY scheduled_at IS NULL, scheduled_at, id
	`, weddingID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list milestones", Err: err}
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "list milestones", Err: err}
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepo) Update(m *models.Milestone) error {
	result, err := r.db.Exec(`
		UPDATE milestones
		SET title = ?, description = ?, scheduled_at = ?, duration_min = ?,
		    location = ?, contact_name = ?, contact_phone = ?, notes = ?
		WHERE id = ?
	`, m.Title, m.Description, timeOfDayString(m.ScheduledAt), m.DurationMin,
		m.Location, m.ContactName, m.ContactPhone, m.Notes, m.ID)
	if err != nil {
		return &models.PersistenceError{Op: "update milestone", Err: err}
	}
	return requireAffected(result, "milestone", m.ID)
}

func (r *MilestoneRepo) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM milestones WHERE id = ?", id)
	if err != nil {
		return &models.PersistenceError{Op: "delete milestone", Err: err}
	}
	return requireAffected(result, "milestone", id)
}

// SumDuration derives the total occupied minutes in one read.
func (r *MilestoneRepo) SumDuration(weddingID int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(duration_min), 0)
		FROM milestones
		WHERE wedding_id = ?
	`, weddingID).Scan(&total)
	if err != nil {
		return 0, &models.PersistenceError{Op: "sum milestone duration", Err: err}
	}
	return total, nil
}

// CountByWedding returns the number of milestones on the timeline.
func (r *MilestoneRepo) CountByWedding(weddingID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM milestones WHERE wedding_id = ?", weddingID).Scan(&count)
	if err != nil {
		return 0, &models.PersistenceError{Op: "count milestones", Err: err}
	}
	return count, nil
}

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	var m models.Milestone
	var scheduledAt sql.NullString

	err := row.Scan(
		&m.ID, &m.WeddingID, &m.Title, &m.Description, &scheduledAt, &m.DurationMin,
		&m.Location, &m.ContactName, &m.ContactPhone, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid && scheduledAt.String != "" {
		t, err := models.ParseTimeOfDay(scheduledAt.String)
		if err != nil {
			return nil, err
		}
		m.ScheduledAt = &t
	}

	return &m, nil
}

func timeOfDayString(t *models.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
