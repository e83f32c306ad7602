// Package tasks maintains the wedding's task list: CRUD, the status
// state machine with its completion stamp, and overdue detection.
package tasks

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

type Tracker struct {
	tasks      *repository.TaskRepo
	categories *repository.CategoryRepo
	guard      *identity.Guard

	now func() time.Time // swapped in tests
}

func NewTracker(db *sql.DB, guard *identity.Guard) *Tracker {
	return &Tracker{
		tasks:      repository.NewTaskRepo(db),
		categories: repository.NewCategoryRepo(db),
		guard:      guard,
		now:        time.Now,
	}
}

// TaskInput carries caller-supplied task fields. Provider and venue
// refs are opaque registry identifiers; the registries validate them,
// not this core.
type TaskInput struct {
	Title         string
	Description   string
	Kind          models.TaskKind
	Priority      models.TaskPriority
	DueDate       *time.Time
	EstimatedCost *float64
	ProviderRef   *uuid.UUID
	VenueRef      *uuid.UUID
	CategoryID    *int64
	Notes         string
}

func (in *TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &models.ValidationError{Field: "title", Reason: "required"}
	}
	if in.Kind == "" {
		in.Kind = models.TaskGeneral
	}
	if !in.Kind.Valid() {
		return &models.ValidationError{Field: "kind", Reason: "unknown value"}
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return &models.ValidationError{Field: "priority", Reason: "unknown value"}
	}
	if in.EstimatedCost != nil && *in.EstimatedCost < 0 {
		return &models.ValidationError{Field: "estimated_cost", Reason: "must not be negative"}
	}
	return nil
}

func (t *Tracker) Create(weddingID int64, in TaskInput) (*models.Task, error) {
	if err := t.guard.Authorize(weddingID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := t.checkCategory(weddingID, in.CategoryID); err != nil {
		return nil, err
	}

	return t.tasks.Create(&models.Task{
		WeddingID:     weddingID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Kind:          in.Kind,
		Priority:      in.Priority,
		Status:        models.StatusTodo,
		DueDate:       in.DueDate,
		EstimatedCost: in.EstimatedCost,
		ProviderRef:   in.ProviderRef,
		VenueRef:      in.VenueRef,
		CategoryID:    in.CategoryID,
		Notes:         in.Notes,
	})
}

func (t *Tracker) Update(id int64, in TaskInput) (*models.Task, error) {
	existing, err := t.get(id)
	if err != nil {
		return nil, err
	}
	if err := t.guard.Authorize(existing.WeddingID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := t.checkCategory(existing.WeddingID, in.CategoryID); err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Description = in.Description
	existing.Kind = in.Kind
	existing.Priority = in.Priority
	existing.DueDate = in.DueDate
	existing.EstimatedCost = in.EstimatedCost
	existing.ProviderRef = in.ProviderRef
	existing.VenueRef = in.VenueRef
	existing.CategoryID = in.CategoryID
	existing.Notes = in.Notes

	if err := t.tasks.Update(existing); err != nil {
		return nil, err
	}
	return t.tasks.GetByID(id)
}

// SetStatus moves the task to any status. Entering done stamps the
// completion time; leaving done clears it. A repeated done keeps the
// original stamp.
func (t *Tracker) SetStatus(id int64, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: "unknown value"}
	}

	existing, err := t.get(id)
	if err != nil {
		return nil, err
	}
	if err := t.guard.Authorize(existing.WeddingID); err != nil {
		return nil, err
	}

	completedAt := existing.CompletedAt
	switch {
	case status == models.StatusDone && existing.Status != models.StatusDone:
		now := t.now()
		completedAt = &now
	case status != models.StatusDone:
		completedAt = nil
	}

	if err := t.tasks.SetStatus(id, status, completedAt); err != nil {
		return nil, err
	}
	return t.tasks.GetByID(id)
}

func (t *Tracker) Delete(id int64) error {
	existing, err := t.get(id)
	if err != nil {
		return err
	}
	if err := t.guard.Authorize(existing.WeddingID); err != nil {
		return err
	}
	return t.tasks.Delete(id)
}

// Filter narrows a task listing. Zero values match everything; Query
// is a case-insensitive substring over title and description.
type Filter struct {
	Status   models.TaskStatus
	Priority models.TaskPriority
	Query    string
}

func (f Filter) matches(task *models.Task) bool {
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(task.Title), q) &&
			!strings.Contains(strings.ToLower(task.Description), q) {
			return false
		}
	}
	return true
}

func (t *Tracker) List(weddingID int64, f Filter) ([]models.Task, error) {
	all, err := t.tasks.GetByWeddingID(weddingID)
	if err != nil {
		return nil, err
	}

	if f == (Filter{}) {
		return all, nil
	}

	var filtered []models.Task
	for i := range all {
		if f.matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}
	return filtered, nil
}

// CompletionRatio is done-over-total, zero when no tasks exist.
func (t *Tracker) CompletionRatio(weddingID int64) (float64, error) {
	total, done, err := t.tasks.CountByWedding(weddingID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(done) / float64(total), nil
}

// IsOverdue reports whether the task's due date has passed while the
// task is still open. Done tasks are never overdue.
func IsOverdue(task *models.Task, now time.Time) bool {
	return task.DueDate != nil &&
		task.Status != models.StatusDone &&
		task.DueDate.Before(now)
}

func (t *Tracker) get(id int64) (*models.Task, error) {
	existing, err := t.tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &models.NotFoundError{Entity: "task", ID: id}
	}
	return existing, nil
}

func (t *Tracker) checkCategory(weddingID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	c, err := t.categories.GetByID(*categoryID)
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
