// Package timeline keeps the ordered, time-boxed milestones of the
// wedding day and their duration arithmetic.
package timeline

import (
	"database/sql"
	"strings"

	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

type Scheduler struct {
	milestones *repository.MilestoneRepo
	guard      *identity.Guard
}

func NewScheduler(db *sql.DB, guard *identity.Guard) *Scheduler {
	return &Scheduler{
		milestones: repository.NewMilestoneRepo(db),
		guard:      guard,
	}
}

// MilestoneInput carries caller-supplied milestone fields. A nil
// DurationMin falls back to the 30-minute default; an explicit value
// below one minute is rejected rather than silently coerced.
type MilestoneInput struct {
	Title        string
	Description  string
	ScheduledAt  *models.TimeOfDay
	DurationMin  *int
	Location     string
	ContactName  string
	ContactPhone string
	Notes        string
}

func (in *MilestoneInput) validate(requireTime bool) (int, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, &models.ValidationError{Field: "title", Reason: "required"}
	}
	if requireTime && in.ScheduledAt == nil {
		return 0, &models.ValidationError{Field: "scheduled_at", Reason: "required"}
	}
	duration := models.DefaultDurationMin
	if in.DurationMin != nil {
		if *in.DurationMin < 1 {
			return 0, &models.ValidationError{Field: "duration_min", Reason: "must be at least 1"}
		}
		duration = *in.DurationMin
	}
	return duration, nil
}

func (s *Scheduler) AddMilestone(weddingID int64, in MilestoneInput) (*models.Milestone, error) {
	if err := s.guard.Authorize(weddingID); err != nil {
		return nil, err
	}
	duration, err := in.validate(true)
	if err != nil {
		return nil, err
	}

	return s.milestones.Create(&models.Milestone{
		WeddingID:    weddingID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		ScheduledAt:  in.ScheduledAt,
		DurationMin:  duration,
		Location:     in.Location,
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		Notes:        in.Notes,
	})
}

// UpdateMilestone rewrites the milestone. A nil ScheduledAt leaves it
// unscheduled, which sorts after every scheduled milestone.
func (s *Scheduler) UpdateMilestone(id int64, in MilestoneInput) (*models.Milestone, error) {
	existing, err := s.milestones.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &models.NotFoundError{Entity: "milestone", ID: id}
	}
	if err := s.guard.Authorize(existing.WeddingID); err != nil {
		return nil, err
	}
	duration, err := in.validate(false)
	if err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Description = in.Description
	existing.ScheduledAt = in.ScheduledAt
	existing.DurationMin = duration
	existing.Location = in.Location
	existing.ContactName = in.ContactName
	existing.ContactPhone = in.ContactPhone
	existing.Notes = in.Notes

	if err := s.milestones.Update(existing); err != nil {
		return nil, err
	}
	return s.milestones.GetByID(id)
}

func (s *Scheduler) DeleteMilestone(id int64) error {
	existing, err := s.milestones.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &models.NotFoundError{Entity: "milestone", ID: id}
	}
	if err := s.guard.Authorize(existing.WeddingID); err != nil {
		return err
	}
	return s.milestones.Delete(id)
}

// EndTime is start plus duration, wrapped modulo 24 hours, as
// zero-padded HH:MM. Overlapping milestones are not detected here.
func EndTime(at models.TimeOfDay, durationMin int) string {
	return at.Add(durationMin).String()
}

// OrderedMilestones returns the day in chronological order, scheduled
// first ascending, unscheduled last, ties by insertion order.
func (s *Scheduler) OrderedMilestones(weddingID int64) ([]models.Milestone, error) {
	return s.milestones.GetByWeddingID(weddingID)
}

// TotalOccupiedMinutes sums every milestone's duration.
func (s *Scheduler) TotalOccupiedMinutes(weddingID int64) (int, error) {
	return s.milestones.SumDuration(weddingID)
}

// MilestoneCount reports how many milestones the day holds.
func (s *Scheduler) MilestoneCount(weddingID int64) (int, error) {
	return s.milestones.CountByWedding(weddingID)
}
