package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

func newTestScheduler(t *testing.T) (*Scheduler, int64) {
	t.Helper()

	conn, err := db.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	weddings := repository.NewWeddingRepo(conn)
	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	w, err := weddings.Create("Ana & Robin", date, nil, nil, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	guard := identity.NewGuard(weddings, identity.Static("ana"))
	return NewScheduler(conn, guard), w.ID
}

func at(t *testing.T, s string) *models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return &v
}

func mins(v int) *int { return &v }

func TestEndTime(t *testing.T) {
	cases := []struct {
		start    string
		duration int
		want     string
	}{
		{"14:00", 90, "15:30"},
		{"23:50", 20, "00:10"},
		{"09:00", 30, "09:30"},
	}

	for _, c := range cases {
		if got := EndTime(*at(t, c.start), c.duration); got != c.want {
			t.Errorf("EndTime(%s, %d) = %q, want %q", c.start, c.duration, got, c.want)
		}
	}
}

func TestAddMilestoneRequiresTime(t *testing.T) {
	s, weddingID := newTestScheduler(t)

	var verr *models.ValidationError
	_, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Ceremony"})
	if !errors.As(err, &verr) || verr.Field != "scheduled_at" {
		t.Errorf("missing time: got %v, want ValidationError on scheduled_at", err)
	}
}

func TestDurationValidation(t *testing.T) {
	s, weddingID := newTestScheduler(t)

	// Omitted duration falls back to the default.
	m, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Ceremony", ScheduledAt: at(t, "14:00")})
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	if m.DurationMin != models.DefaultDurationMin {
		t.Errorf("DurationMin = %d, want default %d", m.DurationMin, models.DefaultDurationMin)
	}

	// An explicit sub-minute duration is rejected, not coerced.
	var verr *models.ValidationError
	_, err = s.AddMilestone(weddingID, MilestoneInput{
		Title:       "Toast",
		ScheduledAt: at(t, "18:00"),
		DurationMin: mins(0),
	})
	if !errors.As(err, &verr) || verr.Field != "duration_min" {
		t.Errorf("zero duration: got %v, want ValidationError on duration_min", err)
	}
}

func TestOrderedMilestonesUnscheduledLast(t *testing.T) {
	s, weddingID := newTestScheduler(t)

	if _, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Reception", ScheduledAt: at(t, "18:00")}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	first, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Hair and makeup", ScheduledAt: at(t, "09:00")})
	if err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	if _, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Ceremony", ScheduledAt: at(t, "14:00")}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}

	// Unschedule one via update; it should sort after everything.
	if _, err := s.UpdateMilestone(first.ID, MilestoneInput{Title: "Hair and makeup"}); err != nil {
		t.Fatalf("UpdateMilestone: %v", err)
	}

	got, err := s.OrderedMilestones(weddingID)
	if err != nil {
		t.Fatalf("OrderedMilestones: %v", err)
	}

	var titles []string
	for _, m := range got {
		titles = append(titles, m.Title)
	}
	want := []string{"Ceremony", "Reception", "Hair and makeup"}
	if len(titles) != len(want) {
		t.Fatalf("got %d milestones, want %d", len(titles), len(want))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
	if got[2].ScheduledAt != nil {
		t.Error("unscheduled milestone still carries a time")
	}
}

func TestTotalOccupiedMinutes(t *testing.T) {
	s, weddingID := newTestScheduler(t)

	occupied, err := s.TotalOccupiedMinutes(weddingID)
	if err != nil {
		t.Fatalf("TotalOccupiedMinutes: %v", err)
	}
	if occupied != 0 {
		t.Errorf("TotalOccupiedMinutes on empty day = %d, want 0", occupied)
	}

	if _, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Ceremony", ScheduledAt: at(t, "14:00"), DurationMin: mins(45)}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	if _, err := s.AddMilestone(weddingID, MilestoneInput{Title: "Dinner", ScheduledAt: at(t, "19:00"), DurationMin: mins(120)}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}

	occupied, err = s.TotalOccupiedMinutes(weddingID)
	if err != nil {
		t.Fatalf("TotalOccupiedMinutes: %v", err)
	}
	if occupied != 165 {
		t.Errorf("TotalOccupiedMinutes = %d, want 165", occupied)
	}

	count, err := s.MilestoneCount(weddingID)
	if err != nil {
		t.Fatalf("MilestoneCount: %v", err)
	}
	if count != 2 {
		t.Errorf("MilestoneCount = %d, want 2", count)
	}
}

func TestDeleteMilestoneNotFound(t *testing.T) {
	s, _ := newTestScheduler(t)

	var nfErr *models.NotFoundError
	if err := s.DeleteMilestone(9999); !errors.As(err, &nfErr) {
		t.Errorf("DeleteMilestone(9999) = %v, want NotFoundError", err)
	}
}
