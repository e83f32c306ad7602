package summary

import (
	"testing"
	"time"

	"github.com/anamartens/bigday/internal/budget"
	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
	"github.com/anamartens/bigday/internal/tasks"
	"github.com/anamartens/bigday/internal/timeline"
)

type fixture struct {
	engine    *Engine
	ledger    *budget.Ledger
	tracker   *tasks.Tracker
	scheduler *timeline.Scheduler
	weddingID int64
}

func newFixture(t *testing.T, totalBudget *float64, date time.Time) *fixture {
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
	w, err := weddings.Create("Ana & Robin", date, nil, totalBudget, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	guard := identity.NewGuard(weddings, identity.Static("ana"))
	return &fixture{
		engine:    NewEngine(conn, guard),
		ledger:    budget.NewLedger(conn, guard),
		tracker:   tasks.NewTracker(conn, guard),
		scheduler: timeline.NewScheduler(conn, guard),
		weddingID: w.ID,
	}
}

func f(v float64) *float64 { return &v }

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want int
	}{
		{"ten days out", now.AddDate(0, 0, 10), 10},
		{"same instant", now, 0},
		{"partial day rounds up", now.Add(12 * time.Hour), 1},
		{"passed yesterday", now.Add(-24 * time.Hour), -1},
		{"long passed", now.AddDate(0, 0, -10), -10},
	}

	for _, c := range cases {
		if got := DaysUntil(c.date, now); got != c.want {
			t.Errorf("%s: DaysUntil = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestProgressPercentage(t *testing.T) {
	fx := newFixture(t, nil, time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC))

	p, err := fx.engine.ProgressPercentage(fx.weddingID)
	if err != nil {
		t.Fatalf("ProgressPercentage: %v", err)
	}
	if p != 0 {
		t.Errorf("ProgressPercentage with no tasks = %d, want 0", p)
	}

	var ids []int64
	for _, title := range []string{"Venue", "Catering", "Flowers"} {
		task, err := fx.tracker.Create(fx.weddingID, tasks.TaskInput{Title: title})
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
		ids = append(ids, task.ID)
	}
	if _, err := fx.tracker.SetStatus(ids[0], models.StatusDone); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	p, err = fx.engine.ProgressPercentage(fx.weddingID)
	if err != nil {
		t.Fatalf("ProgressPercentage: %v", err)
	}
	if p != 33 {
		t.Errorf("ProgressPercentage = %d, want 33", p)
	}
}

func TestSnapshot(t *testing.T) {
	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	fx := newFixture(t, f(500000), date)

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fx.engine.now = func() time.Time { return now }

	var ids []int64
	for _, title := range []string{"Venue", "Catering", "Flowers", "Invitations"} {
		task, err := fx.tracker.Create(fx.weddingID, tasks.TaskInput{Title: title})
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
		ids = append(ids, task.ID)
	}
	if _, err := fx.tracker.SetStatus(ids[0], models.StatusDone); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	for _, in := range []budget.ExpenseInput{
		{Name: "Venue deposit", Actual: f(120000)},
		{Name: "Catering", Actual: f(80000)},
	} {
		if _, err := fx.ledger.AddExpense(fx.weddingID, in); err != nil {
			t.Fatalf("AddExpense(%s): %v", in.Name, err)
		}
	}

	ceremony, _ := models.ParseTimeOfDay("14:00")
	dinner, _ := models.ParseTimeOfDay("19:00")
	ninety := 90
	if _, err := fx.scheduler.AddMilestone(fx.weddingID, timeline.MilestoneInput{
		Title: "Ceremony", ScheduledAt: &ceremony, DurationMin: &ninety,
	}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}
	if _, err := fx.scheduler.AddMilestone(fx.weddingID, timeline.MilestoneInput{
		Title: "Dinner", ScheduledAt: &dinner,
	}); err != nil {
		t.Fatalf("AddMilestone: %v", err)
	}

	snap, err := fx.engine.Snapshot(fx.weddingID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap.DaysUntil != DaysUntil(date, now) {
		t.Errorf("DaysUntil = %d, want %d", snap.DaysUntil, DaysUntil(date, now))
	}
	if snap.TasksTotal != 4 || snap.TasksDone != 1 {
		t.Errorf("tasks = %d/%d, want 1/4 done", snap.TasksDone, snap.TasksTotal)
	}
	if snap.ProgressPercent != 25 {
		t.Errorf("ProgressPercent = %d, want 25", snap.ProgressPercent)
	}
	if snap.Budget.TotalSpent != 200000 {
		t.Errorf("TotalSpent = %v, want 200000", snap.Budget.TotalSpent)
	}
	if snap.Budget.Remaining != 300000 {
		t.Errorf("Remaining = %v, want 300000", snap.Budget.Remaining)
	}
	if snap.Budget.UsedPercentage != 40.0 {
		t.Errorf("UsedPercentage = %v, want 40.0", snap.Budget.UsedPercentage)
	}
	if snap.OccupiedMinutes != 90+models.DefaultDurationMin {
		t.Errorf("OccupiedMinutes = %d, want %d", snap.OccupiedMinutes, 90+models.DefaultDurationMin)
	}
	if snap.MilestoneCount != 2 {
		t.Errorf("MilestoneCount = %d, want 2", snap.MilestoneCount)
	}
}

func TestOverdueTasks(t *testing.T) {
	fx := newFixture(t, nil, time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC))

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fx.engine.now = func() time.Time { return now }

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	late, err := fx.tracker.Create(fx.weddingID, tasks.TaskInput{Title: "Order invitations", DueDate: &past})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fx.tracker.Create(fx.weddingID, tasks.TaskInput{Title: "Final fitting", DueDate: &future}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	finished, err := fx.tracker.Create(fx.weddingID, tasks.TaskInput{Title: "Book venue", DueDate: &past})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fx.tracker.SetStatus(finished.ID, models.StatusDone); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	overdue, err := fx.engine.OverdueTasks(fx.weddingID)
	if err != nil {
		t.Fatalf("OverdueTasks: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != late.ID {
		t.Errorf("OverdueTasks returned %d tasks, want exactly the open past-due one", len(overdue))
	}
}
