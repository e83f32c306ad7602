package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
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
	return conn
}

func TestWeddingCRUD(t *testing.T) {
	conn := newTestDB(t)
	repo := NewWeddingRepo(conn)

	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	guests := int64(120)
	budget := 500000.0

	w, err := repo.Create("Ana & Robin", date, &guests, &budget, "ana")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == 0 {
		t.Fatal("Create returned zero ID")
	}
	if w.Status != models.WeddingPlanning {
		t.Errorf("Status = %q, want planning", w.Status)
	}
	if w.GuestCount == nil || *w.GuestCount != 120 {
		t.Errorf("GuestCount = %v, want 120", w.GuestCount)
	}

	missing, err := repo.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID(missing): %v", err)
	}
	if missing != nil {
		t.Error("GetByID(missing) returned a wedding")
	}

	if err := repo.SetStatus(w.ID, models.WeddingCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	w, err = repo.GetByID(w.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if w.Status != models.WeddingCompleted {
		t.Errorf("Status = %q, want completed", w.Status)
	}

	var nfErr *models.NotFoundError
	if err := repo.Delete(9999); !errors.As(err, &nfErr) {
		t.Errorf("Delete(missing) = %v, want NotFoundError", err)
	}
}

func TestDeleteWeddingCascades(t *testing.T) {
	conn := newTestDB(t)
	weddings := NewWeddingRepo(conn)

	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	w, err := weddings.Create("Ana & Robin", date, nil, nil, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	cat, err := NewCategoryRepo(conn).Create(w.ID, "Catering", "", "", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := NewExpenseRepo(conn).Create(&models.Expense{
		WeddingID:     w.ID,
		CategoryID:    &cat.ID,
		Name:          "Tasting menu",
		PaymentStatus: models.PaymentUnpaid,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := NewTaskRepo(conn).Create(&models.Task{
		WeddingID: w.ID,
		Title:     "Book venue",
		Kind:      models.TaskGeneral,
		Priority:  models.PriorityMedium,
		Status:    models.StatusTodo,
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	scheduled, _ := models.ParseTimeOfDay("14:00")
	if _, err := NewMilestoneRepo(conn).Create(&models.Milestone{
		WeddingID:   w.ID,
		Title:       "Ceremony",
		ScheduledAt: &scheduled,
		DurationMin: 30,
	}); err != nil {
		t.Fatalf("create milestone: %v", err)
	}

	if err := weddings.Delete(w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, table := range []string{"budget_categories", "expenses", "tasks", "milestones"} {
		var count int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s still holds %d rows after wedding delete", table, count)
		}
	}
}
