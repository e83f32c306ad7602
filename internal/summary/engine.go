// Package summary composes the ledger, tracker, and scheduler into the
// read-only figures a presentation layer renders per page. Nothing here
// mutates state, and every figure comes from a single consistent read.
package summary

import (
	"database/sql"
	"math"
	"time"

	"github.com/anamartens/bigday/internal/budget"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
	"github.com/anamartens/bigday/internal/tasks"
	"github.com/anamartens/bigday/internal/timeline"
)

type Engine struct {
	weddings  *repository.WeddingRepo
	taskRepo  *repository.TaskRepo
	ledger    *budget.Ledger
	scheduler *timeline.Scheduler

	now func() time.Time // swapped in tests
}

func NewEngine(db *sql.DB, guard *identity.Guard) *Engine {
	return &Engine{
		weddings:  repository.NewWeddingRepo(db),
		taskRepo:  repository.NewTaskRepo(db),
		ledger:    budget.NewLedger(db, guard),
		scheduler: timeline.NewScheduler(db, guard),
		now:       time.Now,
	}
}

// DaysUntil is the ceiling of the remaining time in days. Negative
// when the date has passed, zero on the day itself; no clamping.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// ProgressPercentage is the task completion ratio as a rounded whole
// percentage.
func (e *Engine) ProgressPercentage(weddingID int64) (int, error) {
	total, done, err := e.taskRepo.CountByWedding(weddingID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return int(math.Round(float64(done) / float64(total) * 100)), nil
}

// BudgetSummary holds the derived budget figures. TotalBudget is zero
// when no ceiling is set; Remaining may go negative on overspend.
type BudgetSummary struct {
	TotalBudget    float64
	TotalSpent     float64
	Remaining      float64
	UsedPercentage float64
}

func (e *Engine) BudgetSummary(weddingID int64) (*BudgetSummary, error) {
	w, err := e.weddings.GetByID(weddingID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &models.NotFoundError{Entity: "wedding", ID: weddingID}
	}

	spent, err := e.ledger.TotalSpent(weddingID)
	if err != nil {
		return nil, err
	}
	used, err := e.ledger.BudgetUsedPercentage(weddingID)
	if err != nil {
		return nil, err
	}

	var total float64
	if w.TotalBudget != nil {
		total = *w.TotalBudget
	}

	return &BudgetSummary{
		TotalBudget:    total,
		TotalSpent:     spent,
		Remaining:      total - spent,
		UsedPercentage: used,
	}, nil
}

// Snapshot is the one read a page render needs.
type Snapshot struct {
	Wedding         *models.Wedding
	DaysUntil       int
	ProgressPercent int
	TasksTotal      int
	TasksDone       int
	Budget          BudgetSummary
	OccupiedMinutes int
	MilestoneCount  int
}

func (e *Engine) Snapshot(weddingID int64) (*Snapshot, error) {
	w, err := e.weddings.GetByID(weddingID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &models.NotFoundError{Entity: "wedding", ID: weddingID}
	}

	total, done, err := e.taskRepo.CountByWedding(weddingID)
	if err != nil {
		return nil, err
	}

	bs, err := e.BudgetSummary(weddingID)
	if err != nil {
		return nil, err
	}

	occupied, err := e.scheduler.TotalOccupiedMinutes(weddingID)
	if err != nil {
		return nil, err
	}
	milestones, err := e.scheduler.MilestoneCount(weddingID)
	if err != nil {
		return nil, err
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(done) / float64(total) * 100))
	}

	return &Snapshot{
		Wedding:         w,
		DaysUntil:       DaysUntil(w.Date, e.now()),
		ProgressPercent: progress,
		TasksTotal:      total,
		TasksDone:       done,
		Budget:          *bs,
		OccupiedMinutes: occupied,
		MilestoneCount:  milestones,
	}, nil
}

// OverdueTasks is a read-side convenience for dashboards: open tasks
// whose due date has passed.
func (e *Engine) OverdueTasks(weddingID int64) ([]models.Task, error) {
	all, err := e.taskRepo.GetByWeddingID(weddingID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	var overdue []models.Task
	for i := range all {
		if tasks.IsOverdue(&all[i], now) {
			overdue = append(overdue, all[i])
		}
	}
	return overdue, nil
}
