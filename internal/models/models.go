package models

import (
	"time"

	"github.com/google/uuid"
)

type Wedding struct {
	ID          int64
	Title       string
	Date        time.Time
	GuestCount  *int64   // nullable, estimate only
	TotalBudget *float64 // nullable = no ceiling set yet
	Status      WeddingStatus
	OwnerID     string
	CreatedAt   time.Time
}

type BudgetCategory struct {
	ID        int64
	WeddingID int64
	Name      string
	Icon      string // presentation tag, opaque here
	Color     string // presentation tag, opaque here
	Allocated *float64
	CreatedAt time.Time
}

type Expense struct {
	ID            int64
	WeddingID     int64
	CategoryID    *int64 // nullable = uncategorized
	Name          string
	Estimated     *float64
	Actual        *float64
	PaymentStatus PaymentStatus
	Notes         string
	CreatedAt     time.Time

	// Joined fields
	CategoryName string
}

type Task struct {
	ID            int64
	WeddingID     int64
	Title         string
	Description   string
	Kind          TaskKind
	Priority      TaskPriority
	Status        TaskStatus
	DueDate       *time.Time
	EstimatedCost *float64
	ProviderRef   *uuid.UUID // opaque ref into the provider registry
	VenueRef      *uuid.UUID // opaque ref into the venue registry
	CategoryID    *int64
	Notes         string
	CompletedAt   *time.Time // set iff Status == done
	CreatedAt     time.Time

	// Joined fields
	CategoryName string
}

type Milestone struct {
	ID           int64
	WeddingID    int64
	Title        string
	Description  string
	ScheduledAt  *TimeOfDay // time on the wedding day; nil = unscheduled
	DurationMin  int
	Location     string
	ContactName  string
	ContactPhone string
	Notes        string
	CreatedAt    time.Time
}

// DefaultDurationMin is the milestone duration used when none is given.
const DefaultDurationMin = 30
