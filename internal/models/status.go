package models

type WeddingStatus string

const (
	WeddingPlanning  WeddingStatus = "planning"
	WeddingCompleted WeddingStatus = "completed"
	WeddingCancelled WeddingStatus = "cancelled"
)

func (s WeddingStatus) Valid() bool {
	switch s {
	case WeddingPlanning, WeddingCompleted, WeddingCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentBalancePaid PaymentStatus = "balance_paid"
	PaymentFullyPaid   PaymentStatus = "fully_paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentDepositPaid, PaymentBalancePaid, PaymentFullyPaid:
		return true
	}
	return false
}

type TaskKind string

const (
	TaskGeneral        TaskKind = "general"
	TaskProviderLinked TaskKind = "provider_linked"
	TaskVenueLinked    TaskKind = "venue_linked"
)

func (k TaskKind) Valid() bool {
	switch k {
	case TaskGeneral, TaskProviderLinked, TaskVenueLinked:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}
