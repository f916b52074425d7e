package constants

type TaskStatus string

const (
	TaskStatusDraft      TaskStatus = "draft"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// IsTerminal reports whether no transition out of the status is defined.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusDraft, TaskStatusAssigned, TaskStatusInProgress, TaskStatusOnHold,
		TaskStatusReview, TaskStatusCompleted, TaskStatusCancelled, TaskStatusOverdue:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityUrgent   TaskPriority = "urgent"
	PriorityCritical TaskPriority = "critical"
)

// Rank orders priorities low < medium < high < urgent < critical.
// Unknown priorities rank below low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	case PriorityCritical:
		return 5
	}
	return 0
}

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}
