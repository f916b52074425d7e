package models

import (
	"time"

	"github.com/deependr20/hrms-sub001/constants"
)

// Task is the unit of trackable work. Assignments, time entries, comments
// and the two history lists are owned child rows loaded with the task.
//
// Mutations to the assignment list and to progress/status go through the
// workflow package, which pairs every change with the matching history
// append. Controllers never touch the slices directly.
type Task struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	Number      string                  `gorm:"uniqueIndex" json:"number"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Type        string                  `json:"type"`
	Priority    constants.TaskPriority  `gorm:"default:'medium'" json:"priority"`
	Status      constants.TaskStatus    `gorm:"default:'draft'" json:"status"`
	Progress    int                     `gorm:"default:0" json:"progress"`

	AssignedByID   uint                     `json:"assigned_by_id"`
	AssignmentType constants.AssignmentType `gorm:"default:'manager_assigned'" json:"assignment_type"`
	CanReassign    bool                     `gorm:"default:false" json:"can_reassign"`

	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    float64    `gorm:"default:0" json:"actual_hours"`

	ParentTaskID *uint  `gorm:"index" json:"parent_task_id"`
	ProjectID    *uint  `gorm:"index" json:"project_id"`
	Subtasks     []Task `gorm:"foreignKey:ParentTaskID" json:"subtasks,omitempty"`

	CompletedAt     *time.Time `json:"completed_at"`
	CompletedByID   *uint      `json:"completed_by_id"`
	CompletionNotes string     `json:"completion_notes"`
	Deliverables    string     `json:"deliverables"`

	Metrics TaskMetrics `gorm:"embedded;embeddedPrefix:metrics_" json:"metrics"`

	AssignedTo        []TaskAssignment  `gorm:"foreignKey:TaskID" json:"assigned_to,omitempty"`
	TimeEntries       []TimeEntry       `gorm:"foreignKey:TaskID" json:"time_entries,omitempty"`
	Comments          []TaskComment     `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	AssignmentHistory []AssignmentEvent `gorm:"foreignKey:TaskID" json:"assignment_history,omitempty"`
	StatusHistory     []StatusChange    `gorm:"foreignKey:TaskID" json:"status_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskMetrics struct {
	TimeSpentMinutes int      `json:"time_spent_minutes"`
	Efficiency       *float64 `json:"efficiency"`
}

// TaskAssignment is one employee's relationship to a task, with its own
// acceptance sub-state independent of the other entries.
type TaskAssignment struct {
	ID              uint                       `gorm:"primaryKey" json:"id"`
	TaskID          uint                       `gorm:"index" json:"task_id"`
	EmployeeID      uint                       `json:"employee_id"`
	Role            constants.AssignmentRole   `gorm:"default:'collaborator'" json:"role"`
	Status          constants.AssignmentStatus `gorm:"default:'pending'" json:"status"`
	AssignedAt      time.Time                  `json:"assigned_at"`
	AcceptedAt      *time.Time                 `json:"accepted_at"`
	RejectionReason string                     `json:"rejection_reason"`
	DelegatedToID   *uint                      `json:"delegated_to_id"`
}

// TimeEntry rows are append-only; ActualHours and Metrics.TimeSpentMinutes
// are always recomputed as folds over them, never stored independently.
type TimeEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TaskID          uint      `gorm:"index" json:"task_id"`
	EmployeeID      uint      `json:"employee_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description"`
	Billable        bool      `gorm:"default:false" json:"billable"`
	Approved        bool      `gorm:"default:false" json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
}

type TaskComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index" json:"task_id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	Type      string    `gorm:"default:'comment'" json:"type"`
	Mentions  string    `json:"mentions"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentEvent is the audit record for every change to the assignment
// list. Omitting it on a mutation is a defect.
type AssignmentEvent struct {
	ID             uint                    `gorm:"primaryKey" json:"id"`
	TaskID         uint                    `gorm:"index" json:"task_id"`
	Action         constants.HistoryAction `json:"action"`
	FromEmployeeID *uint                   `json:"from_employee_id"`
	ToEmployeeID   *uint                   `json:"to_employee_id"`
	PerformedByID  uint                    `json:"performed_by_id"`
	Reason         string                  `json:"reason"`
	CreatedAt      time.Time               `json:"created_at"`
}

type StatusChange struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	TaskID      uint                 `gorm:"index" json:"task_id"`
	FromStatus  constants.TaskStatus `json:"from_status"`
	ToStatus    constants.TaskStatus `json:"to_status"`
	Progress    int                  `json:"progress"`
	ChangedByID uint                 `json:"changed_by_id"`
	Notes       string               `json:"notes"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FindAssignment returns the entry for the employee, or nil.
func (t *Task) FindAssignment(employeeID uint) *TaskAssignment {
	for i := range t.AssignedTo {
		if t.AssignedTo[i].EmployeeID == employeeID {
			return &t.AssignedTo[i]
		}
	}
	return nil
}

// ActiveAssignments returns the entries that currently bind the task:
// pending or accepted. Rejected and delegated entries are historical.
func (t *Task) ActiveAssignments() []TaskAssignment {
	var active []TaskAssignment
	for _, a := range t.AssignedTo {
		if a.Status == constants.AssignmentPending || a.Status == constants.AssignmentAccepted {
			active = append(active, a)
		}
	}
	return active
}

// HasAcceptedAssignment reports whether the employee holds an accepted entry.
func (t *Task) HasAcceptedAssignment(employeeID uint) bool {
	a := t.FindAssignment(employeeID)
	return a != nil && a.Status == constants.AssignmentAccepted
}

// RecordAssignmentEvent appends to the audit history. Every assignment-list
// mutation in the workflow package calls this.
func (t *Task) RecordAssignmentEvent(action constants.HistoryAction, from, to *uint, performedBy uint, reason string) {
	t.AssignmentHistory = append(t.AssignmentHistory, AssignmentEvent{
		TaskID:         t.ID,
		Action:         action,
		FromEmployeeID: from,
		ToEmployeeID:   to,
		PerformedByID:  performedBy,
		Reason:         reason,
		CreatedAt:      time.Now(),
	})
}

// RecordStatusChange appends to the status history and applies the new status.
func (t *Task) RecordStatusChange(to constants.TaskStatus, changedBy uint, notes string) {
	t.StatusHistory = append(t.StatusHistory, StatusChange{
		TaskID:      t.ID,
		FromStatus:  t.Status,
		ToStatus:    to,
		Progress:    t.Progress,
		ChangedByID: changedBy,
		Notes:       notes,
		CreatedAt:   time.Now(),
	})
	t.Status = to
}

// RecomputeTimeMetrics folds over the time entries to derive ActualHours,
// Metrics.TimeSpentMinutes and, when an estimate exists, efficiency.
func (t *Task) RecomputeTimeMetrics() {
	total := 0
	for _, e := range t.TimeEntries {
		total += e.DurationMinutes
	}
	t.Metrics.TimeSpentMinutes = total
	t.ActualHours = float64(total) / 60
	if t.EstimatedHours != nil && t.ActualHours > 0 {
		eff := *t.EstimatedHours / t.ActualHours * 100
		t.Metrics.Efficiency = &eff
	}
}

// IsOverdue reports whether the task is past due and not terminal.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsTerminal()
}
