package workflow

import (
	"fmt"
	"math"
	"time"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

// UpdateProgress clamps and applies a progress value and derives the
// matching status. Reaching 100 moves the task to review; completion is a
// separate explicit action.
func UpdateProgress(task *models.Task, newProgress int, actorID uint, notes string) {
	if newProgress < 0 {
		newProgress = 0
	}
	if newProgress > 100 {
		newProgress = 100
	}

	old := task.Progress
	task.Progress = newProgress

	to := task.Status
	switch {
	case newProgress == 0 && task.Status == constants.TaskStatusInProgress:
		to = constants.TaskStatusAssigned
	case newProgress > 0 && newProgress < 100 && task.Status == constants.TaskStatusAssigned:
		to = constants.TaskStatusInProgress
	case newProgress == 100 && task.Status != constants.TaskStatusCompleted:
		to = constants.TaskStatusReview
	}

	delta := fmt.Sprintf("progress %d%% -> %d%%", old, newProgress)
	if notes != "" {
		delta = delta + ": " + notes
	}
	setStatus(task, to, actorID, delta)
}

// SetStatus applies an explicit status change. Completed and cancelled
// are terminal; use Complete for the completed transition so the
// completion fields are stamped.
func SetStatus(task *models.Task, to constants.TaskStatus, actorID uint, notes string) error {
	if !to.Valid() {
		return httperr.Validation("invalid task status")
	}
	if task.Status.IsTerminal() {
		return httperr.Validation("task is already closed")
	}
	if to == constants.TaskStatusCompleted {
		return Complete(task, actorID, notes, "")
	}
	setStatus(task, to, actorID, notes)
	return nil
}

// Complete is the explicit completion action: stamps the completion
// fields, forces progress to 100 and recomputes efficiency.
func Complete(task *models.Task, actorID uint, completionNotes, deliverables string) error {
	if task.Status.IsTerminal() {
		return httperr.Validation("task is already closed")
	}
	now := time.Now()
	task.CompletedAt = &now
	task.CompletedByID = &actorID
	task.CompletionNotes = completionNotes
	if deliverables != "" {
		task.Deliverables = deliverables
	}
	task.Progress = 100
	setStatus(task, constants.TaskStatusCompleted, actorID, completionNotes)
	task.RecomputeTimeMetrics()
	return nil
}

// AddTimeEntry appends a time entry spanning start to end and recomputes
// the derived time metrics. A non-positive duration leaves the task
// unmodified.
func AddTimeEntry(task *models.Task, employeeID uint, start, end time.Time, description string, billable bool) error {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes <= 0 {
		return httperr.Validation("time entry duration must be positive")
	}
	appendTimeEntry(task, employeeID, start, end, minutes, description, billable)
	return nil
}

// AddTimeSpent appends a time entry given only a duration in minutes,
// anchored to now.
func AddTimeSpent(task *models.Task, employeeID uint, minutes int, description string, billable bool) error {
	if minutes <= 0 {
		return httperr.Validation("time entry duration must be positive")
	}
	end := time.Now()
	start := end.Add(-time.Duration(minutes) * time.Minute)
	appendTimeEntry(task, employeeID, start, end, minutes, description, billable)
	return nil
}

func appendTimeEntry(task *models.Task, employeeID uint, start, end time.Time, minutes int, description string, billable bool) {
	task.TimeEntries = append(task.TimeEntries, models.TimeEntry{
		TaskID:          task.ID,
		EmployeeID:      employeeID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		Description:     description,
		Billable:        billable,
		CreatedAt:       time.Now(),
	})
	task.RecomputeTimeMetrics()
}

// AddComment appends to the task's comment thread.
func AddComment(task *models.Task, authorID uint, content, commentType, mentions string) error {
	if content == "" {
		return httperr.Validation("comment content is required")
	}
	if commentType == "" {
		commentType = "comment"
	}
	task.Comments = append(task.Comments, models.TaskComment{
		TaskID:    task.ID,
		AuthorID:  authorID,
		Content:   content,
		Type:      commentType,
		Mentions:  mentions,
		CreatedAt: time.Now(),
	})
	return nil
}
