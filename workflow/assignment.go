// Package workflow applies task state transitions. It is the only code
// that mutates a task's assignment list, progress or status, so the
// pairing of every assignment change with its audit history entry lives
// here.
package workflow

import (
	"time"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/metrics"
	"github.com/deependr20/hrms-sub001/models"
)

// AssigneeSpec names one employee and their role on the task.
type AssigneeSpec struct {
	EmployeeID uint
	Role       constants.AssignmentRole
}

func (s AssigneeSpec) role() constants.AssignmentRole {
	if s.Role == "" {
		return constants.AssignmentRoleCollaborator
	}
	return s.Role
}

// Assign appends a pending entry for the employee. Assigning an employee
// who already holds an entry fails explicitly rather than duplicating it.
// A draft task advances to assigned.
func Assign(task *models.Task, performedBy uint, spec AssigneeSpec, reason string) error {
	if task.FindAssignment(spec.EmployeeID) != nil {
		return httperr.Validation("employee is already assigned to this task")
	}

	task.AssignedTo = append(task.AssignedTo, models.TaskAssignment{
		TaskID:     task.ID,
		EmployeeID: spec.EmployeeID,
		Role:       spec.role(),
		Status:     constants.AssignmentPending,
		AssignedAt: time.Now(),
	})
	to := spec.EmployeeID
	task.RecordAssignmentEvent(constants.ActionAssigned, nil, &to, performedBy, reason)

	if task.Status == constants.TaskStatusDraft {
		setStatus(task, constants.TaskStatusAssigned, performedBy, "task assigned")
	}
	return nil
}

// Reassign replaces the whole assignment list. The history records one
// entry per new assignee, with the first previous assignee as "from" even
// when several were replaced.
func Reassign(task *models.Task, performedBy uint, specs []AssigneeSpec, reason string) error {
	if len(specs) == 0 {
		return httperr.Validation("at least one assignee is required")
	}

	var from *uint
	if len(task.AssignedTo) > 0 {
		first := task.AssignedTo[0].EmployeeID
		from = &first
	}

	task.AssignedTo = nil
	now := time.Now()
	for _, spec := range specs {
		task.AssignedTo = append(task.AssignedTo, models.TaskAssignment{
			TaskID:     task.ID,
			EmployeeID: spec.EmployeeID,
			Role:       spec.role(),
			Status:     constants.AssignmentPending,
			AssignedAt: now,
		})
		to := spec.EmployeeID
		task.RecordAssignmentEvent(constants.ActionReassigned, from, &to, performedBy, reason)
	}

	if task.Status == constants.TaskStatusDraft {
		setStatus(task, constants.TaskStatusAssigned, performedBy, "task reassigned")
	}
	return nil
}

// Delegate marks the delegating employee's entry delegated and appends a
// pending entry per delegate. The delegator must hold a pending or
// accepted entry.
func Delegate(task *models.Task, fromEmployee uint, performedBy uint, specs []AssigneeSpec, reason string) error {
	if len(specs) == 0 {
		return httperr.Validation("at least one delegate is required")
	}

	entry := task.FindAssignment(fromEmployee)
	if entry == nil || (entry.Status != constants.AssignmentPending && entry.Status != constants.AssignmentAccepted) {
		return httperr.Authorization("no active assignment found for delegating employee")
	}
	for _, spec := range specs {
		if task.FindAssignment(spec.EmployeeID) != nil {
			return httperr.Validation("employee is already assigned to this task")
		}
	}

	entry.Status = constants.AssignmentDelegated
	delegatedTo := specs[0].EmployeeID
	entry.DelegatedToID = &delegatedTo

	now := time.Now()
	for _, spec := range specs {
		task.AssignedTo = append(task.AssignedTo, models.TaskAssignment{
			TaskID:     task.ID,
			EmployeeID: spec.EmployeeID,
			Role:       spec.role(),
			Status:     constants.AssignmentPending,
			AssignedAt: now,
		})
		from := fromEmployee
		to := spec.EmployeeID
		task.RecordAssignmentEvent(constants.ActionDelegated, &from, &to, performedBy, reason)
	}
	return nil
}

// Respond applies an assignee's accept or reject to their own entry.
// Once every entry is accepted or delegated, an assigned task moves to
// in_progress.
func Respond(task *models.Task, employeeID uint, action string, reason string) error {
	entry := task.FindAssignment(employeeID)
	if entry == nil {
		return httperr.NotFound("no assignment found for employee")
	}

	self := employeeID
	switch action {
	case "accept":
		now := time.Now()
		entry.Status = constants.AssignmentAccepted
		entry.AcceptedAt = &now
		task.RecordAssignmentEvent(constants.ActionAccepted, nil, &self, employeeID, reason)

		if task.Status == constants.TaskStatusAssigned && allSettled(task) {
			setStatus(task, constants.TaskStatusInProgress, employeeID, "all assignees accepted")
		}
	case "reject":
		entry.Status = constants.AssignmentRejected
		entry.RejectionReason = reason
		task.RecordAssignmentEvent(constants.ActionRejected, nil, &self, employeeID, reason)
	default:
		return httperr.Validation("action must be accept or reject")
	}
	return nil
}

func allSettled(task *models.Task) bool {
	for _, a := range task.AssignedTo {
		if a.Status != constants.AssignmentAccepted && a.Status != constants.AssignmentDelegated {
			return false
		}
	}
	return len(task.AssignedTo) > 0
}

func setStatus(task *models.Task, to constants.TaskStatus, actorID uint, notes string) {
	task.RecordStatusChange(to, actorID, notes)
	metrics.TaskTransitions.WithLabelValues(string(to)).Inc()
}
