// Package permissions holds the pure decision functions for task access.
// Every function returns a Decision whose Reason is always populated so
// both allows and denies can be audited.
//
// The rules for modification, progress updates and time logging are
// deliberately distinct rulesets, not one merged check.
package permissions

import (
	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/models"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

const (
	ReasonTaskCreator          = "task_creator"
	ReasonElevated             = "elevated_permissions"
	ReasonManagerAuthority     = "manager_authority"
	ReasonAssignee             = "assignee_permissions"
	ReasonInsufficient         = "insufficient_permissions"
	ReasonSelfAssignment       = "self_assignment"
	ReasonManagerToSubordinate = "manager_to_subordinate"
	ReasonSameDepartment       = "same_department"
	ReasonNotAuthorizedLogTime = "not_authorized_to_log_time"
)

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// CanModify decides whether the actor may modify or reassign the task.
// assignees are the employee records for the task's active assignment
// entries; the manager rule is all-or-nothing over them.
func CanModify(actorID uint, actorRole constants.Role, task *models.Task, assignees []models.Employee) Decision {
	if task.AssignedByID == actorID {
		return allow(ReasonTaskCreator)
	}
	if constants.HasElevatedAccess(actorRole) {
		return allow(ReasonElevated)
	}
	if actorRole == constants.RoleManager && supervisesAll(actorID, assignees) {
		return allow(ReasonManagerAuthority)
	}
	if task.FindAssignment(actorID) != nil && task.CanReassign {
		return allow(ReasonAssignee)
	}
	return deny(ReasonInsufficient)
}

// CanAssign decides whether the assigner may add the assignee to a task.
func CanAssign(assigner, assignee models.Employee) Decision {
	if assigner.ID == assignee.ID {
		return allow(ReasonSelfAssignment)
	}
	if assignee.ReportingManagerID != nil && *assignee.ReportingManagerID == assigner.ID {
		return allow(ReasonManagerToSubordinate)
	}
	if assigner.Department != "" && assigner.Department == assignee.Department {
		return allow(ReasonSameDepartment)
	}
	switch assigner.Role {
	case constants.RoleAdmin, constants.RoleHR, constants.RoleManager:
		return allow(ReasonElevated)
	}
	return deny(ReasonInsufficient)
}

// CanUpdateProgress is CanModify with the assignee rule narrowed: the
// actor's own entry must be accepted, a pending assignee cannot log
// progress. CanReassign does not gate this path.
func CanUpdateProgress(actorID uint, actorRole constants.Role, task *models.Task, assignees []models.Employee) Decision {
	if task.AssignedByID == actorID {
		return allow(ReasonTaskCreator)
	}
	if constants.HasElevatedAccess(actorRole) {
		return allow(ReasonElevated)
	}
	if actorRole == constants.RoleManager && supervisesAll(actorID, assignees) {
		return allow(ReasonManagerAuthority)
	}
	if task.HasAcceptedAssignment(actorID) {
		return allow(ReasonAssignee)
	}
	return deny(ReasonInsufficient)
}

// CanLogTime is the narrowest check: only the task creator or an accepted
// assignee. Admin and hr get no bypass here; a time entry is a personal
// attestation, not an administrative action.
func CanLogTime(actorID uint, task *models.Task) Decision {
	if task.AssignedByID == actorID {
		return allow(ReasonTaskCreator)
	}
	if task.HasAcceptedAssignment(actorID) {
		return allow(ReasonAssignee)
	}
	return deny(ReasonNotAuthorizedLogTime)
}

// supervisesAll mirrors Array.every: vacuously true when the task has no
// active assignees.
func supervisesAll(managerID uint, assignees []models.Employee) bool {
	for _, a := range assignees {
		if a.ReportingManagerID == nil || *a.ReportingManagerID != managerID {
			return false
		}
	}
	return true
}
