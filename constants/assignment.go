package constants

// AssignmentRole is the relationship of one employee to a task.
type AssignmentRole string

const (
	AssignmentRoleOwner        AssignmentRole = "owner"
	AssignmentRoleCollaborator AssignmentRole = "collaborator"
	AssignmentRoleReviewer     AssignmentRole = "reviewer"
	AssignmentRoleObserver     AssignmentRole = "observer"
)

func (r AssignmentRole) Valid() bool {
	switch r {
	case AssignmentRoleOwner, AssignmentRoleCollaborator, AssignmentRoleReviewer, AssignmentRoleObserver:
		return true
	}
	return false
}

// AssignmentStatus is the per-entry acceptance sub-state.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentDelegated AssignmentStatus = "delegated"
)

// AssignmentType records the provenance of a task's assignment, set once
// at creation.
type AssignmentType string

const (
	AssignSelf            AssignmentType = "self_assigned"
	AssignManager         AssignmentType = "manager_assigned"
	AssignPeer            AssignmentType = "peer_assigned"
	AssignCrossDepartment AssignmentType = "cross_department"
	AssignEscalated       AssignmentType = "escalated"
)

func (t AssignmentType) Valid() bool {
	switch t {
	case AssignSelf, AssignManager, AssignPeer, AssignCrossDepartment, AssignEscalated:
		return true
	}
	return false
}

// HistoryAction labels entries in a task's assignment history.
type HistoryAction string

const (
	ActionAssigned   HistoryAction = "assigned"
	ActionReassigned HistoryAction = "reassigned"
	ActionDelegated  HistoryAction = "delegated"
	ActionAccepted   HistoryAction = "accepted"
	ActionRejected   HistoryAction = "rejected"
)
