package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/permissions"
	"github.com/deependr20/hrms-sub001/workflow"
)

type assignTaskRequest struct {
	TaskID    uint              `json:"taskId" binding:"required"`
	Assignees []assigneeRequest `json:"assignees" binding:"required,min=1,dive"`
	Action    string            `json:"action" binding:"required,oneof=assign reassign delegate"`
	Reason    string            `json:"reason"`
}

// AssignTask handles assign, reassign and delegate. Permissions are
// evaluated before any mutation: modification authority over the task,
// then per-assignee assignment authority.
func (tc *TaskController) AssignTask(c *gin.Context) {
	actorID, actorRole := actor(c)

	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	task, err := tc.Tasks.Get(req.TaskID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	assigner, err := tc.Employees.Get(actorID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.Action == "assign" || req.Action == "reassign" {
		assignees, err := tc.Employees.ActiveAssignees(task)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if d := permissions.CanModify(actorID, actorRole, task, assignees); !d.Allowed {
			httperr.Respond(c, httperr.Authorization(d.Reason))
			return
		}
	}

	specs := make([]workflow.AssigneeSpec, 0, len(req.Assignees))
	for _, a := range req.Assignees {
		assignee, err := tc.Employees.Get(a.Employee)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if d := permissions.CanAssign(*assigner, *assignee); !d.Allowed {
			httperr.Respond(c, httperr.Authorization(d.Reason))
			return
		}
		specs = append(specs, workflow.AssigneeSpec{
			EmployeeID: a.Employee,
			Role:       constants.AssignmentRole(a.Role),
		})
	}

	switch req.Action {
	case "assign":
		for _, spec := range specs {
			if err := workflow.Assign(task, actorID, spec, req.Reason); err != nil {
				httperr.Respond(c, err)
				return
			}
		}
	case "reassign":
		if err := workflow.Reassign(task, actorID, specs, req.Reason); err != nil {
			httperr.Respond(c, err)
			return
		}
		// Old assignment rows are replaced wholesale.
		if err := tc.Tasks.ClearAssignments(task.ID); err != nil {
			httperr.Respond(c, err)
			return
		}
	case "delegate":
		if err := workflow.Delegate(task, actorID, actorID, specs, req.Reason); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "Task "+pastTense(req.Action), task)
}

type respondAssignmentRequest struct {
	TaskID uint   `json:"taskId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=accept reject"`
	Reason string `json:"reason"`
}

// RespondAssignment lets the actor accept or reject their own assignment.
func (tc *TaskController) RespondAssignment(c *gin.Context) {
	actorID, _ := actor(c)

	var req respondAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	task, err := tc.Tasks.Get(req.TaskID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := workflow.Respond(task, actorID, req.Action, req.Reason); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "Assignment "+req.Action+"ed", task)
}

func pastTense(action string) string {
	switch action {
	case "assign":
		return "assigned"
	case "reassign":
		return "reassigned"
	case "delegate":
		return "delegated"
	}
	return action
}
