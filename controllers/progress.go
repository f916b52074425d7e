package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/permissions"
	"github.com/deependr20/hrms-sub001/workflow"
)

type updateProgressRequest struct {
	Progress        *int    `json:"progress"`
	Status          *string `json:"status"`
	Notes           string  `json:"notes"`
	TimeSpent       *int    `json:"timeSpent"`
	CompletionNotes string  `json:"completionNotes"`
	Deliverables    string  `json:"deliverables"`
}

// UpdateProgress applies progress and status updates, then publishes the
// progress-changed event so parent and project aggregates recompute.
func (tc *TaskController) UpdateProgress(c *gin.Context) {
	actorID, actorRole := actor(c)

	task, ok := tc.loadTask(c)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	assignees, err := tc.Employees.ActiveAssignees(task)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if d := permissions.CanUpdateProgress(actorID, actorRole, task, assignees); !d.Allowed {
		httperr.Respond(c, httperr.Authorization(d.Reason))
		return
	}

	if req.Progress != nil {
		workflow.UpdateProgress(task, *req.Progress, actorID, req.Notes)
	}
	if req.Status != nil {
		status := constants.TaskStatus(*req.Status)
		if status == constants.TaskStatusCompleted {
			err = workflow.Complete(task, actorID, req.CompletionNotes, req.Deliverables)
		} else {
			err = workflow.SetStatus(task, status, actorID, req.Notes)
		}
		if err != nil {
			httperr.Respond(c, err)
			return
		}
	}
	if req.TimeSpent != nil {
		if err := workflow.AddTimeSpent(task, actorID, *req.TimeSpent, req.Notes, false); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}

	tc.publishProgress(task)
	httperr.OK(c, "Task progress updated", task)
}

type timeEntryRequest struct {
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Duration    *int       `json:"duration"`
	Description string     `json:"description"`
	Billable    bool       `json:"billable"`
}

// AddTimeEntry appends a work-log entry. Only the task creator or an
// accepted assignee may log time; elevated roles get no bypass here.
func (tc *TaskController) AddTimeEntry(c *gin.Context) {
	actorID, _ := actor(c)

	task, ok := tc.loadTask(c)
	if !ok {
		return
	}

	var req timeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	if d := permissions.CanLogTime(actorID, task); !d.Allowed {
		httperr.Respond(c, httperr.Authorization(d.Reason))
		return
	}

	switch {
	case req.StartTime != nil && req.EndTime != nil:
		err := workflow.AddTimeEntry(task, actorID, *req.StartTime, *req.EndTime, req.Description, req.Billable)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
	case req.Duration != nil:
		err := workflow.AddTimeSpent(task, actorID, *req.Duration, req.Description, req.Billable)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
	default:
		httperr.Respond(c, httperr.Validation("either startTime/endTime or duration is required"))
		return
	}

	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "Time entry added", task)
}

func (tc *TaskController) publishProgress(task *models.Task) {
	if tc.Bus == nil {
		return
	}
	tc.Bus.Publish(workflow.ProgressChanged{
		TaskID:       task.ID,
		ParentTaskID: task.ParentTaskID,
		ProjectID:    task.ProjectID,
	})
}
