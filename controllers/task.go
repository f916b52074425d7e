package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/permissions"
	"github.com/deependr20/hrms-sub001/store"
	"github.com/deependr20/hrms-sub001/utils"
	"github.com/deependr20/hrms-sub001/workflow"
)

type TaskController struct {
	Tasks     *store.TaskStore
	Employees *store.EmployeeStore
	Bus       *workflow.Bus
}

type assigneeRequest struct {
	Employee uint   `json:"employee" binding:"required"`
	Role     string `json:"role" binding:"omitempty,assignrole"`
}

type createTaskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Type           string     `json:"type"`
	Priority       string     `json:"priority" binding:"omitempty,taskpriority"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date" binding:"required"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ParentTaskID   *uint      `json:"parent_task_id"`
	ProjectID      *uint      `json:"project_id"`
	AssignmentType string     `json:"assignment_type" binding:"omitempty,assigntype"`
	CanReassign    bool       `json:"can_reassign"`
	Assignees      []assigneeRequest `json:"assignees"`
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	actorID, _ := actor(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	assigner, err := tc.Employees.Get(actorID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	// Assignment permissions are checked before anything is persisted.
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
	}

	task := models.Task{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Type:           req.Type,
		Priority:       constants.TaskPriority(req.Priority),
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ParentTaskID:   req.ParentTaskID,
		ProjectID:      req.ProjectID,
		AssignedByID:   actorID,
		CanReassign:    req.CanReassign,
	}
	if t := constants.AssignmentType(req.AssignmentType); t.Valid() {
		task.AssignmentType = t
	}

	if err := tc.Tasks.Create(&task); err != nil {
		httperr.Respond(c, err)
		return
	}

	for _, a := range req.Assignees {
		if err := workflow.Assign(&task, actorID, workflow.AssigneeSpec{
			EmployeeID: a.Employee,
			Role:       constants.AssignmentRole(a.Role),
		}, ""); err != nil {
			httperr.Respond(c, err)
			return
		}
	}
	if len(req.Assignees) > 0 {
		if err := tc.Tasks.Save(&task); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httperr.OK(c, "Task created", task)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	task, ok := tc.loadTask(c)
	if !ok {
		return
	}
	httperr.OK(c, "", task)
}

func (tc *TaskController) GetTasks(c *gin.Context) {
	actorID, actorRole := actor(c)

	filter := store.TaskFilter{
		Status:   constants.TaskStatus(c.Query("status")),
		Priority: constants.TaskPriority(c.Query("priority")),
	}
	if v := c.Query("assignee"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		filter.AssigneeID = uint(id)
	}
	if v := c.Query("assigner"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		filter.AssignedByID = uint(id)
	}
	if v := c.Query("project"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		filter.ProjectID = uint(id)
	}
	if v := c.Query("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}
	if v := c.Query("until"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Until = &t
		}
	}

	// Non-elevated actors only see their own slice of the task list:
	// themselves, plus their recursive reports for managers.
	if !constants.HasElevatedAccess(actorRole) {
		scope := []uint{actorID}
		if actorRole == constants.RoleManager {
			scope = append(scope, utils.GetRecursiveReportIDs(actorID, tc.Tasks.DB)...)
		}
		filter.ScopeEmployeeIDs = scope
	}

	tasks, err := tc.Tasks.Query(filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "", tasks)
}

type updateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category"`
	Priority       *string    `json:"priority" binding:"omitempty,taskpriority"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	CanReassign    *bool      `json:"can_reassign"`
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	actorID, actorRole := actor(c)

	task, ok := tc.loadTask(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	assignees, err := tc.Employees.ActiveAssignees(task)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if d := permissions.CanModify(actorID, actorRole, task, assignees); !d.Allowed {
		httperr.Respond(c, httperr.Authorization(d.Reason))
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Priority != nil {
		task.Priority = constants.TaskPriority(*req.Priority)
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = req.EstimatedHours
	}
	if req.CanReassign != nil {
		task.CanReassign = *req.CanReassign
	}

	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "Task updated", task)
}

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type"`
	Mentions string `json:"mentions"`
}

func (tc *TaskController) AddComment(c *gin.Context) {
	actorID, actorRole := actor(c)

	task, ok := tc.loadTask(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	canComment := task.AssignedByID == actorID ||
		constants.HasElevatedAccess(actorRole) ||
		task.FindAssignment(actorID) != nil
	if !canComment {
		httperr.Respond(c, httperr.Authorization(permissions.ReasonInsufficient))
		return
	}

	if err := workflow.AddComment(task, actorID, req.Content, req.Type, req.Mentions); err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := tc.Tasks.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "Comment added", task.Comments)
}

// loadTask parses the :id param and fetches the aggregate, writing the
// error response itself on failure.
func (tc *TaskController) loadTask(c *gin.Context) (*models.Task, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.Validation("invalid task id"))
		return nil, false
	}
	task, err := tc.Tasks.Get(uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return task, true
}
