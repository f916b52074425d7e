package controllers

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/permissions"
	"github.com/deependr20/hrms-sub001/store"
	"github.com/deependr20/hrms-sub001/utils"
)

// Dashboard is the read-only aggregation endpoint. The team, department
// and organization views are role-gated; personal is open to everyone.
func (tc *TaskController) Dashboard(c *gin.Context) {
	actorID, actorRole := actor(c)

	view := c.DefaultQuery("view", "personal")
	days, err := strconv.Atoi(c.DefaultQuery("timeframe", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	filter := store.TaskFilter{Since: &since}

	switch view {
	case "personal":
		filter.ScopeEmployeeIDs = []uint{actorID}
	case "team":
		if actorRole != constants.RoleManager && !constants.HasElevatedAccess(actorRole) {
			httperr.Respond(c, httperr.Authorization(permissions.ReasonInsufficient))
			return
		}
		scope := []uint{actorID}
		scope = append(scope, utils.GetRecursiveReportIDs(actorID, tc.Tasks.DB)...)
		filter.ScopeEmployeeIDs = scope
	case "department":
		if actorRole != constants.RoleManager && !constants.HasElevatedAccess(actorRole) {
			httperr.Respond(c, httperr.Authorization(permissions.ReasonInsufficient))
			return
		}
		me, err := tc.Employees.Get(actorID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		var peers []models.Employee
		if err := tc.Tasks.DB.Where("department = ?", me.Department).Find(&peers).Error; err != nil {
			httperr.Respond(c, httperr.Internal(err))
			return
		}
		scope := make([]uint, 0, len(peers))
		for _, e := range peers {
			scope = append(scope, e.ID)
		}
		filter.ScopeEmployeeIDs = scope
	case "organization":
		if !constants.HasElevatedAccess(actorRole) {
			httperr.Respond(c, httperr.Authorization(permissions.ReasonInsufficient))
			return
		}
		// No scope filter: every task in the timeframe.
	default:
		httperr.Respond(c, httperr.Validation("view must be personal, team, department or organization"))
		return
	}

	tasks, err := tc.Tasks.Query(filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httperr.OK(c, "", aggregate(view, days, tasks))
}

func aggregate(view string, days int, tasks []models.Task) gin.H {
	now := time.Now()
	byStatus := map[constants.TaskStatus]int{}
	byPriority := map[constants.TaskPriority]int{}
	overdue := 0
	completed := 0
	progressSum := 0

	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++
		progressSum += t.Progress
		if t.Status == constants.TaskStatusCompleted {
			completed++
		}
		if t.IsOverdue(now) {
			overdue++
		}
	}

	avgProgress := 0
	completionRate := 0.0
	if len(tasks) > 0 {
		avgProgress = int(math.Round(float64(progressSum) / float64(len(tasks))))
		completionRate = math.Round(float64(completed)/float64(len(tasks))*1000) / 10
	}

	return gin.H{
		"view":            view,
		"timeframe_days":  days,
		"total_tasks":     len(tasks),
		"by_status":       byStatus,
		"by_priority":     byPriority,
		"overdue":         overdue,
		"completed":       completed,
		"completion_rate": completionRate,
		"avg_progress":    avgProgress,
	}
}
