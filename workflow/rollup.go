package workflow

import (
	"log/slog"
	"math"
	"time"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/metrics"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/store"
)

// Rollup recomputes parent-task and project aggregates from their
// children. It runs as the progress-changed subscriber: failures are
// logged and counted, never propagated, because the primary mutation has
// already been committed.
type Rollup struct {
	Tasks    *store.TaskStore
	Projects *store.ProjectStore
}

// Handle is the Bus subscriber entry point.
func (r *Rollup) Handle(ev ProgressChanged) {
	if ev.ParentTaskID != nil {
		if err := r.ToParent(*ev.ParentTaskID); err != nil {
			slog.Error("parent task rollup failed",
				"task_id", ev.TaskID, "parent_task_id", *ev.ParentTaskID, "error", err)
			metrics.RollupFailures.WithLabelValues("parent").Inc()
		}
	}
	if ev.ProjectID != nil {
		if err := r.ToProject(*ev.ProjectID); err != nil {
			slog.Error("project rollup failed",
				"task_id", ev.TaskID, "project_id", *ev.ProjectID, "error", err)
			metrics.RollupFailures.WithLabelValues("project").Inc()
		}
	}
}

// ToParent sets the parent's progress to the mean of its subtasks and
// advances its status only for the two defined cases: all subtasks
// completed, or at least one literally in_progress. A missing parent or
// an empty subtask list is not an error.
func (r *Rollup) ToParent(parentID uint) error {
	parent, err := r.Tasks.Get(parentID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil
		}
		return err
	}

	subtasks, err := r.Tasks.Subtasks(parentID)
	if err != nil {
		return err
	}
	if len(subtasks) == 0 {
		return nil
	}

	sum := 0
	allCompleted := true
	anyInProgress := false
	for _, sub := range subtasks {
		sum += sub.Progress
		if sub.Status != constants.TaskStatusCompleted {
			allCompleted = false
		}
		if sub.Status == constants.TaskStatusInProgress {
			anyInProgress = true
		}
	}

	updates := map[string]any{
		"progress": int(math.Round(float64(sum) / float64(len(subtasks)))),
	}
	switch {
	case allCompleted:
		updates["status"] = constants.TaskStatusCompleted
		updates["completed_at"] = time.Now()
	case anyInProgress:
		updates["status"] = constants.TaskStatusInProgress
	}

	if err := r.Tasks.DB.Model(&models.Task{}).Where("id = ?", parent.ID).Updates(updates).Error; err != nil {
		return httperr.Internal(err)
	}
	return nil
}

// ToProject recomputes the project's mean progress and task analytics.
func (r *Rollup) ToProject(projectID uint) error {
	project, err := r.Projects.Get(projectID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil
		}
		return err
	}

	tasks, err := r.Tasks.ByProject(projectID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	now := time.Now()
	sum := 0
	completed := 0
	overdue := 0
	for _, t := range tasks {
		sum += t.Progress
		if t.Status == constants.TaskStatusCompleted {
			completed++
		}
		if t.IsOverdue(now) {
			overdue++
		}
	}

	project.Progress = int(math.Round(float64(sum) / float64(len(tasks))))
	project.Analytics = models.ProjectAnalytics{
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		OverdueTasks:   overdue,
	}
	return r.Projects.Save(project)
}
