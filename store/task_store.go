package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

// TaskStore is the durable home of the Task aggregate. Writers are not
// reconciled (last write wins); callers re-read before mutating the
// assignment list.
type TaskStore struct {
	DB *gorm.DB
}

// Create assigns a unique task number and persists the draft. Title and
// due date are required.
func (s *TaskStore) Create(task *models.Task) error {
	if task.Title == "" {
		return httperr.Validation("title is required")
	}
	if task.DueDate == nil {
		return httperr.Validation("due date is required")
	}
	if task.Status == "" {
		task.Status = constants.TaskStatusDraft
	}
	if task.Priority == "" {
		task.Priority = constants.PriorityMedium
	}
	task.Progress = 0

	for attempt := 0; attempt < 5; attempt++ {
		number, err := taskNumber(time.Now())
		if err != nil {
			return httperr.Internal(err)
		}
		var count int64
		if err := s.DB.Model(&models.Task{}).Where("number = ?", number).Count(&count).Error; err != nil {
			return httperr.Internal(err)
		}
		if count == 0 {
			task.Number = number
			break
		}
	}

	if err := s.DB.Create(task).Error; err != nil {
		return httperr.Internal(err)
	}
	return nil
}

// Get loads a task with all of its child collections.
func (s *TaskStore) Get(id uint) (*models.Task, error) {
	var task models.Task
	err := s.DB.
		Preload("AssignedTo").
		Preload("TimeEntries").
		Preload("Comments").
		Preload("AssignmentHistory").
		Preload("StatusHistory").
		First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("task not found")
	}
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return &task, nil
}

// Save persists the aggregate including any appended child rows.
func (s *TaskStore) Save(task *models.Task) error {
	err := s.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(task).Error
	if err != nil {
		return httperr.Internal(err)
	}
	return nil
}

// ClearAssignments deletes every assignment row for a task. Reassignment
// replaces the whole list, so the old rows go before the aggregate is
// saved with the new ones.
func (s *TaskStore) ClearAssignments(taskID uint) error {
	if err := s.DB.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return httperr.Internal(err)
	}
	return nil
}

// Subtasks returns the direct children of a parent task.
func (s *TaskStore) Subtasks(parentID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.DB.Where("parent_task_id = ?", parentID).Find(&tasks).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return tasks, nil
}

// ByProject returns every task under a project.
func (s *TaskStore) ByProject(projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.DB.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return tasks, nil
}

// TaskFilter is the dashboard/listing query contract. ScopeEmployeeIDs
// matches tasks assigned to or assigned by any of the given employees.
type TaskFilter struct {
	ScopeEmployeeIDs []uint
	AssigneeID       uint
	AssignedByID     uint
	ProjectID        uint
	Status           constants.TaskStatus
	Priority         constants.TaskPriority
	Since            *time.Time
	Until            *time.Time
}

// Query returns tasks matching the filter, with assignments preloaded for
// display.
func (s *TaskStore) Query(f TaskFilter) ([]models.Task, error) {
	q := s.DB.Model(&models.Task{}).Preload("AssignedTo")

	needsJoin := len(f.ScopeEmployeeIDs) > 0 || f.AssigneeID != 0
	if needsJoin {
		q = q.Joins("LEFT JOIN task_assignments ON task_assignments.task_id = tasks.id").
			Distinct("tasks.*")
	}
	if len(f.ScopeEmployeeIDs) > 0 {
		q = q.Where("task_assignments.employee_id IN ? OR tasks.assigned_by_id IN ?",
			f.ScopeEmployeeIDs, f.ScopeEmployeeIDs)
	}
	if f.AssigneeID != 0 {
		q = q.Where("task_assignments.employee_id = ?", f.AssigneeID)
	}
	if f.AssignedByID != 0 {
		q = q.Where("tasks.assigned_by_id = ?", f.AssignedByID)
	}
	if f.ProjectID != 0 {
		q = q.Where("tasks.project_id = ?", f.ProjectID)
	}
	if f.Status != "" {
		q = q.Where("tasks.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("tasks.priority = ?", f.Priority)
	}
	if f.Since != nil {
		q = q.Where("tasks.created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("tasks.created_at <= ?", *f.Until)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return tasks, nil
}

// taskNumber builds the human-readable identity: prefix, year, month and
// four random digits.
func taskNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TSK%d%02d%04d", now.Year(), int(now.Month()), n.Int64()), nil
}
