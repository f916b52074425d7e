package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

// EmployeeStore gives the core read access to the employee directory:
// identity, role, department and the reporting-manager relationship.
type EmployeeStore struct {
	DB *gorm.DB
}

func (s *EmployeeStore) Get(id uint) (*models.Employee, error) {
	var e models.Employee
	err := s.DB.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("employee not found")
	}
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return &e, nil
}

// ActiveAssignees resolves the employee records behind a task's active
// assignment entries, for the manager all-or-nothing check.
func (s *EmployeeStore) ActiveAssignees(task *models.Task) ([]models.Employee, error) {
	active := task.ActiveAssignments()
	if len(active) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(active))
	for _, a := range active {
		ids = append(ids, a.EmployeeID)
	}
	var employees []models.Employee
	if err := s.DB.Where("id IN ?", ids).Find(&employees).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return employees, nil
}
