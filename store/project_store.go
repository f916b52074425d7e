package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

type ProjectStore struct {
	DB *gorm.DB
}

func (s *ProjectStore) Get(id uint) (*models.Project, error) {
	var p models.Project
	err := s.DB.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("project not found")
	}
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return &p, nil
}

func (s *ProjectStore) Save(p *models.Project) error {
	if err := s.DB.Save(p).Error; err != nil {
		return httperr.Internal(err)
	}
	return nil
}
