package models

import (
	"time"

	"github.com/deependr20/hrms-sub001/constants"
)

type Employee struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `json:"name"`
	Email              string         `gorm:"uniqueIndex" json:"email"`
	Password           string         `json:"-"`
	Role               constants.Role `gorm:"default:'employee'" json:"role"`
	Department         string         `json:"department"`
	Designation        string         `json:"designation"`
	ReportingManagerID *uint          `json:"reporting_manager_id"`
	Status             string         `gorm:"default:'active'" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
