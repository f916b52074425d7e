package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

type EmployeeController struct {
	DB *gorm.DB
}

func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	var employees []models.Employee
	if err := ec.DB.Find(&employees).Error; err != nil {
		httperr.Respond(c, httperr.Internal(err))
		return
	}
	httperr.OK(c, "", employees)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.Validation("invalid employee id"))
		return
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		httperr.Respond(c, httperr.NotFound("employee not found"))
		return
	}

	var req struct {
		Role               string `json:"role"`
		Department         string `json:"department"`
		Designation        string `json:"designation"`
		ReportingManagerID *uint  `json:"reporting_manager_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	if req.ReportingManagerID != nil && *req.ReportingManagerID == employee.ID {
		httperr.Respond(c, httperr.Validation("employee cannot be their own manager"))
		return
	}

	if role := constants.Role(req.Role); req.Role != "" {
		if !role.Valid() {
			httperr.Respond(c, httperr.Validation("invalid role"))
			return
		}
		employee.Role = role
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.Designation != "" {
		employee.Designation = req.Designation
	}
	employee.ReportingManagerID = req.ReportingManagerID

	if err := ec.DB.Save(&employee).Error; err != nil {
		httperr.Respond(c, httperr.Internal(err))
		return
	}

	httperr.OK(c, "Employee updated", employee)
}
