package controllers

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/utils"
)

type AuthController struct {
	DB *gorm.DB
}

type registerRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=8"`
	Role               string `json:"role"`
	Department         string `json:"department"`
	Designation        string `json:"designation"`
	ReportingManagerID *uint  `json:"reporting_manager_id"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, httperr.Internal(err))
		return
	}

	employee := models.Employee{
		Name:               req.Name,
		Email:              req.Email,
		Password:           hashed,
		Department:         req.Department,
		Designation:        req.Designation,
		ReportingManagerID: req.ReportingManagerID,
	}
	if role := constants.Role(req.Role); role.Valid() {
		employee.Role = role
	}

	if err := ac.DB.Create(&employee).Error; err != nil {
		httperr.Respond(c, httperr.Internal(err))
		return
	}

	httperr.OK(c, "Employee registered", gin.H{"id": employee.ID})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err.Error()))
		return
	}

	var employee models.Employee
	if err := ac.DB.Where("email = ?", req.Email).First(&employee).Error; err != nil {
		httperr.Respond(c, httperr.Authentication("Invalid credentials"))
		return
	}

	if !utils.CheckPassword(req.Password, employee.Password) {
		httperr.Respond(c, httperr.Authentication("Invalid credentials"))
		return
	}

	token, err := utils.GenerateJWT(employee)
	if err != nil {
		httperr.Respond(c, httperr.Internal(err))
		return
	}

	httperr.OK(c, "", gin.H{"token": token})
}
