package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/middleware"
)

// actor returns the authenticated employee id and role set by the auth
// middleware.
func actor(c *gin.Context) (uint, constants.Role) {
	id, _ := c.Get(middleware.ContextEmployeeID)
	role, _ := c.Get(middleware.ContextRole)

	actorID, _ := id.(uint)
	actorRole, _ := role.(constants.Role)
	return actorID, actorRole
}
