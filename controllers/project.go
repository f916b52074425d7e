package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/store"
)

type ProjectController struct {
	Projects *store.ProjectStore
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.Validation("invalid project id"))
		return
	}

	project, err := pc.Projects.Get(uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httperr.OK(c, "", project)
}
