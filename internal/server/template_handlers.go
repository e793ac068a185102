package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/career-coach/internal/cv"
)

func (h *handler) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, cv.Templates())
}

func (h *handler) popularTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, cv.PopularTemplates())
}

func (h *handler) templatesByStyle(c *gin.Context) {
	c.JSON(http.StatusOK, cv.TemplatesByStyle(c.Param("style")))
}

func (h *handler) getTemplate(c *gin.Context) {
	template, ok := cv.TemplateByID(c.Param("id"))
	if !ok {
		errorResponse(c, http.StatusNotFound, "CV template not found")
		return
	}
	c.JSON(http.StatusOK, template)
}
