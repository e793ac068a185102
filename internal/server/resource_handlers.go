package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/resources"
)

func (h *handler) listResources(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	h.respondList(c, items, err)
}

func (h *handler) listPremiumResources(c *gin.Context) {
	items, err := h.store.ListPremium(c.Request.Context())
	h.respondList(c, items, err)
}

func (h *handler) listResourcesByCategory(c *gin.Context) {
	items, err := h.store.ListByCategory(c.Request.Context(), c.Param("category"))
	h.respondList(c, items, err)
}

func (h *handler) listResourcesByType(c *gin.Context) {
	items, err := h.store.ListByType(c.Request.Context(), resources.Type(c.Param("type")))
	h.respondList(c, items, err)
}

func (h *handler) listResourcesByTypeAndCategory(c *gin.Context) {
	items, err := h.store.ListByTypeAndCategory(c.Request.Context(), resources.Type(c.Param("type")), c.Param("category"))
	h.respondList(c, items, err)
}

func (h *handler) getResource(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	item, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, "get resource", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) createResource(c *gin.Context) {
	var in resources.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid resource data")
		return
	}

	item, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		h.storeError(c, "create resource", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handler) updateResource(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	var in resources.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid resource data")
		return
	}

	item, err := h.store.Update(c.Request.Context(), id, in)
	if err != nil {
		h.storeError(c, "update resource", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) deleteResource(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, "delete resource", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func resourceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorResponse(c, http.StatusBadRequest, "Invalid resource id")
		return 0, false
	}
	return id, true
}

func (h *handler) respondList(c *gin.Context, items []resources.Resource, err error) {
	if err != nil {
		h.storeError(c, "list resources", err)
		return
	}
	if items == nil {
		items = []resources.Resource{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, resources.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, resources.ErrInvalid):
		errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.requestLogger(c).Error(op, zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Could not process the resource request")
	}
}
