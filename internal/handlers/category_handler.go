package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
)

type CategoryHandler struct {
	svc *services.CatalogService
}

func NewCategoryHandler(svc *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), "name")
	result, err := h.svc.ListCategories(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.NameInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.NameInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
