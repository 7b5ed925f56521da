package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
)

type SubCategoryHandler struct {
	svc *services.CatalogService
}

func NewSubCategoryHandler(svc *services.CatalogService) *SubCategoryHandler {
	return &SubCategoryHandler{svc: svc}
}

func (h *SubCategoryHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), "name")
	result, err := h.svc.ListSubCategories(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByCategory serves GET /categories/:id/subcategories.
func (h *SubCategoryHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := objectID(c, "id")
	if !ok {
		return
	}
	opts := query.Parse(c.Request.URL.Query(), "name")
	result, err := h.svc.ListSubCategoriesByCategory(c.Request.Context(), categoryID, opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SubCategoryHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	sub, err := h.svc.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubCategoryHandler) Create(c *gin.Context) {
	var in services.SubCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	sub, err := h.svc.CreateSubCategory(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubCategoryHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.SubCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	sub, err := h.svc.UpdateSubCategory(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubCategoryHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSubCategory(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
