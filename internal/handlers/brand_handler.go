package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
)

type BrandHandler struct {
	svc *services.CatalogService
}

func NewBrandHandler(svc *services.CatalogService) *BrandHandler {
	return &BrandHandler{svc: svc}
}

func (h *BrandHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), "name")
	result, err := h.svc.ListBrands(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	brand, err := h.svc.GetBrand(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (h *BrandHandler) Create(c *gin.Context) {
	var in services.NameInput
	if !bindJSON(c, &in) {
		return
	}
	brand, err := h.svc.CreateBrand(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.NameInput
	if !bindJSON(c, &in) {
		return
	}
	brand, err := h.svc.UpdateBrand(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBrand(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
