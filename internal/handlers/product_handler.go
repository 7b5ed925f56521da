package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
	"bazario-backend/internal/uploads"
)

const maxImageSize = 5 << 20 // 5MB

type ProductHandler struct {
	svc      *services.CatalogService
	uploader *uploads.Client
}

func NewProductHandler(svc *services.CatalogService, uploader *uploads.Client) *ProductHandler {
	return &ProductHandler{svc: svc, uploader: uploader}
}

func (h *ProductHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), "title", "description")
	result, err := h.svc.ListProducts(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in services.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.ProductUpdate
	if !bindJSON(c, &in) {
		return
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// UploadImage streams the multipart image to the image host and stores the
// resulting URL as the product cover.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		fail(c, apperr.BadRequest("image file is required"))
		return
	}
	if header.Size > maxImageSize {
		fail(c, apperr.BadRequest("image exceeds the 5MB limit"))
		return
	}
	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		fail(c, apperr.BadRequest("only image uploads are allowed"))
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, file, "products")
	if err != nil {
		fail(c, apperr.Internal("image upload failed"))
		return
	}

	product, err := h.svc.SetProductImage(c.Request.Context(), id, url)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
