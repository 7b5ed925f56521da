package handlers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/middleware"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
	"bazario-backend/internal/uploads"
)

type RentalHandler struct {
	svc      *services.RentalService
	uploader *uploads.Client
}

func NewRentalHandler(svc *services.RentalService, uploader *uploads.Client) *RentalHandler {
	return &RentalHandler{svc: svc, uploader: uploader}
}

// Create accepts a multipart form: the rental details as fields plus both
// sides of the renter's ID card as image files.
func (h *RentalHandler) Create(c *gin.Context) {
	productID, err := parseHex(c.PostForm("product"))
	if err != nil {
		fail(c, err)
		return
	}

	startDate, err := parseDate(c.PostForm("startDate"))
	if err != nil {
		fail(c, err)
		return
	}
	endDate, err := parseDate(c.PostForm("endDate"))
	if err != nil {
		fail(c, err)
		return
	}

	front, err := h.uploadIDCard(c, "idCardFront")
	if err != nil {
		fail(c, err)
		return
	}
	back, err := h.uploadIDCard(c, "idCardBack")
	if err != nil {
		fail(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	req, err := h.svc.Create(c.Request.Context(), user.ID, services.CreateRentalInput{
		ProductID: productID,
		PersonalInfo: models.PersonalInfo{
			FullName:     c.PostForm("fullName"),
			Phone:        c.PostForm("phone"),
			Address:      c.PostForm("address"),
			IDCardNumber: c.PostForm("idCardNumber"),
		},
		StartDate:   startDate,
		EndDate:     endDate,
		IDCardFront: front,
		IDCardBack:  back,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *RentalHandler) uploadIDCard(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", apperr.BadRequest(field + " image is required")
	}
	if header.Size > maxImageSize {
		return "", apperr.BadRequest(field + " exceeds the 5MB limit")
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, file, "rentals")
	if err != nil {
		return "", apperr.Internal("image upload failed")
	}
	return url, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperr.BadRequest("start and end dates are required")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.BadRequest("invalid date format")
	}
	return t, nil
}

func (h *RentalHandler) ListMine(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())
	user := middleware.CurrentUser(c)
	result, err := h.svc.ListMine(c.Request.Context(), user.ID, opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RentalHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	req, err := h.svc.Get(c.Request.Context(), user.ID, user.Role == models.RoleAdmin, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RentalHandler) Cancel(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	req, err := h.svc.Cancel(c.Request.Context(), user.ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Admin endpoints

func (h *RentalHandler) ListAll(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())
	result, err := h.svc.ListAll(c.Request.Context(), c.Query("status"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rentalNotesInput struct {
	AdminNotes string `json:"adminNotes"`
}

func (h *RentalHandler) Approve(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in rentalNotesInput
	_ = c.ShouldBindJSON(&in)

	admin := middleware.CurrentUser(c)
	req, err := h.svc.Approve(c.Request.Context(), admin.ID, id, in.AdminNotes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RentalHandler) Reject(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in rentalNotesInput
	_ = c.ShouldBindJSON(&in)

	req, err := h.svc.Reject(c.Request.Context(), id, in.AdminNotes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RentalHandler) Activate(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.Activate(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RentalHandler) Complete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.CompleteRentalInput
	if !bindJSON(c, &in) {
		return
	}

	req, err := h.svc.Complete(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
