package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/middleware"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
)

type UserHandler struct {
	svc *services.UsersService
}

func NewUserHandler(svc *services.UsersService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.svc.Profile(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var in struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !bindJSON(c, &in) {
		return
	}

	user := middleware.CurrentUser(c)
	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, in.Name, in.Phone)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Wishlist(c *gin.Context) {
	user := middleware.CurrentUser(c)
	items, err := h.svc.Wishlist(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": items})
}

func (h *UserHandler) AddToWishlist(c *gin.Context) {
	var in struct {
		Product string `json:"product" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	productID, err := parseHex(in.Product)
	if err != nil {
		fail(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.AddToWishlist(c.Request.Context(), user.ID, productID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := objectID(c, "productId")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.RemoveFromWishlist(c.Request.Context(), user.ID, productID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	var addr models.Address
	if !bindJSON(c, &addr) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.AddAddress(c.Request.Context(), user.ID, addr); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "success"})
}

func (h *UserHandler) RemoveAddress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.svc.RemoveAddress(c.Request.Context(), user.ID, c.Param("alias")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// Admin endpoints

func (h *UserHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), "name", "email")
	result, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) SetBlocked(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Blocked *bool `json:"isBlocked" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}

	if err := h.svc.SetBlocked(c.Request.Context(), id, *in.Blocked); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
