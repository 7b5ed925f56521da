package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/middleware"
	"bazario-backend/internal/services"
)

type CartHandler struct {
	svc *services.CartService
}

func NewCartHandler(svc *services.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	cart, err := h.svc.Get(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var in struct {
		Product  string `json:"product" binding:"required"`
		Quantity int    `json:"quantity"`
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
	cart, err := h.svc.AddItem(c.Request.Context(), user.ID, productID, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := objectID(c, "productId")
	if !ok {
		return
	}
	var in struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}

	user := middleware.CurrentUser(c)
	cart, err := h.svc.UpdateQuantity(c.Request.Context(), user.ID, productID, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := objectID(c, "productId")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	cart, err := h.svc.RemoveItem(c.Request.Context(), user.ID, productID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.svc.Clear(c.Request.Context(), user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var in struct {
		Coupon string `json:"coupon" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}

	user := middleware.CurrentUser(c)
	cart, err := h.svc.ApplyCoupon(c.Request.Context(), user.ID, in.Coupon)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	user := middleware.CurrentUser(c)
	cart, err := h.svc.RemoveCoupon(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
