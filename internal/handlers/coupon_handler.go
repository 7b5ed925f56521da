package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/services"
)

type CouponHandler struct {
	svc *services.CouponService
}

func NewCouponHandler(svc *services.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h *CouponHandler) Create(c *gin.Context) {
	var in services.CouponInput
	if !bindJSON(c, &in) {
		return
	}
	coupon, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var in services.CouponInput
	if !bindJSON(c, &in) {
		return
	}
	coupon, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
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
