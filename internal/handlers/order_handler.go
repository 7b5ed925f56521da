package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/middleware"
	"bazario-backend/internal/models"
	"bazario-backend/internal/payments"
	"bazario-backend/internal/query"
	"bazario-backend/internal/services"
)

type OrderHandler struct {
	svc           *services.CheckoutService
	webhookSecret string
}

func NewOrderHandler(svc *services.CheckoutService, webhookSecret string) *OrderHandler {
	return &OrderHandler{svc: svc, webhookSecret: webhookSecret}
}

type shippingInput struct {
	ShippingAddress models.Address `json:"shippingAddress"`
}

func (h *OrderHandler) PlaceCashOrder(c *gin.Context) {
	cartID, ok := objectID(c, "cartId")
	if !ok {
		return
	}
	var in shippingInput
	if !bindJSON(c, &in) {
		return
	}

	user := middleware.CurrentUser(c)
	order, err := h.svc.PlaceCashOrder(c.Request.Context(), user.ID, cartID, in.ShippingAddress)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) CreateCheckoutSession(c *gin.Context) {
	cartID, ok := objectID(c, "cartId")
	if !ok {
		return
	}
	var in shippingInput
	if !bindJSON(c, &in) {
		return
	}

	user := middleware.CurrentUser(c)
	session, err := h.svc.CreateCheckoutSession(c.Request.Context(), user.ID, cartID, in.ShippingAddress)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

// Webhook receives payment events from the gateway. The signature must
// verify against the raw body before anything is trusted.
func (h *OrderHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		fail(c, apperr.BadRequest("could not read request body"))
		return
	}

	event, err := payments.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		fail(c, apperr.BadRequest("webhook signature verification failed"))
		return
	}

	if event.Type == payments.EventCheckoutCompleted {
		var session payments.CheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			fail(c, apperr.BadRequest("malformed event payload"))
			return
		}
		if _, err := h.svc.ConfirmSession(c.Request.Context(), &session); err != nil {
			fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// VerifyPayment is the client-driven fallback when the webhook cannot be
// delivered: the frontend posts the session id back after redirect.
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		fail(c, apperr.BadRequest("session id is required"))
		return
	}

	order, err := h.svc.VerifyPayment(c.Request.Context(), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orders, err := h.svc.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	order, err := h.svc.GetOrder(c.Request.Context(), user.ID, id, user.Role == models.RoleAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Admin endpoints

func (h *OrderHandler) ListAll(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())
	orders, total, err := h.svc.ListAllOrders(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
