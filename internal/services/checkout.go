package services

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/database"
	"bazario-backend/internal/models"
	"bazario-backend/internal/payments"
	"bazario-backend/internal/query"
)

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetBySession(ctx context.Context, sessionID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, opts query.Options) ([]models.Order, int64, error)
	SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error)
	SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error)
}

type StockAdjuster interface {
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, in payments.SessionInput) (*payments.CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error)
}

type CheckoutService struct {
	carts   CartStore
	orders  OrderStore
	stock   StockAdjuster
	gateway PaymentGateway
	now     func() time.Time
}

func NewCheckoutService(carts CartStore, orders OrderStore, stock StockAdjuster, gateway PaymentGateway) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, stock: stock, gateway: gateway, now: time.Now}
}

func (s *CheckoutService) loadOwnedCart(ctx context.Context, userID, cartID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}
	if cart.User != userID {
		return nil, apperr.Forbidden("not authorized to access this cart")
	}
	if len(cart.Items) == 0 {
		return nil, apperr.BadRequest("cart is empty")
	}
	return cart, nil
}

// PlaceCashOrder converts the cart into an unpaid cash order.
func (s *CheckoutService) PlaceCashOrder(ctx context.Context, userID, cartID primitive.ObjectID, addr models.Address) (*models.Order, error) {
	cart, err := s.loadOwnedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, cart, addr, models.PaymentCash, "", false)
}

// CreateCheckoutSession opens a hosted payment session for the cart. The
// order does not exist yet; the cart id, user id and shipping address ride
// along as session metadata so the confirmation can finalize out-of-band.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, userID, cartID primitive.ObjectID, addr models.Address) (*payments.CheckoutSession, error) {
	cart, err := s.loadOwnedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return nil, err
	}

	items := make([]payments.LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, payments.LineItem{
			Name:     item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}

	session, err := s.gateway.CreateSession(ctx, payments.SessionInput{
		LineItems: items,
		Metadata: map[string]string{
			"cartId":          cart.ID.Hex(),
			"userId":          userID.Hex(),
			"shippingAddress": string(addrJSON),
		},
	})
	if err != nil {
		return nil, apperr.Internal("failed to create payment session")
	}
	return session, nil
}

// ConfirmSession finalizes the order a paid session refers to. Both the
// webhook and the polling fallback land here; a session that was already
// processed returns the existing order unchanged.
func (s *CheckoutService) ConfirmSession(ctx context.Context, session *payments.CheckoutSession) (*models.Order, error) {
	if existing, err := s.orders.GetBySession(ctx, session.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	cartID, err := primitive.ObjectIDFromHex(session.Metadata["cartId"])
	if err != nil {
		return nil, apperr.BadRequest("malformed session metadata")
	}
	userID, err := primitive.ObjectIDFromHex(session.Metadata["userId"])
	if err != nil {
		return nil, apperr.BadRequest("malformed session metadata")
	}
	var addr models.Address
	if raw := session.Metadata["shippingAddress"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			return nil, apperr.BadRequest("malformed session metadata")
		}
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}
	if cart.User != userID {
		return nil, apperr.Forbidden("not authorized to access this cart")
	}

	return s.finalize(ctx, cart, addr, models.PaymentCard, session.ID, true)
}

// VerifyPayment is the polling fallback for environments the webhook cannot
// reach: fetch the session and run the same idempotent confirmation.
func (s *CheckoutService) VerifyPayment(ctx context.Context, sessionID string) (*models.Order, error) {
	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal("failed to retrieve payment session")
	}
	if session.PaymentStatus != "paid" {
		return nil, apperr.BadRequest("payment not completed")
	}
	return s.ConfirmSession(ctx, session)
}

// finalize is the single checkout path: snapshot the cart into an order,
// take the stock, drop the cart. A failed decrement rolls the earlier
// decrements and the order back before reporting the failure.
func (s *CheckoutService) finalize(ctx context.Context, cart *models.Cart, addr models.Address, paymentType, sessionID string, paid bool) (*models.Order, error) {
	order := &models.Order{
		User:            cart.User,
		Items:           cart.Items,
		ShippingAddress: addr,
		TotalPrice:      cart.EffectiveTotal(),
		PaymentType:     paymentType,
		SessionID:       sessionID,
	}
	if paid {
		order.IsPaid = true
		at := s.now()
		order.PaidAt = &at
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		if err == database.ErrDuplicateSession && sessionID != "" {
			return s.orders.GetBySession(ctx, sessionID)
		}
		return nil, err
	}

	for i, item := range cart.Items {
		if err := s.stock.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
			for _, done := range cart.Items[:i] {
				_ = s.stock.IncrementStock(ctx, done.Product, done.Quantity)
			}
			_ = s.orders.Delete(ctx, order.ID)
			return nil, err
		}
	}

	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID primitive.ObjectID, admin bool) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	if !admin && order.User != userID {
		return nil, apperr.Forbidden("not authorized to access this order")
	}
	return order, nil
}

func (s *CheckoutService) ListAllOrders(ctx context.Context, opts query.Options) ([]models.Order, int64, error) {
	return s.orders.List(ctx, opts)
}

func (s *CheckoutService) MarkPaid(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.SetPaid(ctx, orderID, s.now())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}

func (s *CheckoutService) MarkDelivered(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.SetDelivered(ctx, orderID, s.now())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}
