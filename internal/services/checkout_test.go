package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/models"
)

type checkoutFixture struct {
	svc      *CheckoutService
	carts    *fakeCartStore
	orders   *fakeOrderStore
	products *fakeProductStore
	gateway  *fakeGateway
}

func newCheckoutFixture(t *testing.T, products ...*models.Product) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts:    newFakeCartStore(),
		orders:   newFakeOrderStore(),
		products: newFakeProductStore(products...),
		gateway:  newFakeGateway(),
	}
	f.svc = NewCheckoutService(f.carts, f.orders, f.products, f.gateway)
	return f
}

func (f *checkoutFixture) seedCart(t *testing.T, userID primitive.ObjectID, items ...models.CartItem) *models.Cart {
	t.Helper()
	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	cart := &models.Cart{User: userID, Items: items, TotalPrice: total}
	require.NoError(t, f.carts.Save(context.Background(), cart))
	return cart
}

func TestPlaceCashOrder(t *testing.T) {
	p1 := &models.Product{Title: "Speaker", Price: 80, Stock: 5}
	p2 := &models.Product{Title: "Cable", Price: 10, Stock: 20}
	f := newCheckoutFixture(t, p1, p2)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID,
		models.CartItem{Product: p1.ID, Title: p1.Title, Quantity: 2, Price: 80},
		models.CartItem{Product: p2.ID, Title: p2.Title, Quantity: 3, Price: 10},
	)
	addr := models.Address{City: "Cairo", Street: "12 Nile St", Phone: "0100"}
	ctx := context.Background()

	order, err := f.svc.PlaceCashOrder(ctx, userID, cart.ID, addr)
	require.NoError(t, err)
	assert.Equal(t, 190.0, order.TotalPrice)
	assert.Equal(t, models.PaymentCash, order.PaymentType)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.Equal(t, addr, order.ShippingAddress)

	assert.Equal(t, 3, p1.Stock)
	assert.Equal(t, 2, p1.Sold)
	assert.Equal(t, 17, p2.Stock)
	assert.Equal(t, 3, p2.Sold)

	stored, err := f.carts.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Nil(t, stored, "cart should be gone after checkout")
}

func TestPlaceCashOrderChargesDiscountedTotal(t *testing.T) {
	p := &models.Product{Title: "Tent", Price: 100, Stock: 5}
	f := newCheckoutFixture(t, p)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID, models.CartItem{Product: p.ID, Quantity: 1, Price: 100})
	cart.Discount = 10
	cart.TotalPriceAfterDiscount = 90
	require.NoError(t, f.carts.Save(context.Background(), cart))

	order, err := f.svc.PlaceCashOrder(context.Background(), userID, cart.ID, models.Address{})
	require.NoError(t, err)
	assert.Equal(t, 90.0, order.TotalPrice)
}

func TestPlaceCashOrderWithFullDiscount(t *testing.T) {
	p := &models.Product{Title: "Sticker", Price: 50, Stock: 5}
	f := newCheckoutFixture(t, p)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID, models.CartItem{Product: p.ID, Quantity: 1, Price: 50})
	cart.Discount = 100
	cart.TotalPriceAfterDiscount = 0
	require.NoError(t, f.carts.Save(context.Background(), cart))

	order, err := f.svc.PlaceCashOrder(context.Background(), userID, cart.ID, models.Address{})
	require.NoError(t, err)
	assert.Zero(t, order.TotalPrice, "a fully discounted cart is charged nothing")
}

func TestPlaceCashOrderOwnership(t *testing.T) {
	p := &models.Product{Title: "Drone", Price: 300, Stock: 2}
	f := newCheckoutFixture(t, p)
	owner := primitive.NewObjectID()
	cart := f.seedCart(t, owner, models.CartItem{Product: p.ID, Quantity: 1, Price: 300})

	_, err := f.svc.PlaceCashOrder(context.Background(), primitive.NewObjectID(), cart.ID, models.Address{})
	require.EqualError(t, err, "not authorized to access this cart")

	_, err = f.svc.PlaceCashOrder(context.Background(), owner, primitive.NewObjectID(), models.Address{})
	require.EqualError(t, err, "cart not found")
}

func TestCheckoutRollsBackOnInsufficientStock(t *testing.T) {
	p1 := &models.Product{Title: "Router", Price: 60, Stock: 5}
	p2 := &models.Product{Title: "Switch", Price: 90, Stock: 1}
	f := newCheckoutFixture(t, p1, p2)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID,
		models.CartItem{Product: p1.ID, Quantity: 2, Price: 60},
		models.CartItem{Product: p2.ID, Quantity: 3, Price: 90},
	)
	ctx := context.Background()

	_, err := f.svc.PlaceCashOrder(ctx, userID, cart.ID, models.Address{})
	require.EqualError(t, err, "insufficient stock")

	// The first decrement is undone and no order survives.
	assert.Equal(t, 5, p1.Stock)
	assert.Equal(t, 0, p1.Sold)
	assert.Equal(t, 1, p2.Stock)
	assert.Empty(t, f.orders.orders)

	stored, err := f.carts.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "cart survives a failed checkout")
}

func TestCreateCheckoutSessionCarriesMetadata(t *testing.T) {
	p := &models.Product{Title: "Camera", Price: 250, Stock: 3}
	f := newCheckoutFixture(t, p)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID, models.CartItem{Product: p.ID, Title: p.Title, Quantity: 1, Price: 250})
	addr := models.Address{City: "Giza", Street: "4 Oasis Rd", Phone: "0111"}

	session, err := f.svc.CreateCheckoutSession(context.Background(), userID, cart.ID, addr)
	require.NoError(t, err)
	assert.Equal(t, cart.ID.Hex(), session.Metadata["cartId"])
	assert.Equal(t, userID.Hex(), session.Metadata["userId"])

	var got models.Address
	require.NoError(t, json.Unmarshal([]byte(session.Metadata["shippingAddress"]), &got))
	assert.Equal(t, addr, got)
}

func TestConfirmSessionIsIdempotent(t *testing.T) {
	p := &models.Product{Title: "Projector", Price: 400, Stock: 4}
	f := newCheckoutFixture(t, p)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID, models.CartItem{Product: p.ID, Title: p.Title, Quantity: 1, Price: 400})
	ctx := context.Background()

	session, err := f.svc.CreateCheckoutSession(ctx, userID, cart.ID, models.Address{City: "Cairo", Street: "1", Phone: "0"})
	require.NoError(t, err)
	session.PaymentStatus = "paid"

	first, err := f.svc.ConfirmSession(ctx, session)
	require.NoError(t, err)
	assert.True(t, first.IsPaid)
	require.NotNil(t, first.PaidAt)
	assert.Equal(t, models.PaymentCard, first.PaymentType)
	assert.Equal(t, session.ID, first.SessionID)
	assert.Equal(t, 3, p.Stock)

	// Webhook and polling can both land; the second confirmation is a no-op.
	second, err := f.svc.ConfirmSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, p.Stock, "stock is only taken once")
	assert.Len(t, f.orders.orders, 1)
}

func TestVerifyPayment(t *testing.T) {
	p := &models.Product{Title: "Scanner", Price: 150, Stock: 2}
	f := newCheckoutFixture(t, p)
	userID := primitive.NewObjectID()
	cart := f.seedCart(t, userID, models.CartItem{Product: p.ID, Quantity: 1, Price: 150})
	ctx := context.Background()

	session, err := f.svc.CreateCheckoutSession(ctx, userID, cart.ID, models.Address{})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, session.ID)
	require.EqualError(t, err, "payment not completed")

	session.PaymentStatus = "paid"
	order, err := f.svc.VerifyPayment(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.Equal(t, 150.0, order.TotalPrice)
}

func TestGetOrderAccessControl(t *testing.T) {
	f := newCheckoutFixture(t)
	owner := primitive.NewObjectID()
	order := &models.Order{User: owner, TotalPrice: 10}
	require.NoError(t, f.orders.Insert(context.Background(), order))

	got, err := f.svc.GetOrder(context.Background(), owner, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.GetOrder(context.Background(), primitive.NewObjectID(), order.ID, false)
	require.EqualError(t, err, "not authorized to access this order")

	got, err = f.svc.GetOrder(context.Background(), primitive.NewObjectID(), order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestMarkPaidAndDelivered(t *testing.T) {
	f := newCheckoutFixture(t)
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return at }

	order := &models.Order{User: primitive.NewObjectID(), PaymentType: models.PaymentCash}
	require.NoError(t, f.orders.Insert(context.Background(), order))

	paid, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, at, *paid.PaidAt)

	delivered, err := f.svc.MarkDelivered(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	assert.Equal(t, at, *delivered.DeliveredAt)

	_, err = f.svc.MarkPaid(context.Background(), primitive.NewObjectID())
	require.EqualError(t, err, "order not found")
}
