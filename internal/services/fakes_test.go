package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/database"
	"bazario-backend/internal/models"
	"bazario-backend/internal/payments"
	"bazario-backend/internal/query"
)

// In-memory store fakes so the services can be tested without a database.

type fakeCartStore struct {
	carts map[primitive.ObjectID]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCartStore) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	for _, cart := range f.carts {
		if cart.User == userID {
			return cart, nil
		}
	}
	return nil, nil
}

func (f *fakeCartStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Cart, error) {
	return f.carts[id], nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	f.carts[cart.ID] = cart
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.carts, id)
	return nil
}

func (f *fakeCartStore) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	for id, cart := range f.carts {
		if cart.User == userID {
			delete(f.carts, id)
		}
	}
	return nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p := f.products[id]
	if p == nil || p.Stock < qty {
		return apperr.BadRequest("insufficient stock")
	}
	p.Stock -= qty
	p.Sold += qty
	return nil
}

func (f *fakeProductStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p := f.products[id]
	if p == nil {
		return apperr.NotFound("product not found")
	}
	p.Stock += qty
	p.Sold -= qty
	return nil
}

func (f *fakeProductStore) DecrementRentalStock(_ context.Context, id primitive.ObjectID) error {
	p := f.products[id]
	if p == nil || p.RentalStock <= 0 {
		return apperr.BadRequest("no rental stock available")
	}
	p.RentalStock--
	return nil
}

func (f *fakeProductStore) IncrementRentalStock(_ context.Context, id primitive.ObjectID) error {
	p := f.products[id]
	if p == nil {
		return apperr.NotFound("product not found")
	}
	p.RentalStock++
	return nil
}

type fakeCouponStore struct {
	coupons map[string]*models.Coupon
}

func (f *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	return f.coupons[code], nil
}

func (f *fakeCouponStore) Insert(_ context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponStore) List(_ context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCouponStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Coupon, error) {
	for code, c := range f.coupons {
		if c.ID != id {
			continue
		}
		if v, ok := fields["code"].(string); ok && v != code {
			delete(f.coupons, code)
			c.Code = v
			f.coupons[v] = c
		}
		if v, ok := fields["discount"].(float64); ok {
			c.Discount = v
		}
		if v, ok := fields["expires"].(time.Time); ok {
			c.Expires = v
		}
		return c, nil
	}
	return nil, nil
}

func (f *fakeCouponStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for code, c := range f.coupons {
		if c.ID == id {
			delete(f.coupons, code)
			return nil
		}
	}
	return apperr.NotFound("coupon not found")
}

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrderStore) Insert(_ context.Context, order *models.Order) error {
	if order.SessionID != "" {
		for _, existing := range f.orders {
			if existing.SessionID == order.SessionID {
				return database.ErrDuplicateSession
			}
		}
	}
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	return f.orders[id], nil
}

func (f *fakeOrderStore) GetBySession(_ context.Context, sessionID string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.SessionID == sessionID {
			return order, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.User == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) List(_ context.Context, _ query.Options) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) SetPaid(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	order := f.orders[id]
	if order == nil {
		return nil, nil
	}
	order.IsPaid = true
	order.PaidAt = &at
	return order, nil
}

func (f *fakeOrderStore) SetDelivered(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	order := f.orders[id]
	if order == nil {
		return nil, nil
	}
	order.IsDelivered = true
	order.DeliveredAt = &at
	return order, nil
}

type fakeGateway struct {
	sessions map[string]*payments.CheckoutSession
	created  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*payments.CheckoutSession{}}
}

func (f *fakeGateway) CreateSession(_ context.Context, in payments.SessionInput) (*payments.CheckoutSession, error) {
	f.created++
	session := &payments.CheckoutSession{
		ID:       fmt.Sprintf("cs_test_%d", f.created),
		URL:      "https://checkout.example.com/pay",
		Metadata: in.Metadata,
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeGateway) GetSession(_ context.Context, sessionID string) (*payments.CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	return session, nil
}

type fakeRentalStore struct {
	requests map[primitive.ObjectID]*models.RentalRequest
}

func newFakeRentalStore() *fakeRentalStore {
	return &fakeRentalStore{requests: map[primitive.ObjectID]*models.RentalRequest{}}
}

func (f *fakeRentalStore) Insert(_ context.Context, req *models.RentalRequest) error {
	req.ID = primitive.NewObjectID()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRentalStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.RentalRequest, error) {
	return f.requests[id], nil
}

func (f *fakeRentalStore) Transition(_ context.Context, id primitive.ObjectID, fromStatus string, fields bson.M) (*models.RentalRequest, error) {
	req := f.requests[id]
	if req == nil || req.Status != fromStatus {
		return nil, nil
	}
	for key, val := range fields {
		switch key {
		case "status":
			req.Status = val.(string)
		case "adminNotes":
			req.AdminNotes = val.(string)
		case "approvedBy":
			admin := val.(primitive.ObjectID)
			req.ApprovedBy = &admin
		case "approvedAt":
			at := val.(time.Time)
			req.ApprovedAt = &at
		case "rejectedAt":
			at := val.(time.Time)
			req.RejectedAt = &at
		case "actualStartDate":
			at := val.(time.Time)
			req.ActualStartDate = &at
		case "actualEndDate":
			at := val.(time.Time)
			req.ActualEndDate = &at
		case "returnedAt":
			at := val.(time.Time)
			req.ReturnedAt = &at
		case "returnCondition":
			req.ReturnCondition = val.(string)
		case "depositReturned":
			req.DepositReturned = val.(bool)
		case "depositReturnedAmount":
			req.DepositRefund = val.(float64)
		}
	}
	return req, nil
}

func (f *fakeRentalStore) ListByUser(_ context.Context, userID primitive.ObjectID, opts query.Options) ([]models.RentalRequest, int64, error) {
	var out []models.RentalRequest
	for _, req := range f.requests {
		if req.User == userID {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRentalStore) List(_ context.Context, opts query.Options) ([]models.RentalRequest, int64, error) {
	status, _ := opts.Filter["status"].(string)
	var out []models.RentalRequest
	for _, req := range f.requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	user.Password = hash
	user.PasswordChangedAt = changedAt
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	user := f.users[id]
	if user == nil {
		return nil, nil
	}
	if name, ok := fields["name"].(string); ok {
		user.Name = name
	}
	if phone, ok := fields["phone"].(string); ok {
		user.Phone = phone
	}
	return user, nil
}

func (f *fakeUserStore) AddToWishlist(_ context.Context, id, productID primitive.ObjectID) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	for _, pid := range user.Wishlist {
		if pid == productID {
			return nil
		}
	}
	user.Wishlist = append(user.Wishlist, productID)
	return nil
}

func (f *fakeUserStore) RemoveFromWishlist(_ context.Context, id, productID primitive.ObjectID) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	for i, pid := range user.Wishlist {
		if pid == productID {
			user.Wishlist = append(user.Wishlist[:i], user.Wishlist[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserStore) AddAddress(_ context.Context, id primitive.ObjectID, addr models.Address) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	user.Addresses = append(user.Addresses, addr)
	return nil
}

func (f *fakeUserStore) RemoveAddress(_ context.Context, id primitive.ObjectID, alias string) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	for i, addr := range user.Addresses {
		if addr.Alias == alias {
			user.Addresses = append(user.Addresses[:i], user.Addresses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserStore) SetBlocked(_ context.Context, id primitive.ObjectID, blocked bool) error {
	user := f.users[id]
	if user == nil {
		return apperr.NotFound("user not found")
	}
	user.Blocked = blocked
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.users[id] == nil {
		return apperr.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(_ context.Context, _ query.Options) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}
