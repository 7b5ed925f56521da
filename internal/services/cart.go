package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
)

// Store contracts are declared here so the services can be exercised against
// in-memory fakes.

type CartStore interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type ProductGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type CouponGetter interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type CartService struct {
	carts    CartStore
	products ProductGetter
	coupons  CouponGetter
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductGetter, coupons CouponGetter) *CartService {
	return &CartService{carts: carts, products: products, coupons: coupons, now: time.Now}
}

// Get returns the user's cart, or an empty representation when none exists.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{User: userID, Items: []models.CartItem{}}, nil
	}
	return cart, nil
}

// AddItem puts qty units of a product into the cart, merging with an
// existing line for the same product. The merged quantity is checked against
// current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.Cart, error) {
	if qty <= 0 {
		qty = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{User: userID}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Product == productID {
			if cart.Items[i].Quantity+qty > product.Stock {
				return nil, apperr.BadRequest("insufficient stock")
			}
			cart.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		if qty > product.Stock {
			return nil, apperr.BadRequest("insufficient stock")
		}
		cart.Items = append(cart.Items, models.CartItem{
			Product:  product.ID,
			Title:    product.Title,
			Image:    product.ImageCover,
			Quantity: qty,
			Price:    product.Price,
		})
	}

	s.recompute(cart)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperr.BadRequest("invalid quantity value")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].Product == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.NotFound("product not in cart")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}
	if qty > product.Stock {
		return nil, apperr.BadRequest("insufficient stock")
	}

	cart.Items[idx].Quantity = qty
	s.recompute(cart)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].Product == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.NotFound("product not in cart")
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	s.recompute(cart)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.DeleteByUser(ctx, userID)
}

// ApplyCoupon stores the coupon's percentage on the cart and computes the
// discounted total. Coupons stay redeemable until they expire.
func (s *CartService) ApplyCoupon(ctx context.Context, userID primitive.ObjectID, code string) (*models.Cart, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || coupon.Expired(s.now()) {
		return nil, apperr.BadRequest("invalid or expired coupon")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperr.NotFound("cart not found")
	}

	discounted := round2(cart.TotalPrice - cart.TotalPrice*coupon.Discount/100)
	if discounted < 0 {
		discounted = 0
	}
	cart.Discount = coupon.Discount
	cart.TotalPriceAfterDiscount = discounted

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveCoupon(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}

	cart.Discount = 0
	cart.TotalPriceAfterDiscount = 0
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// recompute folds the line items into the cart total. Any content change
// invalidates a previously applied discount.
func (s *CartService) recompute(cart *models.Cart) {
	total := 0.0
	for _, item := range cart.Items {
		total += float64(item.Quantity) * item.Price
	}
	cart.TotalPrice = round2(total)
	cart.Discount = 0
	cart.TotalPriceAfterDiscount = 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
