package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
)

type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Insert(ctx context.Context, coupon *models.Coupon) error
	List(ctx context.Context) ([]models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Coupon, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CouponService struct {
	coupons CouponStore
	now     func() time.Time
}

func NewCouponService(coupons CouponStore) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

type CouponInput struct {
	Code     string    `json:"code" binding:"required"`
	Discount float64   `json:"discount" binding:"required"`
	Expires  time.Time `json:"expires" binding:"required"`
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	if in.Discount <= 0 || in.Discount > 100 {
		return nil, apperr.BadRequest("discount must be between 1 and 100")
	}
	if !in.Expires.After(s.now()) {
		return nil, apperr.BadRequest("expiry must be in the future")
	}

	existing, err := s.coupons.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("coupon code already exists")
	}

	coupon := &models.Coupon{Code: in.Code, Discount: in.Discount, Expires: in.Expires}
	if err := s.coupons.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.coupons.List(ctx)
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	return coupons, nil
}

func (s *CouponService) Update(ctx context.Context, id primitive.ObjectID, in CouponInput) (*models.Coupon, error) {
	if in.Discount <= 0 || in.Discount > 100 {
		return nil, apperr.BadRequest("discount must be between 1 and 100")
	}

	coupon, err := s.coupons.Update(ctx, id, bson.M{
		"code":     in.Code,
		"discount": in.Discount,
		"expires":  in.Expires,
	})
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperr.NotFound("coupon not found")
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.coupons.Delete(ctx, id)
}
