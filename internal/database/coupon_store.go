package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
)

type CouponStore struct {
	coll *mongo.Collection
}

func NewCouponStore(db *mongo.Database) *CouponStore {
	return &CouponStore{coll: db.Collection("coupons")}
}

func (s *CouponStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.coll.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponStore) Insert(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = time.Now()
	_, err := s.coll.InsertOne(ctx, coupon)
	return err
}

func (s *CouponStore) List(ctx context.Context) ([]models.Coupon, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "expires", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var coupons []models.Coupon
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (s *CouponStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, mongoReturnAfter()).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("coupon not found")
	}
	return nil
}
