package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazario-backend/internal/apperr"
	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
)

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, user)
	return err
}

func (s *UserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": hash, "passwordChangedAt": changedAt, "updatedAt": changedAt},
	})
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now()
	after := mongoReturnAfter()
	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, after).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"wishlist": productID},
	})
	return err
}

func (s *UserStore) RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"wishlist": productID},
	})
	return err
}

func (s *UserStore) AddAddress(ctx context.Context, id primitive.ObjectID, addr models.Address) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"addresses": addr},
	})
	return err
}

func (s *UserStore) RemoveAddress(ctx context.Context, id primitive.ObjectID, alias string) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"addresses": bson.M{"alias": alias}},
	})
	return err
}

func (s *UserStore) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isBlocked": blocked, "updatedAt": time.Now()},
	})
	return err
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, opts query.Options) ([]models.User, int64, error) {
	var users []models.User
	total, err := findPage(ctx, s.coll, opts, &users)
	return users, total, err
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
