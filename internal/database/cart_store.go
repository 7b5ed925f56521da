package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazario-backend/internal/models"
)

type CartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{coll: db.Collection("carts")}
}

func (s *CartStore) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save persists the cart, creating it lazily on first write. The unique
// index on user keeps a racing first add from producing two carts.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.CreatedAt = now
		_, err := s.coll.InsertOne(ctx, cart)
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart)
	return err
}

func (s *CartStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *CartStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
