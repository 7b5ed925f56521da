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

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection("products")}
}

func (s *ProductStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, product)
	return err
}

func (s *ProductStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	fields["updatedAt"] = time.Now()
	var product models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, mongoReturnAfter()).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (s *ProductStore) List(ctx context.Context, opts query.Options) ([]models.Product, int64, error) {
	var products []models.Product
	total, err := findPage(ctx, s.coll, opts, &products)
	return products, total, err
}

// DecrementStock atomically takes qty units off the shelf and books them as
// sold. The stock filter makes concurrent oversells lose the update instead
// of driving stock negative.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty, "sold": qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.BadRequest("insufficient stock")
	}
	return nil
}

// IncrementStock is the compensating move for a failed checkout.
func (s *ProductStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty, "sold": -qty}},
	)
	return err
}

func (s *ProductStore) DecrementRentalStock(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "rentalStock": bson.M{"$gte": 1}},
		bson.M{"$inc": bson.M{"rentalStock": -1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.BadRequest("no rental stock available")
	}
	return nil
}

func (s *ProductStore) IncrementRentalStock(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"rentalStock": 1}})
	return err
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
