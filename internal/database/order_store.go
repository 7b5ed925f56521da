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
	"bazario-backend/internal/query"
)

// ErrDuplicateSession reports an insert that lost the idempotency race: an
// order for the same payment session already exists.
var ErrDuplicateSession = apperr.BadRequest("order already recorded for this payment session")

type OrderStore struct {
	coll *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection("orders")}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	_, err := s.coll.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSession
	}
	return err
}

func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *OrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) GetBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) List(ctx context.Context, opts query.Options) ([]models.Order, int64, error) {
	var orders []models.Order
	total, err := findPage(ctx, s.coll, opts, &orders)
	return orders, total, err
}

func (s *OrderStore) SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isPaid": true, "paidAt": at}}, mongoReturnAfter()).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isDelivered": true, "deliveredAt": at}}, mongoReturnAfter()).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

// Revenue sums the totals of paid orders.
func (s *OrderStore) Revenue(ctx context.Context) (float64, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"isPaid": true}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalOrderPrice"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, cur.Err()
}
