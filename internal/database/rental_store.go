package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazario-backend/internal/models"
	"bazario-backend/internal/query"
)

type RentalStore struct {
	coll *mongo.Collection
}

func NewRentalStore(db *mongo.Database) *RentalStore {
	return &RentalStore{coll: db.Collection("rentals")}
}

func (s *RentalStore) Insert(ctx context.Context, req *models.RentalRequest) error {
	req.ID = primitive.NewObjectID()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, req)
	return err
}

func (s *RentalStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RentalRequest, error) {
	var req models.RentalRequest
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Transition updates a rental request only when it is still in fromStatus,
// making each lifecycle step a single atomic compare-and-set. A nil result
// with nil error means the request was missing or already past fromStatus.
func (s *RentalStore) Transition(ctx context.Context, id primitive.ObjectID, fromStatus string, fields bson.M) (*models.RentalRequest, error) {
	fields["updatedAt"] = time.Now()
	var req models.RentalRequest
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": fromStatus},
		bson.M{"$set": fields},
		mongoReturnAfter(),
	).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RentalStore) ListByUser(ctx context.Context, userID primitive.ObjectID, opts query.Options) ([]models.RentalRequest, int64, error) {
	opts.Filter["user"] = userID
	var reqs []models.RentalRequest
	total, err := findPage(ctx, s.coll, opts, &reqs)
	return reqs, total, err
}

func (s *RentalStore) List(ctx context.Context, opts query.Options) ([]models.RentalRequest, int64, error) {
	var reqs []models.RentalRequest
	total, err := findPage(ctx, s.coll, opts, &reqs)
	return reqs, total, err
}

func (s *RentalStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"status": status})
}
