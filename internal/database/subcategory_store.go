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

type SubCategoryStore struct {
	coll *mongo.Collection
}

func NewSubCategoryStore(db *mongo.Database) *SubCategoryStore {
	return &SubCategoryStore{coll: db.Collection("subcategories")}
}

func (s *SubCategoryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubCategoryStore) Insert(ctx context.Context, sub *models.SubCategory) error {
	sub.ID = primitive.NewObjectID()
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, sub)
	return err
}

func (s *SubCategoryStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.SubCategory, error) {
	fields["updatedAt"] = time.Now()
	var sub models.SubCategory
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, mongoReturnAfter()).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("subcategory not found")
	}
	return nil
}

func (s *SubCategoryStore) List(ctx context.Context, opts query.Options) ([]models.SubCategory, int64, error) {
	var subs []models.SubCategory
	total, err := findPage(ctx, s.coll, opts, &subs)
	return subs, total, err
}
