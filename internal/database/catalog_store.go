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

type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection("categories")}
}

func (s *CategoryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Insert(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, category)
	return err
}

func (s *CategoryStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Category, error) {
	fields["updatedAt"] = time.Now()
	var category models.Category
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, mongoReturnAfter()).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

func (s *CategoryStore) List(ctx context.Context, opts query.Options) ([]models.Category, int64, error) {
	var categories []models.Category
	total, err := findPage(ctx, s.coll, opts, &categories)
	return categories, total, err
}

type BrandStore struct {
	coll *mongo.Collection
}

func NewBrandStore(db *mongo.Database) *BrandStore {
	return &BrandStore{coll: db.Collection("brands")}
}

func (s *BrandStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	var brand models.Brand
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (s *BrandStore) Insert(ctx context.Context, brand *models.Brand) error {
	brand.ID = primitive.NewObjectID()
	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, brand)
	return err
}

func (s *BrandStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Brand, error) {
	fields["updatedAt"] = time.Now()
	var brand models.Brand
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, mongoReturnAfter()).Decode(&brand)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (s *BrandStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("brand not found")
	}
	return nil
}

func (s *BrandStore) List(ctx context.Context, opts query.Options) ([]models.Brand, int64, error) {
	var brands []models.Brand
	total, err := findPage(ctx, s.coll, opts, &brands)
	return brands, total, err
}
