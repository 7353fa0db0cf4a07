package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(collection *mongo.Collection) *CategoryRepository {
	return &CategoryRepository{collection: collection}
}

// Create inserts a category. Name uniqueness is backed by the unique index on
// the collection.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	category.ID = primitive.NewObjectID()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, category)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.New(apperr.Validation, "Category already exists")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create category", err)
	}
	return nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list categories", err)
	}
	defer cursor.Close(ctx)

	var categories []*models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid category ID")
	}

	var category models.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Category not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch category", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid category ID")
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update category", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Category not found")
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid category ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete category", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Category not found")
	}
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}
