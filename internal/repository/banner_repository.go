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

type BannerRepository struct {
	collection *mongo.Collection
}

func NewBannerRepository(collection *mongo.Collection) *BannerRepository {
	return &BannerRepository{collection: collection}
}

func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	banner.ID = primitive.NewObjectID()
	now := time.Now()
	banner.CreatedAt = now
	banner.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, banner)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create banner", err)
	}
	return nil
}

func (r *BannerRepository) FindAll(ctx context.Context) ([]*models.Banner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list banners", err)
	}
	defer cursor.Close(ctx)

	var banners []*models.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list banners", err)
	}
	return banners, nil
}

func (r *BannerRepository) FindByID(ctx context.Context, id string) (*models.Banner, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid banner ID")
	}

	var banner models.Banner
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Banner not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch banner", err)
	}
	return &banner, nil
}

func (r *BannerRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid banner ID")
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update banner", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Banner not found")
	}
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid banner ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete banner", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Banner not found")
	}
	return nil
}
