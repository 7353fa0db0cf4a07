package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(collection *mongo.Collection) *OrderRepository {
	return &OrderRepository{collection: collection}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	order.ID = primitive.NewObjectID()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid order ID")
	}

	var order models.Order
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch order", err)
	}
	return &order, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list orders", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid order ID")
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"orderStatus": status, "updated_at": time.Now()}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update order status", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Order not found")
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid order ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete order", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Order not found")
	}
	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}

// TotalSales sums totalPrice over all orders.
func (r *OrderRepository) TotalSales(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalPrice"},
		}}},
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "Failed to aggregate sales", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, apperr.Wrap(apperr.Internal, "Failed to aggregate sales", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// SalesByMonth buckets revenue per calendar month (1-12).
func (r *OrderRepository) SalesByMonth(ctx context.Context) (map[int]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$created_at"},
			"total": bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to aggregate sales", err)
	}
	defer cursor.Close(ctx)

	return decodeMonthSums(ctx, cursor)
}

// CountByMonth buckets order counts per calendar month (1-12).
func (r *OrderRepository) CountByMonth(ctx context.Context) (map[int]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$created_at"},
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to aggregate orders", err)
	}
	defer cursor.Close(ctx)

	return decodeMonthCounts(ctx, cursor)
}
