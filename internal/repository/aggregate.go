package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type monthCount struct {
	Month int   `bson:"_id"`
	Total int64 `bson:"total"`
}

type monthSum struct {
	Month int     `bson:"_id"`
	Total float64 `bson:"total"`
}

func decodeMonthCounts(ctx context.Context, cursor *mongo.Cursor) (map[int]int64, error) {
	var buckets []monthCount
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(buckets))
	for _, b := range buckets {
		out[b.Month] = b.Total
	}
	return out, nil
}

func decodeMonthSums(ctx context.Context, cursor *mongo.Cursor) (map[int]float64, error) {
	var buckets []monthSum
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(buckets))
	for _, b := range buckets {
		out[b.Month] = b.Total
	}
	return out, nil
}
