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

// ProductFilter narrows and orders a catalog listing.
type ProductFilter struct {
	Keyword  string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
	Sort     string // priceAsc | priceDesc | rating | newest
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.InStock = product.StockQuantity > 0
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Reviews == nil {
		product.Reviews = []models.Review{}
	}

	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create product", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid product ID")
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch product", err)
	}
	return &product, nil
}

// FindByIDs returns the products matching the given references, keyed by ID.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch products", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch products", err)
	}

	out := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// FindAll lists products matching the filter, counting the total in parallel.
func (r *ProductRepository) FindAll(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Keyword != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": filter.Keyword, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Keyword, "$options": "i"}},
		}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["price"] = price
	}

	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)

	go func() {
		total, err := r.collection.CountDocuments(ctx, query)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	sort := bson.D{{Key: "created_at", Value: -1}}
	switch filter.Sort {
	case "priceAsc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "priceDesc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "rating":
		sort = bson.D{{Key: "averageRating", Value: -1}}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "Failed to list products", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "Failed to list products", err)
	}

	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return products, 0, apperr.Wrap(apperr.Internal, "Failed to count products", err)
	case <-ctx.Done():
		return products, 0, ctx.Err()
	}

	return products, total, nil
}

// Update applies a partial update. Whenever stockQuantity changes, inStock is
// recomputed so the two never drift apart.
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid product ID")
	}

	applyStockInvariant(update)
	update["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update product", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid product ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete product", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	return nil
}

// AddReview appends a review and rewrites averageRating as the mean over all
// reviews including the new one.
func (r *ProductRepository) AddReview(ctx context.Context, id string, review models.Review) error {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	review.CreatedAt = time.Now()
	total := review.Rating
	for _, rev := range product.Reviews {
		total += rev.Rating
	}
	average := total / float64(len(product.Reviews)+1)

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": product.ID},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set":  bson.M{"averageRating": average, "updated_at": time.Now()},
		})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to add review", err)
	}
	return nil
}

// applyStockInvariant recomputes inStock whenever an update touches
// stockQuantity, so the two fields never drift apart.
func applyStockInvariant(update bson.M) {
	if stock, ok := update["stockQuantity"]; ok {
		if qty, ok := stock.(int); ok {
			update["inStock"] = qty > 0
		}
	}
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}
