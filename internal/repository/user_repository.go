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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Create inserts a new user. Email uniqueness is backed by the unique index
// on the collection.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.ID = primitive.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Wishlist == nil {
		user.Wishlist = []primitive.ObjectID{}
	}
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	if user.Orders == nil {
		user.Orders = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.New(apperr.DuplicateEmail, "User already exists")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid user ID format")
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list users", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to list users", err)
	}
	return users, nil
}

// Update applies a generic partial update. Callers strip restricted fields
// before reaching here.
func (r *UserRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid user ID format")
	}

	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update user", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid user ID format")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete user", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

// AddToCart merges quantity into an existing cart entry, or pushes a new one.
func (r *UserRepository) AddToCart(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.product": productID},
		bson.M{"$inc": bson.M{"cart.$.quantity": quantity}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update cart", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	result, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"cart": models.CartItem{Product: productID, Quantity: quantity}}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update cart", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

// ToggleWishlist removes the product when present, adds it otherwise.
// Returns true when the product ended up in the wishlist.
func (r *UserRepository) ToggleWishlist(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "wishlist": productID},
		bson.M{"$pull": bson.M{"wishlist": productID}})
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "Failed to update wishlist", err)
	}
	if result.MatchedCount > 0 {
		return false, nil
	}

	result, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"wishlist": productID}})
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "Failed to update wishlist", err)
	}
	if result.MatchedCount == 0 {
		return false, apperr.New(apperr.NotFound, "User not found")
	}
	return true, nil
}

// CompleteOrder clears the cart and appends the order reference in a single
// document update, so the user-side mutation is atomic.
func (r *UserRepository) CompleteOrder(ctx context.Context, userID primitive.ObjectID, orderID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set":  bson.M{"cart": []models.CartItem{}, "updated_at": time.Now()},
			"$push": bson.M{"orders": orderID},
		})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update user after order", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountByMonth buckets user sign-ups per calendar month (1-12).
func (r *UserRepository) CountByMonth(ctx context.Context) (map[int]int64, error) {
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
		return nil, apperr.Wrap(apperr.Internal, "Failed to aggregate users", err)
	}
	defer cursor.Close(ctx)

	return decodeMonthCounts(ctx, cursor)
}
