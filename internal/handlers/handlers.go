package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/repository"
)

// The handlers depend on these narrow store interfaces rather than the
// concrete repositories, so tests can substitute fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	AddToCart(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	ToggleWishlist(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	CompleteOrder(ctx context.Context, userID, orderID primitive.ObjectID) error
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	FindAll(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, id string, review models.Review) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindAll(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindAll(ctx context.Context) ([]*models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type BannerStore interface {
	Create(ctx context.Context, banner *models.Banner) error
	FindAll(ctx context.Context) ([]*models.Banner, error)
	FindByID(ctx context.Context, id string) (*models.Banner, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

// Uploader is the subset of storage.ObjectStorage the handlers need.
type Uploader interface {
	Store(file *multipart.FileHeader) (string, error)
	Delete(url string) error
}

// respondError is the single boundary translating error kinds into an HTTP
// status and the JSON error envelope. Underlying causes are logged, never
// sent to the client.
func respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
	}
	c.JSON(apperr.Status(err), gin.H{"success": false, "message": apperr.Message(err)})
}
