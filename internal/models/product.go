package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in the product document.
type Review struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	Name      string             `json:"name" bson:"name"`
	Rating    float64            `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Product struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	Brand              string             `json:"brand" bson:"brand"`
	Description        string             `json:"description" bson:"description"`
	Category           string             `json:"category" bson:"category"`
	SubCategory        string             `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	ThirdLevelCategory string             `json:"thirdLevelCategory,omitempty" bson:"thirdLevelCategory,omitempty"`
	OriginalPrice      float64            `json:"originalPrice" bson:"originalPrice"`
	Price              float64            `json:"price" bson:"price"`
	StockQuantity      int                `json:"stockQuantity" bson:"stockQuantity"`
	SKU                string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Weight             float64            `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions         string             `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Tags               []string           `json:"tags" bson:"tags"`
	Images             []string           `json:"images" bson:"images"`
	Reviews            []Review           `json:"reviews" bson:"reviews"`
	AverageRating      float64            `json:"averageRating" bson:"averageRating"`
	InStock            bool               `json:"inStock" bson:"inStock"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
