package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Address is a delivery address embedded in the user document.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// CartItem is a (product reference, quantity) pair owned by the user document.
type CartItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

type User struct {
	ID       primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Avatar   string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Name     string               `json:"name" bson:"name"`
	Email    string               `json:"email" bson:"email"`
	Password string               `json:"-" bson:"password"`
	Phone    string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Role     string               `json:"role" bson:"role"`
	Address  Address              `json:"address,omitempty" bson:"address,omitempty"`
	Wishlist []primitive.ObjectID `json:"wishlist" bson:"wishlist"`
	Cart     []CartItem           `json:"cart" bson:"cart"`
	Orders   []primitive.ObjectID `json:"orders" bson:"orders"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
