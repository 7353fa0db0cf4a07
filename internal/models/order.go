package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether status is one of the enumerated order states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether no further transition is allowed.
func TerminalOrderStatus(status string) bool {
	return status == OrderDelivered || status == OrderCancelled
}

// OrderItem snapshots the unit price at checkout time so later catalog price
// changes do not rewrite order history.
type OrderItem struct {
	Product   primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	UnitPrice float64            `json:"unitPrice" bson:"unitPrice"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	OrderItems      []OrderItem        `json:"orderItems" bson:"orderItems"`
	ShippingAddress Address            `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	ItemsPrice      float64            `json:"itemsPrice" bson:"itemsPrice"`
	ShippingPrice   float64            `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	OrderStatus     string             `json:"orderStatus" bson:"orderStatus"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// OrderUser is the joined projection of the ordering user.
type OrderUser struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

// OrderProduct is the joined projection of an ordered product.
type OrderProduct struct {
	ID     primitive.ObjectID `json:"id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Price  float64            `json:"price" bson:"price"`
	Images []string           `json:"images" bson:"images"`
}

// OrderItemDetail is an order item with its product reference resolved.
type OrderItemDetail struct {
	Product   OrderProduct `json:"product"`
	Quantity  int          `json:"quantity"`
	UnitPrice float64      `json:"unitPrice"`
}

// OrderDetail is an order with its user and product references resolved.
type OrderDetail struct {
	Order
	UserInfo *OrderUser        `json:"userInfo,omitempty"`
	Items    []OrderItemDetail `json:"items"`
}
