package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Banner struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Subtitle        string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	BackgroundColor string             `json:"backgroundColor,omitempty" bson:"backgroundColor,omitempty"`
	Status          string             `json:"status,omitempty" bson:"status,omitempty"`
	Image           string             `json:"image" bson:"image"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
