package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a sellable catalog entry. Documents are seeded outside the API.
type Item struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
}

// CartLine is one item entry with its quantity and computed subtotal.
type CartLine struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Total    float64 `bson:"total" json:"total"`
}
