package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyStockInvariant(t *testing.T) {
	update := bson.M{"stockQuantity": 0}
	applyStockInvariant(update)
	assert.Equal(t, false, update["inStock"])

	update = bson.M{"stockQuantity": 7}
	applyStockInvariant(update)
	assert.Equal(t, true, update["inStock"])
}

func TestApplyStockInvariantLeavesInStockAloneOtherwise(t *testing.T) {
	update := bson.M{"price": 9.99, "inStock": false}
	applyStockInvariant(update)
	assert.Equal(t, false, update["inStock"], "inStock only moves with stockQuantity")

	update = bson.M{"name": "Keyboard"}
	applyStockInvariant(update)
	_, ok := update["inStock"]
	assert.False(t, ok)
}
