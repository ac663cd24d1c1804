package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProduct(t *testing.T) {
	item := Item{ID: "a", Title: "Camiseta", ImageURL: "u", Price: 10}

	p := NewProduct(item)

	assert.Equal(t, 1, p.Quantity)
	assert.Equal(t, item, p.Item())
}

func TestCloneProducts(t *testing.T) {
	orig := []Product{{ID: "a", Quantity: 1}}

	clone := CloneProducts(orig)
	clone[0].Quantity = 9

	assert.Equal(t, 1, orig[0].Quantity)
	assert.NotNil(t, CloneProducts(nil))
}

func TestIndexOf(t *testing.T) {
	products := []Product{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, 1, IndexOf(products, "b"))
	assert.Equal(t, -1, IndexOf(products, "c"))
}
