// Package store provides an interface for product storage operations.
package store

import "github.com/shopspring/decimal"

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// List returns all current products in insertion order.
	// Returns an empty slice if no products exist.
	List() ([]Product, error)

	// Add validates the input, assigns the next ID and stores the new product.
	// Returns a *errors.ValidationError if the input violates the product rules.
	Add(input Input) (*Product, error)

	// Delete removes a product by its ID. Deleting an absent ID is a no-op.
	Delete(id int64) error
}

// Product is a line item of the quote. It is never mutated after creation.
type Product struct {
	ID       int64
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Input carries the caller-supplied fields of a new product.
type Input struct {
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}
