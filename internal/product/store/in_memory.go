package store

import (
	"slices"
	"sync"
)

// inMemory implements ProductStore using an in-memory map keyed by ID.
// order keeps the IDs in insertion order.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	order    []int64
	nextID   int64
}

// NewInMemoryStore creates a new, empty instance of ProductStore.
// Every instance has its own ID sequence starting at 1.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// List retrieves all products.
func (s *inMemory) List() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list, nil
}

// Add creates a new product and returns it.
func (s *inMemory) Add(input Input) (*Product, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:       s.nextID,
		Name:     input.Name,
		Quantity: input.Quantity,
		Price:    input.Price,
	}
	s.nextID++
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)

	return &product, nil
}

// Delete deletes a product by its ID.
func (s *inMemory) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return nil
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == id })
	return nil
}
