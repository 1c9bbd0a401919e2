package repositories

import (
	"context"
	"sync"

	"github.com/explooosion/catalog-console/internal/models"
)

// memoryProductRepository implements ProductRepository in memory. It is the
// default driver for the development server; unlike the client-side caches it
// genuinely serves concurrent requests, so it carries a lock.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewMemoryProductRepository creates an empty in-memory product repository
func NewMemoryProductRepository() *memoryProductRepository {
	return &memoryProductRepository{nextID: 1}
}

// List returns all products ordered by id
func (r *memoryProductRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// GetByID retrieves a product by id
func (r *memoryProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}

// Create inserts a new product and assigns its id
func (r *memoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, *product)
	return nil
}

// Update replaces the stored product identified by product.ID
func (r *memoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	return ErrProductNotFound
}

// Delete removes the product identified by id
func (r *memoryProductRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}
