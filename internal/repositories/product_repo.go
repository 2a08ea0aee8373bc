package repositories

import (
	"errors"
	"fmt"
	"sync"

	"laoud/internal/models"
)

// ErrProductNotFound is returned for an id that is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
}

// CatalogProductRepository holds the parsed catalog in memory. Products keep
// the order they were parsed in.
type CatalogProductRepository struct {
	products []models.Product
	byID     map[int]int
	mu       sync.RWMutex
}

// NewCatalogProductRepository creates a repository over products.
func NewCatalogProductRepository(products []models.Product) *CatalogProductRepository {
	r := &CatalogProductRepository{}
	r.Replace(products)
	return r
}

// Replace swaps the whole catalog, as happens on every catalog load.
func (r *CatalogProductRepository) Replace(products []models.Product) {
	byID := make(map[int]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append([]models.Product(nil), products...)
	r.byID = byID
}

// GetAll returns all products.
func (r *CatalogProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Product{}, r.products...), nil
}

// GetByID returns a product by its ID.
func (r *CatalogProductRepository) GetByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	p := r.products[i]
	return &p, nil
}
