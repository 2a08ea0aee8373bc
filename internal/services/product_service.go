package services

import (
	"fmt"

	"laoud/internal/catalog"
	"laoud/internal/models"
	"laoud/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products in catalog order.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// ListProducts returns the products selected and ordered by q.
func (s *ProductService) ListProducts(q catalog.Query) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return catalog.Filter(products, q), nil
}

// Categories lists the category slugs present in the catalog.
func (s *ProductService) Categories() ([]string, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return catalog.Categories(products), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}
