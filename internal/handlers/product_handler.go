package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/catalog"
	"laoud/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/categories", h.HandleGetCategories)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetProducts lists products filtered by category and price and sorted
// by the sort query parameter.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var q catalog.Query
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query",
			"error":   err.Error(),
		})
	}
	products, err := h.service.ListProducts(q)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetCategories lists the category slugs in the catalog.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a positive integer",
		})
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Product with ID %d not found", id), err)
	}
	return c.JSON(product)
}
