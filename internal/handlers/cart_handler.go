package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/middleware"
	"laoud/internal/services"
)

// CartHandler handles HTTP requests for the shopper's cart.
type CartHandler struct {
	service *services.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

type addItemRequest struct {
	ProductID int    `json:"productId" validate:"gt=0"`
	Size      string `json:"size" validate:"max=32"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code" validate:"max=64"`
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id/:size", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id/:size", h.HandleRemoveItem)
	cartRoutes.Post("/coupon", h.HandleApplyCoupon)
	cartRoutes.Delete("/coupon", h.HandleClearCoupon)
}

// HandleGetCart returns the cart with its totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.View(c.UserContext(), middleware.SessionID(c)))
}

// HandleAddItem adds a product to the cart. A missing quantity adds one unit.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if problem := parseBody(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.service.AddItem(c.UserContext(), middleware.SessionID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateQuantity sets a line's quantity. Zero removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	id, size, problem := lineParams(c)
	if problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	var req updateQuantityRequest
	if problem := parseBody(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	view, err := h.service.UpdateQuantity(c.UserContext(), middleware.SessionID(c), id, size, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not update quantity", err)
	}
	return c.JSON(view)
}

// HandleRemoveItem drops a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, size, problem := lineParams(c)
	if problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	view, err := h.service.RemoveItem(c.UserContext(), middleware.SessionID(c), id, size)
	if err != nil {
		return respondError(c, h.logger, "Could not remove item", err)
	}
	return c.JSON(view)
}

// HandleApplyCoupon applies a coupon code and returns the feedback message.
func (h *CartHandler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if problem := parseBody(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	res, err := h.service.ApplyCoupon(c.UserContext(), middleware.SessionID(c), req.Code)
	if err != nil {
		return respondError(c, h.logger, "Could not apply coupon", err)
	}
	return c.JSON(res)
}

// HandleClearCoupon removes the applied coupon.
func (h *CartHandler) HandleClearCoupon(c *fiber.Ctx) error {
	view, err := h.service.ClearCoupon(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not remove coupon", err)
	}
	return c.JSON(view)
}

// lineParams reads the product id and size of a cart line from the path.
func lineParams(c *fiber.Ctx) (int, string, fiber.Map) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, "", fiber.Map{"message": "Product ID must be a positive integer"}
	}
	size, err := url.PathUnescape(c.Params("size"))
	if err != nil {
		return 0, "", fiber.Map{
			"message": "Invalid size",
			"error":   err.Error(),
		}
	}
	return id, size, nil
}
