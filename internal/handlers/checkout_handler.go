package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/checkout"
	"laoud/internal/middleware"
	"laoud/internal/models"
	"laoud/internal/services"
)

// CheckoutHandler handles HTTP requests for the checkout steps.
type CheckoutHandler struct {
	service *services.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

type backRequest struct {
	Step string `json:"step" validate:"required"`
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetState)
	checkoutRoutes.Post("/", h.HandleBegin)
	checkoutRoutes.Put("/shipping", h.HandleShipping)
	checkoutRoutes.Put("/payment", h.HandlePayment)
	checkoutRoutes.Post("/review", h.HandleReview)
	checkoutRoutes.Post("/back", h.HandleBack)
	checkoutRoutes.Post("/orders", h.HandlePlaceOrder)

	router.Get("/orders", h.HandleGetOrders)
}

// HandleGetState returns the checkout progress.
func (h *CheckoutHandler) HandleGetState(c *fiber.Ctx) error {
	return c.JSON(h.service.State(middleware.SessionID(c)))
}

// HandleBegin opens checkout for the current cart.
func (h *CheckoutHandler) HandleBegin(c *fiber.Ctx) error {
	state, err := h.service.Begin(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not start checkout", err)
	}
	return c.JSON(state)
}

// HandleShipping accepts the delivery address.
func (h *CheckoutHandler) HandleShipping(c *fiber.Ctx) error {
	var info models.ShippingInfo
	if err := c.BodyParser(&info); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	state, err := h.service.SubmitShipping(middleware.SessionID(c), info)
	if err != nil {
		return respondError(c, h.logger, "Could not save shipping information", err)
	}
	return c.JSON(state)
}

// HandlePayment accepts the payment method and card details.
func (h *CheckoutHandler) HandlePayment(c *fiber.Ctx) error {
	var form checkout.PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	state, err := h.service.ChoosePayment(middleware.SessionID(c), form)
	if err != nil {
		return respondError(c, h.logger, "Could not save payment information", err)
	}
	return c.JSON(state)
}

// HandleReview confirms the entered data and returns the order summary.
func (h *CheckoutHandler) HandleReview(c *fiber.Ctx) error {
	review, err := h.service.ConfirmReview(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not confirm order review", err)
	}
	return c.JSON(review)
}

// HandleBack returns to an earlier checkout step.
func (h *CheckoutHandler) HandleBack(c *fiber.Ctx) error {
	var req backRequest
	if problem := parseBody(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	step, err := checkout.ParseStep(req.Step)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown checkout step",
			"error":   err.Error(),
		})
	}
	state, err := h.service.Back(middleware.SessionID(c), step)
	if err != nil {
		return respondError(c, h.logger, "Could not go back", err)
	}
	return c.JSON(state)
}

// HandlePlaceOrder processes the payment and places the order.
func (h *CheckoutHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	placed, err := h.service.PlaceOrder(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(placed)
}

// HandleGetOrders lists the orders placed from this browser.
func (h *CheckoutHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.Orders(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}
