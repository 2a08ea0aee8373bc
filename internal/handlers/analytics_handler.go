package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/middleware"
	"laoud/internal/services"
)

// AnalyticsHandler handles HTTP requests for storefront event tracking.
type AnalyticsHandler struct {
	service *services.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *services.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

type trackRequest struct {
	Event string         `json:"event" validate:"required,max=64"`
	Data  map[string]any `json:"data"`
}

// RegisterRoutes registers the analytics routes with the Fiber app.
func (h *AnalyticsHandler) RegisterRoutes(router fiber.Router) {
	analyticsRoutes := router.Group("/analytics")
	analyticsRoutes.Get("/events", h.HandleGetEvents)
	analyticsRoutes.Post("/events", h.HandleTrack)
}

// HandleGetEvents returns the browser's recent events.
func (h *AnalyticsHandler) HandleGetEvents(c *fiber.Ctx) error {
	return c.JSON(h.service.Recent(c.UserContext(), middleware.SessionID(c)))
}

// HandleTrack records one event.
func (h *AnalyticsHandler) HandleTrack(c *fiber.Ctx) error {
	var req trackRequest
	if problem := parseBody(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	if err := h.service.Track(c.UserContext(), middleware.SessionID(c), req.Event, req.Data); err != nil {
		return respondError(c, h.logger, "Could not track event", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Event tracked"})
}
