package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/middleware"
	"laoud/internal/models"
	"laoud/internal/services"
)

// ChatHandler handles HTTP requests for the chatbot history.
type ChatHandler struct {
	service *services.ChatHistoryService
	logger  zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatHistoryService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the chat history routes with the Fiber app.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/chat")
	chatRoutes.Get("/history", h.HandleLoad)
	chatRoutes.Put("/history", h.HandleSave)
}

// HandleLoad returns the saved history of the chat session in ?sessionId=.
func (h *ChatHandler) HandleLoad(c *fiber.Ctx) error {
	chatID := c.Query("sessionId")
	if chatID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "sessionId is required",
		})
	}
	return c.JSON(h.service.Load(c.UserContext(), middleware.SessionID(c), chatID))
}

// HandleSave stores the chat history.
func (h *ChatHandler) HandleSave(c *fiber.Ctx) error {
	var history models.ChatHistory
	if problem := parseBody(c, &history); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	saved, err := h.service.Save(c.UserContext(), middleware.SessionID(c), history)
	if err != nil {
		return respondError(c, h.logger, "Could not save chat history", err)
	}
	return c.JSON(saved)
}
