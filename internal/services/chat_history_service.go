package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"laoud/internal/models"
	"laoud/internal/repositories"
)

// ChatHistoryService saves and restores the chatbot conversation of a browser.
type ChatHistoryService struct {
	repo     repositories.ChatHistoryRepository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewChatHistoryService creates a new ChatHistoryService.
func NewChatHistoryService(repo repositories.ChatHistoryRepository, logger zerolog.Logger) *ChatHistoryService {
	return &ChatHistoryService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Save stores history, stamping it with the current time when it has none.
func (s *ChatHistoryService) Save(ctx context.Context, session string, history models.ChatHistory) (models.ChatHistory, error) {
	if err := s.validate.Struct(history); err != nil {
		return history, fmt.Errorf("invalid chat history: %w", err)
	}
	if history.Timestamp == 0 {
		history.Timestamp = s.now().UnixMilli()
	}
	if err := s.repo.Save(ctx, session, history); err != nil {
		return history, err
	}
	return history, nil
}

// Load returns the history of chatSessionID. Storage failures yield an empty history.
func (s *ChatHistoryService) Load(ctx context.Context, session, chatSessionID string) models.ChatHistory {
	history, err := s.repo.Load(ctx, session, chatSessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("chat history unavailable, starting empty")
		return models.ChatHistory{SessionID: chatSessionID}
	}
	return history
}
