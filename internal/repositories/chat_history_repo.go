package repositories

import (
	"context"
	"fmt"

	"laoud/internal/models"
)

// ChatHistoryRepository stores the chatbot conversation of a browser.
type ChatHistoryRepository interface {
	Save(ctx context.Context, session string, history models.ChatHistory) error
	Load(ctx context.Context, session, chatSessionID string) (models.ChatHistory, error)
}

// StateChatHistoryRepository stores the history under laoud_chat_history.
type StateChatHistoryRepository struct {
	store StateStore
}

// NewStateChatHistoryRepository creates a new instance of StateChatHistoryRepository.
func NewStateChatHistoryRepository(store StateStore) *StateChatHistoryRepository {
	return &StateChatHistoryRepository{store: store}
}

// Save replaces the stored history.
func (r *StateChatHistoryRepository) Save(ctx context.Context, session string, history models.ChatHistory) error {
	if err := saveJSON(ctx, r.store, session, KeyChatHistory, history); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

// Load returns the stored history when it belongs to chatSessionID. Any other
// chat session gets an empty history for that id.
func (r *StateChatHistoryRepository) Load(ctx context.Context, session, chatSessionID string) (models.ChatHistory, error) {
	var history models.ChatHistory
	found, err := loadJSON(ctx, r.store, session, KeyChatHistory, &history)
	if err != nil {
		return models.ChatHistory{SessionID: chatSessionID}, fmt.Errorf("failed to load chat history: %w", err)
	}
	if !found || history.SessionID != chatSessionID {
		return models.ChatHistory{SessionID: chatSessionID}, nil
	}
	return history, nil
}
