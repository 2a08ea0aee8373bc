package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"laoud/internal/models"
	"laoud/internal/repositories"
	"laoud/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsRepository is a mock implementation of repositories.AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Track(ctx context.Context, session string, event models.AnalyticsEvent) error {
	args := m.Called(ctx, session, event)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) Recent(ctx context.Context, session string) ([]models.AnalyticsEvent, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsEvent), args.Error(1)
}

func TestAnalyticsService_Track(t *testing.T) {
	store := repositories.NewMemoryStateStore()
	svc := services.NewAnalyticsService(repositories.NewStateAnalyticsRepository(store), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Track(ctx, "b", "view_product", map[string]any{"productId": 4}))

	events := svc.Recent(ctx, "b")
	require.Len(t, events, 1)
	assert.Equal(t, "view_product", events[0].Event)
	assert.Equal(t, "b", events[0].SessionID)
	assert.Positive(t, events[0].Timestamp)

	assert.Empty(t, svc.Recent(ctx, "someone-else"))
}

func TestAnalyticsService_ConcurrentTrackKeepsEvents(t *testing.T) {
	store := repositories.NewMemoryStateStore()
	svc := services.NewAnalyticsService(repositories.NewStateAnalyticsRepository(store), zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, svc.Track(ctx, "b", fmt.Sprintf("view_%d", i), nil))
		}(i)
	}
	wg.Wait()

	assert.Len(t, svc.Recent(ctx, "b"), 20)
}

func TestAnalyticsService_RejectsUnnamedEvent(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := services.NewAnalyticsService(repo, zerolog.Nop())

	err := svc.Track(context.Background(), "b", "", nil)
	assert.ErrorContains(t, err, "invalid analytics event")
	repo.AssertNotCalled(t, "Track", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_RecentFallsBack(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	svc := services.NewAnalyticsService(repo, zerolog.Nop())

	repo.On("Recent", mock.Anything, "b").Return(nil, errors.New("corrupt entry")).Once()

	events := svc.Recent(context.Background(), "b")
	assert.NotNil(t, events)
	assert.Empty(t, events)
	repo.AssertExpectations(t)
}

func TestChatHistoryService(t *testing.T) {
	store := repositories.NewMemoryStateStore()
	svc := services.NewChatHistoryService(repositories.NewStateChatHistoryRepository(store), zerolog.Nop())
	ctx := context.Background()

	saved, err := svc.Save(ctx, "b", models.ChatHistory{
		SessionID:     "chat-1",
		Conversations: []map[string]any{{"role": "user", "text": "Something woody?"}},
		Preferences:   map[string]any{"notes": "oud"},
	})
	require.NoError(t, err)
	assert.Positive(t, saved.Timestamp)

	loaded := svc.Load(ctx, "b", "chat-1")
	assert.Equal(t, "chat-1", loaded.SessionID)
	require.Len(t, loaded.Conversations, 1)
	assert.Equal(t, "Something woody?", loaded.Conversations[0]["text"])

	fresh := svc.Load(ctx, "b", "chat-2")
	assert.Equal(t, "chat-2", fresh.SessionID)
	assert.Empty(t, fresh.Conversations)

	_, err = svc.Save(ctx, "b", models.ChatHistory{})
	assert.ErrorContains(t, err, "invalid chat history")
}
