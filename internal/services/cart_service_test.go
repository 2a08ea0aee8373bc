package services_test

import (
	"context"
	"errors"
	"testing"

	"laoud/internal/cart"
	"laoud/internal/models"
	"laoud/internal/repositories"
	"laoud/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storeProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "SHAGHAF OUD [SWISS ARABIAN]", Category: "swiss-arabian", Price: 400, Image: "/images/shaghaf-oud.jpg", Sizes: []string{"100ml"}, InStock: true},
		{ID: 2, Name: "ASAD [LATTAFA]", Category: "lattafa", Price: 300, Image: "/images/asad.jpg", Sizes: []string{"50ml", "100ml"}, InStock: true},
		{ID: 3, Name: "HAYA [LATTAFA]", Category: "lattafa", Price: 480, Image: "/images/haya.jpg", Sizes: []string{"100ml"}, InStock: false},
	}
}

type fixture struct {
	store     *repositories.MemoryStateStore
	carts     *services.CartService
	analytics *services.AnalyticsService
	orders    *repositories.StateOrderRepository
}

func newFixture() fixture {
	store := repositories.NewMemoryStateStore()
	products := repositories.NewCatalogProductRepository(storeProducts())
	analytics := services.NewAnalyticsService(repositories.NewStateAnalyticsRepository(store), zerolog.Nop())
	carts := services.NewCartService(products, repositories.NewStateCartRepository(store), analytics, zerolog.Nop())
	return fixture{
		store:     store,
		carts:     carts,
		analytics: analytics,
		orders:    repositories.NewStateOrderRepository(store, zerolog.Nop()),
	}
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Load(ctx context.Context, session string) (cart.State, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, session string, state cart.State) error {
	args := m.Called(ctx, session, state)
	return args.Error(0)
}

func TestCartService_AddItemPersists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	view, err := f.carts.AddItem(ctx, "browser-1", 2, "50ml", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.True(t, decimal.NewFromInt(600).Equal(view.Totals.Subtotal))

	again := f.carts.View(ctx, "browser-1")
	require.Len(t, again.Items, 1)
	assert.Equal(t, "ASAD [LATTAFA]", again.Items[0].Name)
	assert.Equal(t, 2, again.Items[0].Quantity)

	other := f.carts.View(ctx, "browser-2")
	assert.Empty(t, other.Items)
	assert.NotNil(t, other.Items)

	events := f.analytics.Recent(ctx, "browser-1")
	require.Len(t, events, 1)
	assert.Equal(t, services.EventAddToCart, events[0].Event)
}

func TestCartService_RejectedChangeIsNotSaved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "browser-1", 1, "", 1)
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, "browser-1", 3, "100ml", 1)
	assert.ErrorIs(t, err, cart.ErrProductUnavailable)

	_, err = f.carts.AddItem(ctx, "browser-1", 1, "5ml", 1)
	assert.ErrorIs(t, err, cart.ErrInvalidSize)

	view := f.carts.View(ctx, "browser-1")
	assert.Equal(t, 1, view.Count)
	assert.Len(t, f.analytics.Recent(ctx, "browser-1"), 1)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "b", 2, "100ml", 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "b", 1, "100ml", 1)
	require.NoError(t, err)

	view, err := f.carts.UpdateQuantity(ctx, "b", 2, "100ml", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Count)

	_, err = f.carts.UpdateQuantity(ctx, "b", 2, "100ml", 11)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	view, err = f.carts.RemoveItem(ctx, "b", 1, "100ml")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].ProductID)

	view, err = f.carts.UpdateQuantity(ctx, "b", 2, "100ml", 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Empty(t, f.carts.View(ctx, "b").Items)
}

func TestCartService_ApplyCoupon(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "b", 1, "100ml", 2)
	require.NoError(t, err)

	res, err := f.carts.ApplyCoupon(ctx, "b", "  ")
	require.NoError(t, err)
	assert.Equal(t, services.MsgEnterCoupon, res.Message)
	assert.False(t, res.Applied)

	res, err = f.carts.ApplyCoupon(ctx, "b", "save20")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "20% off orders over R1000", res.Message)
	require.NotNil(t, res.Cart.Coupon)
	assert.Equal(t, "SAVE20", res.Cart.Coupon.Code)

	res, err = f.carts.ApplyCoupon(ctx, "b", "BOGUS")
	require.NoError(t, err)
	assert.Equal(t, services.MsgInvalidCoupon, res.Message)
	require.NotNil(t, res.Cart.Coupon)
	assert.Equal(t, "SAVE20", res.Cart.Coupon.Code)

	stored := f.carts.View(ctx, "b")
	require.NotNil(t, stored.Coupon)
	assert.Equal(t, "SAVE20", stored.Coupon.Code)

	view, err := f.carts.ClearCoupon(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, view.Coupon)
	assert.Nil(t, f.carts.View(ctx, "b").Coupon)
}

func TestCartService_StorageFailures(t *testing.T) {
	repo := new(MockCartRepository)
	products := repositories.NewCatalogProductRepository(storeProducts())
	carts := services.NewCartService(products, repo, nil, zerolog.Nop())
	ctx := context.Background()

	repo.On("Load", mock.Anything, "b").Return(cart.State{}, errors.New("corrupt entry")).Once()
	repo.On("Save", mock.Anything, "b", mock.AnythingOfType("cart.State")).Return(errors.New("quota exceeded")).Once()

	view, err := carts.AddItem(ctx, "b", 1, "100ml", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	repo.AssertExpectations(t)
}
