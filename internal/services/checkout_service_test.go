package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"laoud/internal/cart"
	"laoud/internal/checkout"
	"laoud/internal/models"
	"laoud/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of services.OrderEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Append(ctx context.Context, session string, order models.Order) error {
	args := m.Called(ctx, session, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAll(ctx context.Context, session string) ([]models.Order, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

var checkoutNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func shippingInfo() models.ShippingInfo {
	return models.ShippingInfo{
		FirstName:  "Amira",
		LastName:   "Daniels",
		Email:      "amira@example.com",
		Phone:      "0821234567",
		Address:    "12 Long Street",
		City:       "Cape Town",
		PostalCode: "8001",
		Country:    "South Africa",
	}
}

func cardForm() checkout.PaymentForm {
	return checkout.PaymentForm{
		Method: models.PaymentCard,
		Card: &checkout.CardDetails{
			Number: "4111 1111 1111 1111",
			Expiry: "12/30",
			CVV:    "123",
			Name:   "A Daniels",
		},
	}
}

func newCheckout(t *testing.T, f fixture, opts ...services.CheckoutOption) *services.CheckoutService {
	t.Helper()
	opts = append([]services.CheckoutOption{
		services.WithClock(func() time.Time { return checkoutNow }),
		services.WithDelays(services.Delays{}),
	}, opts...)
	svc, err := services.NewCheckoutService(f.carts, f.orders, f.analytics, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return svc
}

// readyForSubmit fills a cart and walks the flow to a confirmed review.
func readyForSubmit(t *testing.T, f fixture, svc *services.CheckoutService, session string, form checkout.PaymentForm) checkout.Review {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, session, 1, "100ml", 2)
	require.NoError(t, err)
	_, err = svc.Begin(ctx, session)
	require.NoError(t, err)
	_, err = svc.SubmitShipping(session, shippingInfo())
	require.NoError(t, err)
	_, err = svc.ChoosePayment(session, form)
	require.NoError(t, err)
	review, err := svc.ConfirmReview(ctx, session)
	require.NoError(t, err)
	return review
}

func TestCheckoutService_PlaceCardOrder(t *testing.T) {
	f := newFixture()
	pub := new(MockPublisher)
	svc := newCheckout(t, f, services.WithPublisher(pub))
	ctx := context.Background()

	review := readyForSubmit(t, f, svc, "b", cardForm())
	assert.Equal(t, "Payment: Card ending in 1111", review.PaymentLine)
	require.Len(t, review.Items, 1)
	assert.Equal(t, "R800.00", review.Items[0].LineTotal)

	pub.On("PublishOrderPlaced", mock.AnythingOfType("models.Order")).Return(nil).Once()

	placed, err := svc.PlaceOrder(ctx, "b")
	require.NoError(t, err)

	order := placed.Order
	assert.Equal(t, cart.OrderNumber(checkoutNow), order.OrderNumber)
	assert.True(t, decimal.NewFromInt(920).Equal(order.Total))
	assert.Equal(t, "**** **** **** 1111", order.Payment.CardNumber)
	assert.Equal(t, "***", order.Payment.CVV)
	assert.Equal(t, models.PaymentStatusCompleted, order.Payment.Status)
	assert.Equal(t, "Order #"+order.OrderNumber+" placed successfully! You will receive a confirmation email shortly.", placed.Message)

	assert.Empty(t, f.carts.View(ctx, "b").Items)
	assert.Equal(t, checkout.StepOrderPlaced, svc.State("b").Step)

	orders, err := svc.Orders(ctx, "b")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	events := f.analytics.Recent(ctx, "b")
	require.NotEmpty(t, events)
	assert.Equal(t, services.EventOrderPlaced, events[len(events)-1].Event)
	pub.AssertExpectations(t)

	_, err = svc.PlaceOrder(ctx, "b")
	assert.ErrorIs(t, err, checkout.ErrAlreadyPlaced)
}

func TestCheckoutService_BankTransferStaysPending(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f)
	ctx := context.Background()

	review := readyForSubmit(t, f, svc, "b", checkout.PaymentForm{Method: models.PaymentBank})
	ref := svc.State("b").BankReference
	assert.Equal(t, checkout.BankReference(checkoutNow), ref)
	assert.Equal(t, "Payment: Bank Transfer (Ref: "+ref+")", review.PaymentLine)

	placed, err := svc.PlaceOrder(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeBankTransfer, placed.Order.Payment.Type)
	assert.Equal(t, models.PaymentStatusPendingPayment, placed.Order.Payment.Status)
	assert.Equal(t, ref, placed.Order.Payment.OrderReference)
	assert.Contains(t, placed.Message, "R920.00")
	assert.Contains(t, placed.Message, ref)
}

func TestCheckoutService_BeginNeedsItems(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f)

	_, err := svc.Begin(context.Background(), "b")
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	_, err = svc.SubmitShipping("b", shippingInfo())
	assert.ErrorIs(t, err, checkout.ErrNotStarted)
}

func TestCheckoutService_InvalidShipping(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "b", 1, "100ml", 1)
	require.NoError(t, err)
	_, err = svc.Begin(ctx, "b")
	require.NoError(t, err)

	info := shippingInfo()
	info.Email = "not-an-email"
	state, err := svc.SubmitShipping("b", info)

	var verr *checkout.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Equal(t, checkout.StepCart, state.Step)
}

func TestCheckoutService_FailedAppendKeepsCart(t *testing.T) {
	f := newFixture()
	orders := new(MockOrderRepository)
	svc, err := services.NewCheckoutService(f.carts, orders, nil, zerolog.Nop(),
		services.WithClock(func() time.Time { return checkoutNow }),
		services.WithDelays(services.Delays{}))
	require.NoError(t, err)
	ctx := context.Background()

	readyForSubmit(t, f, svc, "b", checkout.PaymentForm{Method: models.PaymentPayPal})

	orders.On("Append", mock.Anything, "b", mock.AnythingOfType("models.Order")).Return(errors.New("quota exceeded")).Once()

	_, err = svc.PlaceOrder(ctx, "b")
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Len(t, f.carts.View(ctx, "b").Items, 1)

	state := svc.State("b")
	assert.Equal(t, checkout.StepReviewConfirmed, state.Step)
	assert.False(t, state.Submitting)

	orders.On("Append", mock.Anything, "b", mock.AnythingOfType("models.Order")).Return(nil).Once()
	placed, err := svc.PlaceOrder(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, placed.Order.Payment.Status)
	orders.AssertExpectations(t)
}

func TestCheckoutService_SingleSubmission(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f, services.WithDelays(services.Delays{Card: 200 * time.Millisecond}))
	ctx := context.Background()

	readyForSubmit(t, f, svc, "b", cardForm())

	done := make(chan error, 1)
	go func() {
		_, err := svc.PlaceOrder(ctx, "b")
		done <- err
	}()

	require.Eventually(t, func() bool { return svc.State("b").Submitting }, time.Second, 5*time.Millisecond)

	_, err := svc.PlaceOrder(ctx, "b")
	assert.ErrorIs(t, err, checkout.ErrSubmitInProgress)
	_, err = svc.Back("b", checkout.StepCart)
	assert.ErrorIs(t, err, checkout.ErrSubmitInProgress)

	require.NoError(t, <-done)
	orders, err := svc.Orders(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutService_CancelledProcessing(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f, services.WithDelays(services.Delays{Card: time.Hour}))

	readyForSubmit(t, f, svc, "b", cardForm())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for !svc.State("b").Submitting {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := svc.PlaceOrder(ctx, "b")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.State("b").Submitting)
	assert.Len(t, f.carts.View(context.Background(), "b").Items, 1)
}

func TestCheckoutService_BackKeepsData(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f)

	readyForSubmit(t, f, svc, "b", cardForm())

	state, err := svc.Back("b", checkout.StepCart)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepCart, state.Step)
	assert.Equal(t, "Amira", state.Shipping.FirstName)
	assert.Equal(t, models.PaymentCard, state.PaymentMethod)

	_, err = svc.PlaceOrder(context.Background(), "b")
	assert.ErrorIs(t, err, checkout.ErrStepNotReached)
}

func TestCheckoutService_CartChangedAfterReview(t *testing.T) {
	f := newFixture()
	pub := new(MockPublisher)
	svc := newCheckout(t, f, services.WithPublisher(pub))
	ctx := context.Background()

	review := readyForSubmit(t, f, svc, "b", cardForm())
	assert.True(t, decimal.NewFromInt(920).Equal(review.Totals.Total))

	_, err := f.carts.AddItem(ctx, "b", 1, "100ml", 8)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, "b")
	assert.ErrorIs(t, err, checkout.ErrCartChanged)
	assert.ErrorIs(t, err, checkout.ErrStepNotReached)
	assert.Equal(t, checkout.StepPaymentChosen, svc.State("b").Step)
	assert.False(t, svc.State("b").Submitting)
	assert.Equal(t, 10, f.carts.View(ctx, "b").Count)

	orders, err := svc.Orders(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, orders)
	pub.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything)

	review, err = svc.ConfirmReview(ctx, "b")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4600).Equal(review.Totals.Total))

	pub.On("PublishOrderPlaced", mock.AnythingOfType("models.Order")).Return(nil).Once()
	placed, err := svc.PlaceOrder(ctx, "b")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4600).Equal(placed.Order.Total))
	pub.AssertExpectations(t)
}

func TestCheckoutService_CartChangedDuringProcessing(t *testing.T) {
	f := newFixture()
	svc := newCheckout(t, f, services.WithDelays(services.Delays{Card: 200 * time.Millisecond}))
	ctx := context.Background()

	readyForSubmit(t, f, svc, "b", cardForm())

	done := make(chan error, 1)
	go func() {
		_, err := svc.PlaceOrder(ctx, "b")
		done <- err
	}()
	require.Eventually(t, func() bool { return svc.State("b").Submitting }, time.Second, 5*time.Millisecond)

	_, err := f.carts.RemoveItem(ctx, "b", 1, "100ml")
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "b", 2, "50ml", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, checkout.ErrCartChanged)
	assert.Equal(t, checkout.StepPaymentChosen, svc.State("b").Step)
	orders, err := svc.Orders(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
