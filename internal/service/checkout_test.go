package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	orders    *mocks.MockOrderRepository
	payments  *mocks.MockPaymentRepository
	addresses *mocks.MockAddressRepository
	carts     *mocks.MockCartRepository
}

func newCheckoutMocks(t *testing.T) checkoutMocks {
	ctrl := gomock.NewController(t)
	return checkoutMocks{
		orders:    mocks.NewMockOrderRepository(ctrl),
		payments:  mocks.NewMockPaymentRepository(ctrl),
		addresses: mocks.NewMockAddressRepository(ctrl),
		carts:     mocks.NewMockCartRepository(ctrl),
	}
}

func (cm checkoutMocks) service() *CheckoutService {
	return NewCheckoutService(cm.orders, cm.payments, cm.addresses, cm.carts)
}

func TestCheckoutService_CompleteCheckout_NotAuthenticated(t *testing.T) {
	cm := newCheckoutMocks(t)

	// no collaborator may be touched
	cm.payments.EXPECT().GetBySessionID(gomock.Any(), gomock.Any()).Times(0)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), gomock.Any()).Times(0)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	cm.carts.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(0)

	result, err := cm.service().CompleteCheckout(context.Background(), 0, "s1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestCheckoutService_CompleteCheckout_AddressRequired(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1"}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusAwaitingConfirmation}, nil)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	cm.carts.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(0)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrAddressRequired)
}

func TestCheckoutService_CompleteCheckout_DegradedPathWithoutSession(t *testing.T) {
	cm := newCheckoutMocks(t)

	// no session id: payment lookup is skipped entirely
	cm.payments.EXPECT().GetBySessionID(gomock.Any(), gomock.Any()).Times(0)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), gomock.Not("")).
		Return(&models.Order{ID: 7, UserID: 1, Total: 500, Status: models.OrderStatusPending}, nil)
	cm.carts.EXPECT().Clear(gomock.Any(), uint64(1)).Return(nil).Times(1)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "")

	require.NoError(t, err)
	assert.Equal(t, uint64(7), result.OrderID)
	assert.Equal(t, int64(500), result.Total)

	step, ok := result.Step(StepPayment)
	require.True(t, ok)
	assert.Equal(t, StepSkipped, step.Outcome)
}

func TestCheckoutService_CompleteCheckout_PaymentUpdateFailureIsTolerated(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1"}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(nil, errors.New("payment service down"))
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), "s1").
		Return(&models.Order{ID: 8, UserID: 1, Total: 700, Status: models.OrderStatusPending}, nil).Times(1)
	cm.carts.EXPECT().Clear(gomock.Any(), uint64(1)).Return(nil)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	require.NoError(t, err)
	assert.Equal(t, uint64(8), result.OrderID)

	step, ok := result.Step(StepPayment)
	require.True(t, ok)
	assert.Equal(t, StepTolerated, step.Outcome)
	assert.Error(t, step.Err)
}

func TestCheckoutService_CompleteCheckout_CartClearFailureIsTolerated(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1"}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusAwaitingConfirmation}, nil)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), "s1").
		Return(&models.Order{ID: 9, UserID: 1, Total: 300, Status: models.OrderStatusPending}, nil)
	cm.carts.EXPECT().Clear(gomock.Any(), uint64(1)).Return(errors.New("cart service down"))

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	// the order outranks cart tidiness
	require.NoError(t, err)
	assert.Equal(t, uint64(9), result.OrderID)

	step, ok := result.Step(StepCart)
	require.True(t, ok)
	assert.Equal(t, StepTolerated, step.Outcome)
}

func TestCheckoutService_CompleteCheckout_Success(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1", UserID: 1}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusAwaitingConfirmation}, nil)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1, IsDefault: true}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), "s1").
		Return(&models.Order{ID: 42, UserID: 1, Total: 1999, Status: models.OrderStatusPending}, nil)
	cm.carts.EXPECT().Clear(gomock.Any(), uint64(1)).Return(nil).Times(1)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	require.NoError(t, err)
	assert.Equal(t, uint64(42), result.OrderID)
	assert.Equal(t, int64(1999), result.Total)

	for _, name := range []string{StepPayment, StepAddress, StepOrder, StepCart} {
		step, ok := result.Step(name)
		require.Truef(t, ok, "missing step %s", name)
		assert.Equalf(t, StepOK, step.Outcome, "step %s", name)
	}
}

func TestCheckoutService_CompleteCheckout_DuplicateReturnsExistingOrder(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1"}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusAwaitingConfirmation}, nil)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), "s1").Return(nil, models.ErrConflictData)
	cm.orders.EXPECT().GetByCheckoutRef(gomock.Any(), "s1").
		Return(&models.Order{ID: 42, UserID: 1, Total: 1999, Status: models.OrderStatusPending}, nil)
	cm.carts.EXPECT().Clear(gomock.Any(), uint64(1)).Return(nil)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	require.NoError(t, err)
	assert.Equal(t, uint64(42), result.OrderID)
	assert.Equal(t, int64(1999), result.Total)
}

func TestCheckoutService_CompleteCheckout_OrderCreationFailed(t *testing.T) {
	cm := newCheckoutMocks(t)

	cm.payments.EXPECT().GetBySessionID(gomock.Any(), "s1").Return(&models.Payment{SessionID: "s1"}, nil)
	cm.payments.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusAwaitingConfirmation).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusAwaitingConfirmation}, nil)
	cm.addresses.EXPECT().ListByUserID(gomock.Any(), uint64(1)).Return([]models.Address{{ID: 1, UserID: 1}}, nil)
	cm.orders.EXPECT().CreateFromCart(gomock.Any(), uint64(1), "s1").Return(nil, errors.New("database down"))
	cm.carts.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(0)

	result, err := cm.service().CompleteCheckout(context.Background(), 1, "s1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrOrderCreationFailed)
}
