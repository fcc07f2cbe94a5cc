package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmart/shopmart/internal/logger"
	"github.com/shopmart/shopmart/internal/models"
	"go.uber.org/zap"
)

// PaymentRepository is interface for interacting with payment-related data
type PaymentRepository interface {
	// GetBySessionID returns payment by the provider session id
	GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	// UpdateStatusBySessionID updates payment status by the provider session id
	UpdateStatusBySessionID(ctx context.Context, sessionID string, status models.PaymentStatus) (*models.Payment, error)
}

// AddressRepository is interface for interacting with address-related data
type AddressRepository interface {
	// ListByUserID returns user addresses, default first
	ListByUserID(ctx context.Context, userID uint64) ([]models.Address, error)
}

// CartRepository is interface for interacting with cart-related data
type CartRepository interface {
	// Clear removes all cart items of the user
	Clear(ctx context.Context, userID uint64) error
}

// StepOutcome is the result of a single checkout step.
type StepOutcome string

const (
	StepOK StepOutcome = "ok"
	// StepSkipped marks a step that did not apply, e.g. the payment update
	// when the provider return dropped the session id.
	StepSkipped StepOutcome = "skipped"
	// StepTolerated marks a best-effort step that failed without aborting
	// the checkout.
	StepTolerated StepOutcome = "tolerated_error"
)

// checkout step names
const (
	StepPayment = "payment"
	StepAddress = "address"
	StepOrder   = "order"
	StepCart    = "cart"
)

// CheckoutStep records outcome of one checkout step.
type CheckoutStep struct {
	Name    string
	Outcome StepOutcome
	Err     error
}

// CheckoutResult is the outcome of a completed checkout.
type CheckoutResult struct {
	OrderID uint64
	Total   int64
	Steps   []CheckoutStep
}

func (cr *CheckoutResult) step(name string, outcome StepOutcome, err error) {
	cr.Steps = append(cr.Steps, CheckoutStep{Name: name, Outcome: outcome, Err: err})
}

// Step returns the recorded outcome of the named step.
func (cr *CheckoutResult) Step(name string) (CheckoutStep, bool) {
	for _, s := range cr.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return CheckoutStep{}, false
}

// CheckoutService finalizes checkout after the user returns from the
// external payment provider.
type CheckoutService struct {
	orders    OrderRepository
	payments  PaymentRepository
	addresses AddressRepository
	carts     CartRepository
}

// NewCheckoutService creates new CheckoutService instance
func NewCheckoutService(orders OrderRepository, payments PaymentRepository, addresses AddressRepository, carts CartRepository) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		payments:  payments,
		addresses: addresses,
		carts:     carts,
	}
}

// CompleteCheckout turns a paid cart into a persisted order and clears the
// cart. sessionID may be empty when the provider redirect dropped it; the
// checkout still goes through so the paid amount is not lost behind a
// missing query parameter. Returns ErrNotAuthenticated for an unknown user,
// ErrAddressRequired when no shipping address is on file and
// ErrOrderCreationFailed when the order could not be persisted.
func (cs *CheckoutService) CompleteCheckout(ctx context.Context, userID uint64, sessionID string) (*CheckoutResult, error) {
	if userID == 0 {
		return nil, models.ErrNotAuthenticated
	}

	result := &CheckoutResult{}

	// The payment is never marked completed here, settlement is finalized
	// after delivery. A failed update must not abort the checkout: the
	// payment may already be valid upstream.
	if sessionID == "" {
		result.step(StepPayment, StepSkipped, nil)
	} else if err := cs.holdPayment(ctx, sessionID); err != nil {
		logger.Log.Warn("payment status update failed, continuing checkout",
			zap.String("session", sessionID),
			zap.Error(err))
		result.step(StepPayment, StepTolerated, err)
	} else {
		result.step(StepPayment, StepOK, nil)
	}

	addresses, err := cs.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, models.ErrAddressRequired
	}
	result.step(StepAddress, StepOK, nil)

	// checkout reference doubles as idempotency key, keyed on the payment
	// session when the provider returned one
	checkoutRef := sessionID
	if checkoutRef == "" {
		checkoutRef = uuid.NewString()
	}

	order, err := cs.orders.CreateFromCart(ctx, userID, checkoutRef)
	if errors.Is(err, models.ErrConflictData) {
		// checkout already completed for this session, e.g. the user
		// refreshed the success page
		order, err = cs.orders.GetByCheckoutRef(ctx, checkoutRef)
	}
	if err != nil {
		logger.Log.Error("order creation failed",
			zap.Uint64("user", userID),
			zap.String("session", sessionID),
			zap.Error(err))
		return nil, models.ErrOrderCreationFailed
	}
	result.step(StepOrder, StepOK, nil)

	// the order exists, a dirty cart is not worth rolling it back for
	if err := cs.carts.Clear(ctx, userID); err != nil {
		logger.Log.Warn("cart clear failed after order creation",
			zap.Uint64("user", userID),
			zap.Uint64("order", order.ID),
			zap.Error(err))
		result.step(StepCart, StepTolerated, err)
	} else {
		result.step(StepCart, StepOK, nil)
	}

	result.OrderID = order.ID
	result.Total = order.Total

	return result, nil
}

// holdPayment moves the payment of the session to awaiting confirmation
func (cs *CheckoutService) holdPayment(ctx context.Context, sessionID string) error {
	if _, err := cs.payments.GetBySessionID(ctx, sessionID); err != nil {
		return err
	}

	_, err := cs.payments.UpdateStatusBySessionID(ctx, sessionID, models.PaymentStatusAwaitingConfirmation)
	return err
}
