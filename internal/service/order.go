package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmart/shopmart/internal/logger"
	"github.com/shopmart/shopmart/internal/models"
	"go.uber.org/zap"
)

// estimated delivery window relative to the shipping moment
const (
	deliveryWindowFrom = 3 * 24 * time.Hour
	deliveryWindowTo   = 5 * 24 * time.Hour
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateFromCart creates order from the user's current cart and address
	CreateFromCart(ctx context.Context, userID uint64, checkoutRef string) (*models.Order, error)
	// GetByCheckoutRef returns order by its checkout reference
	GetByCheckoutRef(ctx context.Context, checkoutRef string) (*models.Order, error)
	// GetByID returns order by id
	GetByID(ctx context.Context, orderID uint64) (*models.Order, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// GetOrders returns all orders
	GetOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrderStatus moves order to a new status if it still has the expected one
	UpdateOrderStatus(ctx context.Context, orderID uint64, from, to models.OrderStatus) (*models.Order, error)
	// GetSessionsForSettlement returns sessions of delivered orders awaiting settlement
	GetSessionsForSettlement(ctx context.Context) ([]string, error)
}

// NotificationRepository is interface for interacting with notification-related data
type NotificationRepository interface {
	// Create inserts new notification
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo          OrderRepository
	notifications NotificationRepository
	now           func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, notifications NotificationRepository) *OrderService {
	return &OrderService{
		repo:          repo,
		notifications: notifications,
		now:           time.Now,
	}
}

// GetOrder returns order by id
func (os *OrderService) GetOrder(ctx context.Context, orderID uint64) (*models.Order, error) {
	return os.repo.GetByID(ctx, orderID)
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.repo.GetOrdersByUserID(ctx, userID)
}

// ListOrders returns all orders for the vendor view
func (os *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return os.repo.GetOrders(ctx)
}

// NextStatuses returns statuses the role may move an order with the given
// status to
func (os *OrderService) NextStatuses(current models.OrderStatus, role models.Role) []models.OrderStatus {
	return models.NextStatuses(current, role)
}

// ApplyStatusTransition moves the order from current to target status on
// behalf of the role. Illegal transitions are rejected before touching the
// repository. The returned order carries the confirmed server state, the
// caller must not keep the attempted status on failure.
func (os *OrderService) ApplyStatusTransition(ctx context.Context, orderID uint64, current, target models.OrderStatus, role models.Role) (*models.Order, error) {
	if !current.Valid() || !target.Valid() {
		return nil, models.ErrInvalidOrderStatus
	}

	if !models.AllowedTransition(current, target, role) {
		return nil, models.ErrTransitionNotAllowed
	}

	order, err := os.repo.UpdateOrderStatus(ctx, orderID, current, target)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusShipped {
		os.notifyShipped(ctx, order)
	}

	return order, nil
}

// notifyShipped records a delivery window notification for the customer.
// The window is computed at the shipping moment, it is not stored on the
// order. Best-effort: a failed insert only gets logged.
func (os *OrderService) notifyShipped(ctx context.Context, order *models.Order) {
	from := os.now().Add(deliveryWindowFrom)
	to := os.now().Add(deliveryWindowTo)

	notification := models.Notification{
		NotificationUID: uuid.NewString(),
		UserID:          order.UserID,
		OrderID:         order.ID,
		Message: fmt.Sprintf("Your order #%d has shipped. Estimated delivery between %s and %s.",
			order.ID, from.Format("January 2"), to.Format("January 2")),
	}

	if _, err := os.notifications.Create(ctx, &notification); err != nil {
		logger.Log.Warn("shipped notification failed",
			zap.Uint64("order", order.ID),
			zap.Error(err))
	}
}
