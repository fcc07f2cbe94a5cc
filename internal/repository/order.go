package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (user_id, status, total, checkout_ref, shipping_address)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_name, price, quantity)
						VALUES ($1, $2, $3, $4)
`
	selectCartItemsQuery = `
						SELECT id, user_id, product_name, price, quantity FROM cart_items
						WHERE user_id = $1
						ORDER BY id
`
	selectShippingAddressQuery = `
						SELECT recipient, line1, city, postal_code FROM addresses
						WHERE user_id = $1
						ORDER BY is_default DESC, id
						LIMIT 1
`
	selectOrderByIDQuery = `
						SELECT id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at FROM orders
						WHERE id = $1
`
	selectOrderByRefQuery = `
						SELECT id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at FROM orders
						WHERE checkout_ref = $1
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectOrdersQuery = `
						SELECT id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at FROM orders
						ORDER BY created_at DESC
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = now()
						WHERE id = $2 AND status = $3
						RETURNING id, user_id, status, total, checkout_ref, shipping_address, created_at, updated_at
`
	selectSessionsForSettlementQuery = `
						SELECT p.session_id FROM payments p
						JOIN orders o ON o.checkout_ref = p.session_id
						WHERE o.status = 'DELIVERED' AND p.status = 'AWAITING_CONFIRMATION'
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart creates order from the user's current cart and shipping
// address inside a single transaction. The checkout reference is unique,
// creating the same checkout twice returns ErrConflictData.
func (or *OrderRepository) CreateFromCart(ctx context.Context, userID uint64, checkoutRef string) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, selectCartItemsQuery, userID)
	if err != nil {
		return nil, err
	}

	items := []models.CartItem{}
	for rows.Next() {
		item := models.CartItem{}
		err = rows.Scan(&item.ID, &item.UserID, &item.ProductName, &item.Price, &item.Quantity)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, models.ErrCartEmpty
	}

	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}

	var recipient, line1, city, postalCode string
	err = tx.QueryRow(ctx, selectShippingAddressQuery, userID).Scan(&recipient, &line1, &city, &postalCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAddressRequired
		}
		return nil, err
	}
	shippingAddress := fmt.Sprintf("%s, %s, %s %s", recipient, line1, city, postalCode)

	order := models.Order{}
	err = tx.QueryRow(ctx, insertOrderQuery, userID, models.OrderStatusPending, total, checkoutRef, shippingAddress).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for _, item := range items {
		orderItem := models.OrderItem{
			OrderID:     order.ID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
		if _, err := tx.Exec(ctx, insertOrderItemQuery, order.ID, item.ProductName, item.Price, item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, orderItem)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetByID returns order by id
func (or *OrderRepository) GetByID(ctx context.Context, orderID uint64) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, orderID).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetByCheckoutRef returns order by its checkout reference
func (or *OrderRepository) GetByCheckoutRef(ctx context.Context, checkoutRef string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByRefQuery, checkoutRef).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByUserID gets user orders
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrders returns all orders, newest first
func (or *OrderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus moves order to a new status only if it still has the
// expected one. Returns ErrStatusConflict when another actor got there first.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, from, to models.OrderStatus) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, updateOrderStatusQuery, to, orderID, from).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CheckoutRef, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrStatusConflict
		}
		return nil, err
	}

	return &order, nil
}

// GetSessionsForSettlement returns payment sessions of delivered orders
// whose payments are still awaiting confirmation
func (or *OrderRepository) GetSessionsForSettlement(ctx context.Context) ([]string, error) {
	rows, err := or.db.Query(ctx, selectSessionsForSettlementQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []string{}

	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			continue
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
