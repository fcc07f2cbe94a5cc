package repository

import (
	"context"

	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/repository/postgres"
)

const (
	selectCartByUserIDQuery = `
						SELECT id, user_id, product_name, price, quantity FROM cart_items
						WHERE user_id = $1
						ORDER BY id
`
	deleteCartByUserIDQuery = `
						DELETE FROM cart_items
						WHERE user_id = $1
`
)

// CartRepository implements CartRepository interface
type CartRepository struct {
	db *postgres.DB
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(db *postgres.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByUserID returns cart items of the user
func (cr *CartRepository) GetByUserID(ctx context.Context, userID uint64) ([]models.CartItem, error) {
	rows, err := cr.db.Query(ctx, selectCartByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

	return items, nil
}

// Clear removes all cart items of the user. Clearing an already empty cart
// is not an error.
func (cr *CartRepository) Clear(ctx context.Context, userID uint64) error {
	_, err := cr.db.Exec(ctx, deleteCartByUserIDQuery, userID)
	return err
}
