package repository

import (
	"context"

	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/repository/postgres"
)

const selectAddressesByUserIDQuery = `
						SELECT id, user_id, recipient, line1, city, postal_code, is_default FROM addresses
						WHERE user_id = $1
						ORDER BY is_default DESC, id
`

// AddressRepository implements AddressRepository interface
type AddressRepository struct {
	db *postgres.DB
}

// NewAddressRepository creates new AddressRepository instance
func NewAddressRepository(db *postgres.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ListByUserID returns user addresses, default first
func (ar *AddressRepository) ListByUserID(ctx context.Context, userID uint64) ([]models.Address, error) {
	rows, err := ar.db.Query(ctx, selectAddressesByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.Address{}

	for rows.Next() {
		address := models.Address{}
		err = rows.Scan(&address.ID, &address.UserID, &address.Recipient, &address.Line1, &address.City, &address.PostalCode, &address.IsDefault)
		if err != nil {
			continue
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return addresses, nil
}
