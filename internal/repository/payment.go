package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/repository/postgres"
)

const (
	insertPaymentQuery = `
						INSERT INTO payments (payment_uid, session_id, user_id, amount, status)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id, payment_uid, session_id, user_id, amount, status, created_at, updated_at
`
	selectPaymentBySessionQuery = `
						SELECT id, payment_uid, session_id, user_id, amount, status, created_at, updated_at FROM payments
						WHERE session_id = $1
`
	updatePaymentStatusQuery = `
						UPDATE payments
						SET status = $1, updated_at = now()
						WHERE session_id = $2
						RETURNING id, payment_uid, session_id, user_id, amount, status, created_at, updated_at
`
)

// PaymentRepository implements PaymentRepository interface
type PaymentRepository struct {
	db *postgres.DB
}

// NewPaymentRepository creates new PaymentRepository instance
func NewPaymentRepository(db *postgres.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts new payment
func (pr *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	err := pr.db.QueryRow(ctx, insertPaymentQuery, payment.PaymentUID, payment.SessionID, payment.UserID, payment.Amount, payment.Status).
		Scan(&payment.ID, &payment.PaymentUID, &payment.SessionID, &payment.UserID, &payment.Amount, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return payment, nil
}

// GetBySessionID returns payment by the provider session id
func (pr *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	payment := models.Payment{}
	err := pr.db.QueryRow(ctx, selectPaymentBySessionQuery, sessionID).
		Scan(&payment.ID, &payment.PaymentUID, &payment.SessionID, &payment.UserID, &payment.Amount, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &payment, nil
}

// UpdateStatusBySessionID updates payment status by the provider session id
func (pr *PaymentRepository) UpdateStatusBySessionID(ctx context.Context, sessionID string, status models.PaymentStatus) (*models.Payment, error) {
	payment := models.Payment{}
	err := pr.db.QueryRow(ctx, updatePaymentStatusQuery, status, sessionID).
		Scan(&payment.ID, &payment.PaymentUID, &payment.SessionID, &payment.UserID, &payment.Amount, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &payment, nil
}
