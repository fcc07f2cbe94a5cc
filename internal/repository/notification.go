package repository

import (
	"context"

	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/repository/postgres"
)

const insertNotificationQuery = `
						INSERT INTO notifications (notification_uid, user_id, order_id, message)
						VALUES ($1, $2, $3, $4)
						RETURNING id, notification_uid, user_id, order_id, message, created_at
`

// NotificationRepository implements NotificationRepository interface
type NotificationRepository struct {
	db *postgres.DB
}

// NewNotificationRepository creates new NotificationRepository instance
func NewNotificationRepository(db *postgres.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts new notification
func (nr *NotificationRepository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	err := nr.db.QueryRow(ctx, insertNotificationQuery, notification.NotificationUID, notification.UserID, notification.OrderID, notification.Message).
		Scan(&notification.ID, &notification.NotificationUID, &notification.UserID, &notification.OrderID, &notification.Message, &notification.CreatedAt)
	if err != nil {
		if errCode := nr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return notification, nil
}
