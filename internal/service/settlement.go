package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopmart/shopmart/internal/gateway"
	"github.com/shopmart/shopmart/internal/logger"
	"github.com/shopmart/shopmart/internal/models"
	"go.uber.org/zap"
)

// PaymentGateway is interface to the external payment provider
type PaymentGateway interface {
	// GetSessionStatus returns settlement status of the checkout session
	GetSessionStatus(ctx context.Context, sessionID string) (*gateway.SessionStatus, error)
}

// SettlementService finalizes payments of delivered orders. Checkout only
// holds a payment in awaiting confirmation; once the order is delivered and
// the provider reports the session paid, the payment is settled here.
type SettlementService struct {
	orders   OrderRepository
	payments PaymentRepository
	gateway  PaymentGateway
}

// NewSettlementService creates new SettlementService instance
func NewSettlementService(orders OrderRepository, payments PaymentRepository, gateway PaymentGateway) *SettlementService {
	return &SettlementService{
		orders:   orders,
		payments: payments,
		gateway:  gateway,
	}
}

// SettleSessions settles payments for sessions received from the channel
func (ss *SettlementService) SettleSessions(ctx context.Context, sessionCh <-chan string) {
	for {
		var errTooManyReq models.TooManyRequestsError
		select {
		case <-ctx.Done():
			logger.Log.Debug("settlement is done")
			return
		case session, ok := <-sessionCh:
			if !ok {
				return
			}

			logger.Log.Debug("try settle session", zap.String("session", session))
			status, err := ss.gateway.GetSessionStatus(ctx, session)
			if err != nil {
				switch {
				case errors.As(err, &errTooManyReq):
					duration := errTooManyReq.RetryAfter
					logger.Log.Debug("too many requests", zap.Duration("retry-after", duration))
					time.Sleep(duration)
					return
				}
				logger.Log.Error("gateway request error", zap.Error(err))
				return
			}

			logger.Log.Debug("gateway response",
				zap.String("session", status.SessionID),
				zap.String("status", status.Status))

			switch status.Status {
			case gateway.SessionStatusPaid:
				if _, err := ss.payments.UpdateStatusBySessionID(ctx, session, models.PaymentStatusCompleted); err != nil {
					logger.Log.Error("settle payment", zap.String("session", session), zap.Error(err))
					return
				}
				logger.Log.Debug("payment settled", zap.String("session", session))
			case gateway.SessionStatusFailed:
				if _, err := ss.payments.UpdateStatusBySessionID(ctx, session, models.PaymentStatusFailed); err != nil {
					logger.Log.Error("mark payment failed", zap.String("session", session), zap.Error(err))
					return
				}
			}
		}
	}
}

// GetSessionsForSettlement writes sessions awaiting settlement to channel
func (ss *SettlementService) GetSessionsForSettlement(ctx context.Context, sessionCh chan<- string) error {
	sessions, err := ss.orders.GetSessionsForSettlement(ctx)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		sessionCh <- session
	}

	return nil
}
