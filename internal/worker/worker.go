package worker

import (
	"context"
	"time"

	"github.com/shopmart/shopmart/internal/logger"
)

type SettlementService interface {
	SettleSessions(ctx context.Context, sessionCh <-chan string)
	GetSessionsForSettlement(ctx context.Context, sessionCh chan<- string) error
}

// SettlementProcessor is worker finalizing payments of delivered orders
type SettlementProcessor struct {
	svc SettlementService
}

// NewSettlementProcessor creates new settlement processor
func NewSettlementProcessor(svc SettlementService) *SettlementProcessor {
	return &SettlementProcessor{svc: svc}
}

// ProcessSettlements periodically collects sessions awaiting settlement and
// settles them
func (sp *SettlementProcessor) ProcessSettlements(ctx context.Context) {
	sessions := make(chan string, 10)

	go sp.svc.SettleSessions(ctx, sessions)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("settlement processor is done")
			return
		case <-ticker.C:
			if err := sp.svc.GetSessionsForSettlement(ctx, sessions); err != nil {
				logger.Log.Error("error get sessions for settlement")
			}
		}
	}
}
