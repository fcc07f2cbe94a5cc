package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopmart/shopmart/internal/gateway"
	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/service/mocks"
	"github.com/stretchr/testify/require"
)

// fakeGateway returns canned session statuses
type fakeGateway struct {
	statuses map[string]string
}

func (fg *fakeGateway) GetSessionStatus(_ context.Context, sessionID string) (*gateway.SessionStatus, error) {
	status, ok := fg.statuses[sessionID]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &gateway.SessionStatus{SessionID: sessionID, Status: status}, nil
}

func TestSettlementService_SettleSessions(t *testing.T) {
	ctrl := gomock.NewController(t)

	ordersMock := mocks.NewMockOrderRepository(ctrl)
	paymentsMock := mocks.NewMockPaymentRepository(ctrl)

	paymentsMock.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s1", models.PaymentStatusCompleted).
		Return(&models.Payment{SessionID: "s1", Status: models.PaymentStatusCompleted}, nil).Times(1)
	paymentsMock.EXPECT().UpdateStatusBySessionID(gomock.Any(), "s2", models.PaymentStatusFailed).
		Return(&models.Payment{SessionID: "s2", Status: models.PaymentStatusFailed}, nil).Times(1)

	gw := &fakeGateway{statuses: map[string]string{
		"s1": gateway.SessionStatusPaid,
		"s2": gateway.SessionStatusFailed,
		"s3": gateway.SessionStatusPending,
	}}

	svc := NewSettlementService(ordersMock, paymentsMock, gw)

	sessions := make(chan string, 3)
	sessions <- "s1"
	sessions <- "s2"
	sessions <- "s3" // still pending upstream, nothing to update
	close(sessions)

	svc.SettleSessions(context.Background(), sessions)
}

func TestSettlementService_GetSessionsForSettlement(t *testing.T) {
	ctrl := gomock.NewController(t)

	ordersMock := mocks.NewMockOrderRepository(ctrl)
	paymentsMock := mocks.NewMockPaymentRepository(ctrl)

	ordersMock.EXPECT().GetSessionsForSettlement(gomock.Any()).Return([]string{"s1", "s2"}, nil)

	svc := NewSettlementService(ordersMock, paymentsMock, &fakeGateway{})

	sessions := make(chan string, 10)
	err := svc.GetSessionsForSettlement(context.Background(), sessions)
	require.NoError(t, err)
	close(sessions)

	got := []string{}
	for session := range sessions {
		got = append(got, session)
	}
	require.Equal(t, []string{"s1", "s2"}, got)
}
