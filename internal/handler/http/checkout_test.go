package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopmart/shopmart/internal/handler/http/mocks"
	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_CompleteCheckout(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		target         string
		setup          func(t *testing.T) *mocks.MockCheckoutService
		wantStatusCode int
		wantBody       *checkoutResponse
		wantErrCode    string
	}{
		{
			name: "valid_request_return_200",
			token: &models.TokenPayload{
				UserID: 1,
				Role:   models.RoleCustomer,
			},
			target: "/api/user/checkout/complete?session_id=s1",
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().CompleteCheckout(gomock.Any(), uint64(1), "s1").
					Return(&service.CheckoutResult{OrderID: 42, Total: 1999}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       &checkoutResponse{OrderID: 42, Total: 1999},
		},
		{
			name: "missing_session_id_still_completes",
			token: &models.TokenPayload{
				UserID: 1,
				Role:   models.RoleCustomer,
			},
			target: "/api/user/checkout/complete",
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().CompleteCheckout(gomock.Any(), uint64(1), "").
					Return(&service.CheckoutResult{OrderID: 7, Total: 500}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       &checkoutResponse{OrderID: 7, Total: 500},
		},
		{
			name:   "unauthorized_request_return_401",
			target: "/api/user/checkout/complete?session_id=s1",
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().CompleteCheckout(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "address_required_return_422",
			token: &models.TokenPayload{
				UserID: 1,
				Role:   models.RoleCustomer,
			},
			target: "/api/user/checkout/complete?session_id=s1",
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().CompleteCheckout(gomock.Any(), uint64(1), "s1").
					Return(nil, models.ErrAddressRequired).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantErrCode:    "address_required",
		},
		{
			name: "order_creation_failed_return_500",
			token: &models.TokenPayload{
				UserID: 1,
				Role:   models.RoleCustomer,
			},
			target: "/api/user/checkout/complete?session_id=s1",
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().CompleteCheckout(gomock.Any(), uint64(1), "s1").
					Return(nil, models.ErrOrderCreationFailed).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
			wantErrCode:    "order_creation_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, tt.target, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := req.Context()
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			h := NewCheckoutHandler(st).CompleteCheckout()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got checkoutResponse
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}

			if tt.wantErrCode != "" {
				var got errorResponse
				require.NoError(t, json.Unmarshal(resBody, &got))
				assert.Equal(t, tt.wantErrCode, got.Code)
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}

func TestCheckoutHandler_OrderCreationFailedMessageWarnsAboutRetry(t *testing.T) {
	ctrl := gomock.NewController(t)

	svcMock := mocks.NewMockCheckoutService(ctrl)
	svcMock.EXPECT().CompleteCheckout(gomock.Any(), uint64(1), "s1").
		Return(nil, models.ErrOrderCreationFailed)

	req := httptest.NewRequest(http.MethodPost, "/api/user/checkout/complete?session_id=s1", nil)
	ctx := context.WithValue(req.Context(), authPayloadKey, &models.TokenPayload{UserID: 1, Role: models.RoleCustomer})

	w := httptest.NewRecorder()
	h := NewCheckoutHandler(svcMock).CompleteCheckout()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()

	var got errorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	// the user must be steered to purchase history, not a blind retry
	assert.Contains(t, got.Message, "purchase history")
}
