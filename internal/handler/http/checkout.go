package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopmart/shopmart/internal/models"
	"github.com/shopmart/shopmart/internal/service"
)

type CheckoutService interface {
	// CompleteCheckout turns a paid cart into a persisted order
	CompleteCheckout(ctx context.Context, userID uint64, sessionID string) (*service.CheckoutResult, error)
}

// CheckoutHandler represents HTTP handler for checkout-related requests
type CheckoutHandler struct {
	svc CheckoutService
}

// NewCheckoutHandler creates new CheckoutHandler instance
func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutResponse struct {
	OrderID uint64 `json:"order"`
	Total   int64  `json:"total"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}

// CompleteCheckout finalizes checkout after the user returns from the
// payment provider. The session id query parameter may be missing.
// 200 — order created, body carries order id and total.
// 401 — user is not authenticated.
// 422 — no shipping address on file, client must route to address creation.
// 500 — order creation failed or internal error.
func (ch *CheckoutHandler) CompleteCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := r.URL.Query().Get("session_id")

		result, err := ch.svc.CompleteCheckout(r.Context(), payload.UserID, sessionID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotAuthenticated):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			case errors.Is(err, models.ErrAddressRequired):
				writeError(w, http.StatusUnprocessableEntity, "address_required",
					"add a shipping address to finish checkout")
			case errors.Is(err, models.ErrOrderCreationFailed):
				writeError(w, http.StatusInternalServerError, "order_creation_failed",
					"we could not create your order, but your payment may have succeeded; check your purchase history before trying again")
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		checkoutResp := checkoutResponse{
			OrderID: result.OrderID,
			Total:   result.Total,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(checkoutResp); err != nil {
			return
		}
	}
}
