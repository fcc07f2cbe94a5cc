package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/shopmart/internal/models"
)

type OrderService interface {
	// GetOrder returns order by id
	GetOrder(ctx context.Context, orderID uint64) (*models.Order, error)
	// ListUserOrders returns list of user orders
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	// ListOrders returns all orders for the vendor view
	ListOrders(ctx context.Context) ([]models.Order, error)
	// NextStatuses returns statuses the role may move an order to
	NextStatuses(current models.OrderStatus, role models.Role) []models.OrderStatus
	// ApplyStatusTransition moves the order to the target status on behalf of the role
	ApplyStatusTransition(ctx context.Context, orderID uint64, current, target models.OrderStatus, role models.Role) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID        uint64 `json:"id"`
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:        order.ID,
		Status:    order.Status.String(),
		Total:     order.Total,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		UpdatedAt: order.UpdatedAt.Format(time.RFC3339),
	}
}

func orderIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
}

// ListUserOrders returns orders of the authenticated customer
// 200 — list of orders.
// 204 — user has no orders.
// 401 — user is not authenticated.
// 500 — internal error.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "no content", http.StatusNoContent)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, newOrderResponse(&order))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// GetUserOrder returns one order of the authenticated customer
// 200 — order found.
// 401 — user is not authenticated.
// 404 — order not found or belongs to another user.
// 500 — internal error.
func (oh *OrderHandler) GetUserOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// orders of other users are indistinguishable from missing ones
		if order.UserID != payload.UserID {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(newOrderResponse(order)); err != nil {
			return
		}
	}
}

// CancelUserOrder cancels a pending order on behalf of the customer. The
// current status is re-read from the server, not taken from the client.
// 200 — order cancelled, body carries the confirmed order.
// 401 — user is not authenticated.
// 404 — order not found or belongs to another user.
// 409 — another actor changed the status first.
// 422 — order is no longer cancellable.
// 500 — internal error.
func (oh *OrderHandler) CancelUserOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if order.UserID != payload.UserID {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		updated, err := oh.svc.ApplyStatusTransition(r.Context(), orderID, order.Status, models.OrderStatusCancelled, models.RoleCustomer)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrTransitionNotAllowed):
				http.Error(w, "order can no longer be cancelled", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrStatusConflict):
				http.Error(w, "order status has changed", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(newOrderResponse(updated)); err != nil {
			return
		}
	}
}

// ListVendorOrders returns all orders for the vendor view
// 200 — list of orders.
// 204 — no orders.
// 401 — user is not authenticated.
// 403 — user is not a vendor.
// 500 — internal error.
func (oh *OrderHandler) ListVendorOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if payload.Role != models.RoleVendor {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		orders, err := oh.svc.ListOrders(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, newOrderResponse(&order))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type transitionsResponse struct {
	Status string   `json:"status"`
	Next   []string `json:"next"`
}

// VendorOrderTransitions returns statuses the vendor may move the order to
// 200 — current status and legal next statuses.
// 401 — user is not authenticated.
// 403 — user is not a vendor.
// 404 — order not found.
// 500 — internal error.
func (oh *OrderHandler) VendorOrderTransitions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if payload.Role != models.RoleVendor {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		next := oh.svc.NextStatuses(order.Status, models.RoleVendor)

		resp := transitionsResponse{
			Status: order.Status.String(),
			Next:   make([]string, 0, len(next)),
		}
		for _, status := range next {
			resp.Next = append(resp.Next, status.String())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type updateStatusRequest struct {
	Status        string `json:"status"`
	CurrentStatus string `json:"current_status"`
}

// UpdateVendorOrderStatus moves the order forward or cancels it on behalf of
// the vendor. Illegal transitions are rejected without touching the order.
// 200 — status updated, body carries the confirmed order.
// 400 — malformed request.
// 401 — user is not authenticated.
// 403 — user is not a vendor.
// 404 — order not found.
// 409 — another actor changed the status first.
// 422 — unknown status or transition not allowed.
// 500 — internal error.
func (oh *OrderHandler) UpdateVendorOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if payload.Role != models.RoleVendor {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var updateReq updateStatusRequest

		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		current := models.OrderStatus(updateReq.CurrentStatus)
		target := models.OrderStatus(updateReq.Status)

		order, err := oh.svc.ApplyStatusTransition(r.Context(), orderID, current, target, models.RoleVendor)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidOrderStatus):
				http.Error(w, "invalid order status", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrTransitionNotAllowed):
				http.Error(w, "transition not allowed", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrStatusConflict):
				http.Error(w, "order status has changed", http.StatusConflict)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(newOrderResponse(order)); err != nil {
			return
		}
	}
}
