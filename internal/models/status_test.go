package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNextStatuses_Vendor(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		want []OrderStatus
	}{
		{
			name: "pending_offers_processing_and_cancel",
			from: OrderStatusPending,
			want: []OrderStatus{OrderStatusProcessing, OrderStatusCancelled},
		},
		{
			name: "processing_offers_shipped_and_cancel",
			from: OrderStatusProcessing,
			want: []OrderStatus{OrderStatusShipped, OrderStatusCancelled},
		},
		{
			name: "shipped_offers_delivered_only",
			from: OrderStatusShipped,
			want: []OrderStatus{OrderStatusDelivered},
		},
		{
			name: "delivered_offers_completed_only",
			from: OrderStatusDelivered,
			want: []OrderStatus{OrderStatusCompleted},
		},
		{
			name: "completed_is_terminal",
			from: OrderStatusCompleted,
			want: nil,
		},
		{
			name: "cancelled_is_terminal",
			from: OrderStatusCancelled,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatuses(tt.from, RoleVendor)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNextStatuses_Customer(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		want []OrderStatus
	}{
		{
			name: "pending_offers_cancel",
			from: OrderStatusPending,
			want: []OrderStatus{OrderStatusCancelled},
		},
		{
			name: "processing_offers_nothing",
			from: OrderStatusProcessing,
			want: nil,
		},
		{
			name: "shipped_offers_nothing",
			from: OrderStatusShipped,
			want: nil,
		},
		{
			name: "delivered_offers_nothing",
			from: OrderStatusDelivered,
			want: nil,
		},
		{
			name: "completed_offers_nothing",
			from: OrderStatusCompleted,
			want: nil,
		},
		{
			name: "cancelled_offers_nothing",
			from: OrderStatusCancelled,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatuses(tt.from, RoleCustomer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNextStatuses_RoleEdgesStayWithinLifecycleTable(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}

	for _, from := range all {
		for _, role := range []Role{RoleVendor, RoleCustomer} {
			for _, to := range NextStatuses(from, role) {
				assert.Truef(t, CanTransition(from, to),
					"role %s offers %s -> %s which is not in the lifecycle table", role, from, to)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{name: "pending_to_processing", from: OrderStatusPending, to: OrderStatusProcessing, want: true},
		{name: "pending_to_cancelled", from: OrderStatusPending, to: OrderStatusCancelled, want: true},
		{name: "processing_to_shipped", from: OrderStatusProcessing, to: OrderStatusShipped, want: true},
		{name: "processing_to_cancelled", from: OrderStatusProcessing, to: OrderStatusCancelled, want: true},
		{name: "shipped_to_delivered", from: OrderStatusShipped, to: OrderStatusDelivered, want: true},
		{name: "shipped_to_cancelled", from: OrderStatusShipped, to: OrderStatusCancelled, want: true},
		{name: "delivered_to_completed", from: OrderStatusDelivered, to: OrderStatusCompleted, want: true},
		{name: "no_skipping_pending_to_shipped", from: OrderStatusPending, to: OrderStatusShipped, want: false},
		{name: "no_skipping_processing_to_delivered", from: OrderStatusProcessing, to: OrderStatusDelivered, want: false},
		{name: "no_cancel_after_delivery", from: OrderStatusDelivered, to: OrderStatusCancelled, want: false},
		{name: "no_cancel_after_completion", from: OrderStatusCompleted, to: OrderStatusCancelled, want: false},
		{name: "no_way_out_of_cancelled", from: OrderStatusCancelled, to: OrderStatusPending, want: false},
		{name: "no_backwards_shipped_to_processing", from: OrderStatusShipped, to: OrderStatusProcessing, want: false},
		{name: "unknown_status", from: OrderStatus("UNKNOWN"), to: OrderStatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("NEW").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusDelivered.Terminal())
	assert.False(t, OrderStatus("UNKNOWN").Terminal())
}
