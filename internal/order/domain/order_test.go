package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tc := range cases {
		order := &Order{Status: tc.from}
		err := order.TransitionTo(tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%s -> %s: expected rejection", tc.from, tc.to)
			}
			if order.Status != tc.from {
				t.Errorf("%s -> %s: status mutated on rejected transition", tc.from, tc.to)
			}
		}
		if tc.ok && order.Status != tc.to {
			t.Errorf("%s -> %s: status not updated", tc.from, tc.to)
		}
	}
}

func TestTransitionToInvalidStatus(t *testing.T) {
	order := &Order{Status: StatusPending}
	if err := order.TransitionTo("LOST"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestComputeTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("19.99"), Quantity: 3},
			{Price: decimal.RequireFromString("0.01"), Quantity: 1},
			{Price: decimal.RequireFromString("100.50"), Quantity: 2},
		},
	}

	got := order.ComputeTotal()
	want := decimal.RequireFromString("260.98")
	if !got.Equal(want) {
		t.Fatalf("total = %s, want %s", got, want)
	}
}

func TestComputeTotalAvoidsFloatDrift(t *testing.T) {
	// 0.1 * 3 在浮点下是 0.30000000000000004
	order := &Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("0.10"), Quantity: 3},
		},
	}
	if got := order.ComputeTotal(); got.String() != "0.3" {
		t.Fatalf("total = %s, want 0.3", got)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("REFUNDED").Valid() {
		t.Error("unknown status should be invalid")
	}
}
