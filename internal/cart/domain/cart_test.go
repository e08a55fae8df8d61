package domain

import (
	"errors"
	"testing"
)

func TestAddItem(t *testing.T) {
	cart := &Cart{}

	if err := cart.AddItem(1, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := cart.AddItem(2, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}

	// 重复商品累加数量而不是新增条目
	if err := cart.AddItem(1, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("duplicate product created new item, items=%d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := &Cart{}
	if err := cart.AddItem(1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("qty 0: expected ErrInvalidQuantity, got %v", err)
	}
	if err := cart.AddItem(1, -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("qty -3: expected ErrInvalidQuantity, got %v", err)
	}
	if !cart.Empty() {
		t.Error("rejected add mutated cart")
	}
}

func TestRemoveItem(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	_ = cart.AddItem(1, 1)
	_ = cart.AddItem(2, 2)
	cart.Items[0].ID = 11
	cart.Items[1].ID = 12

	if err := cart.RemoveItem(11); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != 12 {
		t.Errorf("wrong item removed: %+v", cart.Items)
	}

	if err := cart.RemoveItem(99); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestFindItem(t *testing.T) {
	cart := &Cart{Items: []CartItem{{ProductID: 1, Quantity: 1}}}
	cart.Items[0].ID = 5

	if item := cart.FindItem(5); item == nil || item.ProductID != 1 {
		t.Errorf("FindItem(5) = %+v", item)
	}
	if item := cart.FindItem(6); item != nil {
		t.Errorf("FindItem(6) should be nil, got %+v", item)
	}
}

func TestTotalQuantity(t *testing.T) {
	cart := &Cart{}
	if cart.TotalQuantity() != 0 || !cart.Empty() {
		t.Error("new cart should be empty")
	}
	_ = cart.AddItem(1, 2)
	_ = cart.AddItem(2, 3)
	if got := cart.TotalQuantity(); got != 5 {
		t.Errorf("TotalQuantity = %d, want 5", got)
	}
}
