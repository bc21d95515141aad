package session

import (
	"context"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New(42, StateAddStockTicker)
	s.Scratch[FieldTicker] = "SBER"
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a session")
	}
	if got.State != StateAddStockTicker {
		t.Errorf("state = %q, want %q", got.State, StateAddStockTicker)
	}
	if got.Scratch[FieldTicker] != "SBER" {
		t.Errorf("scratch ticker = %q, want SBER", got.Scratch[FieldTicker])
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New(1, StateConvertAmount)
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := store.Get(ctx, 1)
	first.Scratch[FieldUsdAmount] = "166.67"

	second, _ := store.Get(ctx, 1)
	if _, ok := second.Scratch[FieldUsdAmount]; ok {
		t.Error("mutating a returned session must not change stored state")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, New(7, StateCheckStockTicker)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected no session after clear")
	}

	// Clearing again is a no-op, not an error.
	if err := store.Clear(ctx, 7); err != nil {
		t.Errorf("unexpected error on double clear: %v", err)
	}
}

func TestMemoryStore_IsolatedByChat(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, New(1, StateAddStockTicker))
	_ = store.Put(ctx, New(2, StateConvertConfirm))

	one, _ := store.Get(ctx, 1)
	two, _ := store.Get(ctx, 2)
	if one.State != StateAddStockTicker || two.State != StateConvertConfirm {
		t.Error("sessions of different chats must not interfere")
	}
}
