package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if snap, err := store.Load(ctx); err != nil || snap != nil {
		t.Fatalf("empty store load = (%v, %v), want (nil, nil)", snap, err)
	}

	snap := domain.Snapshot{
		Register: domain.CashRegister{
			IsOpen:        true,
			OpeningAmount: decimal.NewFromInt(500),
			CurrentAmount: decimal.NewFromInt(750),
		},
		SavedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || !loaded.Register.IsOpen || !loaded.Register.CurrentAmount.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestNoopDiscards(t *testing.T) {
	store := Noop{}
	ctx := context.Background()

	if err := store.Save(ctx, domain.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap, err := store.Load(ctx); err != nil || snap != nil {
		t.Fatalf("load = (%v, %v), want (nil, nil)", snap, err)
	}
}
