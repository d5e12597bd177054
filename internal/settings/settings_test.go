package settings

import (
	"context"
	"testing"

	"winner/internal/core"
	"winner/internal/store"
	"winner/internal/store/memory"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	svc := NewService(memory.New())
	got, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HourlyRate != 0 || got.SavingsPercent != 0 {
		t.Fatalf("expected zero defaults, got %+v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo)
	ctx := context.Background()

	saved, err := svc.Save(ctx, core.UserSettings{HourlyRate: 15, SavingsPercent: 20})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SavingsPercent != 20 {
		t.Fatalf("unexpected saved settings: %+v", saved)
	}

	got, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HourlyRate != 15 || got.SavingsPercent != 20 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// The record lives under the fixed document id.
	if _, err := repo.Get(ctx, store.UserSettings, DocumentID); err != nil {
		t.Fatalf("expected %s document, got %v", DocumentID, err)
	}
}

func TestSaveClampsOutOfRange(t *testing.T) {
	svc := NewService(memory.New())
	saved, err := svc.Save(context.Background(), core.UserSettings{HourlyRate: -5, SavingsPercent: 150})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.HourlyRate != 0 || saved.SavingsPercent != 100 {
		t.Fatalf("expected clamped settings, got %+v", saved)
	}
}

func TestSaveTwiceOverwrites(t *testing.T) {
	repo := memory.New()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Save(ctx, core.UserSettings{HourlyRate: 10, SavingsPercent: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, core.UserSettings{HourlyRate: 12, SavingsPercent: 25}); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.HourlyRate != 12 || got.SavingsPercent != 25 {
		t.Fatalf("expected latest settings, got %+v", got)
	}
	if n := repo.Len(store.UserSettings); n != 1 {
		t.Fatalf("expected a single settings record, got %d", n)
	}
}
