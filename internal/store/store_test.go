package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"milkchess/internal/config"
	"milkchess/internal/models"
)

func newTestBadger(t *testing.T, ttl time.Duration) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore("", ttl)
	if err != nil {
		t.Fatalf("NewBadgerStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s := newTestBadger(t, time.Hour)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get of a missing key: got %v, want ErrNotFound", err)
	}

	in := &models.Analysis{
		ID:       "a1",
		Position: "pos",
		State:    "Playing",
		Moves:    []models.AnalyzedMove{{UCI: "e2e4", SAN: "e4", Type: "PawnDoubleMove", Position: "next"}},
	}
	if err := s.Put(ctx, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, err := s.Get(ctx, "pos")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.ID != "a1" || out.State != "Playing" || len(out.Moves) != 1 || out.Moves[0].SAN != "e4" {
		t.Fatalf("Get returned %+v", out)
	}
}

func TestBadgerStoreExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a TTL to lapse")
	}
	s := newTestBadger(t, time.Second)
	ctx := context.Background()
	if err := s.Put(ctx, &models.Analysis{ID: "x", Position: "pos"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2100 * time.Millisecond)
	if _, err := s.Get(ctx, "pos"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry: got %v, want ErrNotFound", err)
	}
}

func TestBadgerStoreCancelledContext(t *testing.T) {
	s := newTestBadger(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Put(ctx, &models.Analysis{Position: "pos"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put: got %v, want context.Canceled", err)
	}
	if _, err := s.Get(ctx, "pos"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Get: got %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"storage": {"driver": "none"}}`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New(none): %v", err)
	}
	if _, ok := s.(Nop); !ok {
		t.Fatalf("New(none) returned %T", s)
	}
	if _, err := s.Get(context.Background(), "pos"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Nop.Get: got %v", err)
	}

	cfg.Storage.Driver = config.DriverBadger
	s, err = New(cfg, nil)
	if err != nil {
		t.Fatalf("New(badger): %v", err)
	}
	defer s.Close()
	if _, ok := s.(*BadgerStore); !ok {
		t.Fatalf("New(badger) returned %T", s)
	}

	cfg.Storage.Driver = config.DriverMongo
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("New(mongo) without a database should fail")
	}
}
