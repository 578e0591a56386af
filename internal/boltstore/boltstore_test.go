package boltstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kes-exchange-go/internal/boltstore"
	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/store"
)

func openStore(t *testing.T, path string) *boltstore.Store {
	t.Helper()
	s, err := boltstore.New(models.BoltConfig{Path: path, OpenTimeout: time.Second})
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	return s
}

func newTestStore(t *testing.T) *boltstore.Store {
	t.Helper()
	s := openStore(t, filepath.Join(t.TempDir(), "test.bolt"))
	t.Cleanup(s.Close)
	return s
}

func TestNewEmptyPath(t *testing.T) {
	if _, err := boltstore.New(models.BoltConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), store.SegmentUsers, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, store.SegmentSwapRequests, 9, []byte("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Put(ctx, store.SegmentSwapRequests, 9, []byte("second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := s.Get(ctx, store.SegmentSwapRequests, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(v) != "second" {
		t.Fatalf("expected second, got %q", v)
	}
}

func TestForEachNumericOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// as decimal strings 17 and 256 would sort before 2
	keys := []uint64{256, 1, 1 << 40, 17, 2}
	for _, k := range keys {
		if err := s.Put(ctx, store.SegmentUsers, k, []byte("v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []uint64
	err := s.ForEach(ctx, store.SegmentUsers, func(k uint64, _ []byte) error {
		got = append(got, k)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []uint64{1, 2, 17, 256, 1 << 40}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestForEachManyPagesAndStop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for k := uint64(1); k <= 600; k++ {
		if err := s.Put(ctx, store.SegmentFeedback, k, []byte("v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count := 0
	if err := s.ForEach(ctx, store.SegmentFeedback, func(uint64, []byte) error {
		count++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 600 {
		t.Fatalf("expected 600 entries, got %d", count)
	}

	count = 0
	if err := s.ForEach(ctx, store.SegmentFeedback, func(k uint64, _ []byte) error {
		count++
		if k == 300 {
			return store.ErrStopScan
		}
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 300 {
		t.Fatalf("expected stop at 300, got %d", count)
	}
}

func TestIncrementPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.bolt")
	ctx := context.Background()

	s := openStore(t, path)
	for want := uint64(1); want <= 2; want++ {
		got, err := s.Increment(ctx, store.SegmentIdCounter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	s.Close()

	s = openStore(t, path)
	defer s.Close()

	got, err := s.Increment(ctx, store.SegmentIdCounter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected counter to resume at 3, got %d", got)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Increment(ctx, store.SegmentIdCounter); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
