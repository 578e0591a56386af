package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/store"
)

func testConfig(path string) models.DatabaseConfig {
	return models.DatabaseConfig{
		Path:            path,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

func setupTestDB(t *testing.T) (*Service, string, func()) {
	path := filepath.Join(t.TempDir(), "exchange.db")

	service, err := NewService(context.Background(), testConfig(path))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, path, cleanup
}

func TestNewService_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig("")
	if _, err := NewService(ctx, cfg); err == nil {
		t.Error("Expected error for empty path")
	}

	cfg = testConfig("x.db")
	cfg.MaxOpenConns = 0
	if _, err := NewService(ctx, cfg); err == nil {
		t.Error("Expected error for zero max open connections")
	}

	cfg = testConfig("x.db")
	cfg.PingTimeout = 0
	if _, err := NewService(ctx, cfg); err == nil {
		t.Error("Expected error for zero ping timeout")
	}
}

func TestGetPut(t *testing.T) {
	service, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.Get(ctx, store.SegmentUsers, 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := service.Put(ctx, store.SegmentUsers, 1, []byte(`{"id":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := service.Put(ctx, store.SegmentUsers, 1, []byte(`{"id":1,"name":"Asha"}`)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	data, err := service.Get(ctx, store.SegmentUsers, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != `{"id":1,"name":"Asha"}` {
		t.Errorf("Expected replaced value, got %s", data)
	}

	if _, err := service.Get(ctx, store.SegmentListings, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Segments must be independent, got %v", err)
	}
}

func TestForEach_OrderAcrossPages(t *testing.T) {
	service, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	total := scanPageSize*2 + 7

	// insert in descending order to prove ordering comes from the key
	for i := total; i >= 1; i-- {
		if err := service.Put(ctx, store.SegmentListings, uint64(i), []byte(fmt.Sprintf("%d", i))); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	var last uint64
	count := 0
	err := service.ForEach(ctx, store.SegmentListings, func(key uint64, value []byte) error {
		if key <= last {
			return fmt.Errorf("key %d not ascending after %d", key, last)
		}
		if string(value) != fmt.Sprintf("%d", key) {
			return fmt.Errorf("value mismatch for key %d: %s", key, value)
		}
		last = key
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if count != total {
		t.Errorf("Expected %d entries, got %d", total, count)
	}
}

func TestForEach_StopAndError(t *testing.T) {
	service, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := uint64(1); i <= 3; i++ {
		if err := service.Put(ctx, store.SegmentFeedback, i, []byte("x")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	visited := 0
	err := service.ForEach(ctx, store.SegmentFeedback, func(uint64, []byte) error {
		visited++
		return store.ErrStopScan
	})
	if err != nil || visited != 1 {
		t.Errorf("Expected clean stop after 1, got visited=%d err=%v", visited, err)
	}

	boom := errors.New("boom")
	err = service.ForEach(ctx, store.SegmentFeedback, func(uint64, []byte) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected callback error to propagate, got %v", err)
	}
}

func TestIncrement_PersistsAcrossReopen(t *testing.T) {
	service, path, _ := setupTestDB(t)

	ctx := context.Background()
	for want := uint64(1); want <= 3; want++ {
		got, err := service.Increment(ctx, store.SegmentIdCounter)
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected %d, got %d", want, got)
		}
	}
	if err := service.Put(ctx, store.SegmentUsers, 3, []byte("kept")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	service.Close()

	reopened, err := NewService(ctx, testConfig(path))
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Increment(ctx, store.SegmentIdCounter)
	if err != nil {
		t.Fatalf("Increment after reopen failed: %v", err)
	}
	if got != 4 {
		t.Errorf("Expected counter to continue at 4, got %d", got)
	}

	data, err := reopened.Get(ctx, store.SegmentUsers, 3)
	if err != nil || string(data) != "kept" {
		t.Errorf("Expected persisted record, got %q err=%v", data, err)
	}
}

func TestRecordsOverSQLite(t *testing.T) {
	service, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	records := store.NewRecords(service)

	id, err := records.Ids.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	user := models.User{Id: id, Name: "Asha", PhoneNumber: "0712345678", Email: "asha@x.io"}
	if err := records.Users.Put(ctx, id, user); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := records.Users.Get(ctx, id)
	if err != nil || !found {
		t.Fatalf("Expected user, found=%v err=%v", found, err)
	}
	if got.Email != "asha@x.io" {
		t.Errorf("Unexpected email %q", got.Email)
	}
}
