package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kes-exchange-go/internal/models"
)

type failingBackend struct {
	*MemoryBackend
}

func (f failingBackend) Increment(ctx context.Context, seg Segment) (uint64, error) {
	return 0, errors.New("disk full")
}

func TestSegmentString(t *testing.T) {
	if SegmentUsers.String() != "users" {
		t.Errorf("Expected users, got %q", SegmentUsers.String())
	}
	if Segment(9).String() != "segment_9" {
		t.Errorf("Expected segment_9, got %q", Segment(9).String())
	}
}

func TestAllocator_StartsAtOneAndIncreases(t *testing.T) {
	ctx := context.Background()
	alloc := NewAllocator(NewMemoryBackend())

	var last uint64
	for i := 1; i <= 5; i++ {
		id, err := alloc.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if id != uint64(i) {
			t.Errorf("Expected id %d, got %d", i, id)
		}
		if id <= last {
			t.Errorf("Expected strictly increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}

func TestAllocator_Failure(t *testing.T) {
	alloc := NewAllocator(failingBackend{NewMemoryBackend()})

	_, err := alloc.Next(context.Background())
	if !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("Expected ErrAllocationFailed, got %v", err)
	}
}

func TestCollection_GetPut(t *testing.T) {
	ctx := context.Background()
	users := NewCollection[models.User](NewMemoryBackend(), SegmentUsers, MaxUserSize)

	if _, found, err := users.Get(ctx, 1); err != nil || found {
		t.Fatalf("Expected empty collection, found=%v err=%v", found, err)
	}

	user := models.User{Id: 1, Name: "Asha", PhoneNumber: "0712345678", Email: "asha@x.io", CreatedAt: time.Unix(0, 100).UTC()}
	if err := users.Put(ctx, 1, user); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := users.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("Expected record, found=%v err=%v", found, err)
	}
	if got != user {
		t.Errorf("Round trip mismatch: %+v vs %+v", got, user)
	}

	user.Name = "Asha K"
	if err := users.Put(ctx, 1, user); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	got, _, _ = users.Get(ctx, 1)
	if got.Name != "Asha K" {
		t.Errorf("Expected replaced name, got %q", got.Name)
	}
}

func TestCollection_RecordTooLarge(t *testing.T) {
	ctx := context.Background()
	users := NewCollection[models.User](NewMemoryBackend(), SegmentUsers, MaxUserSize)

	big := models.User{Id: 1, Name: strings.Repeat("a", MaxUserSize), PhoneNumber: "0712345678", Email: "a@b.io"}
	if err := users.Fits(big); !errors.Is(err, ErrRecordTooLarge) {
		t.Fatalf("Expected ErrRecordTooLarge from Fits, got %v", err)
	}
	if err := users.Put(ctx, 1, big); !errors.Is(err, ErrRecordTooLarge) {
		t.Fatalf("Expected ErrRecordTooLarge from Put, got %v", err)
	}
	if _, found, _ := users.Get(ctx, 1); found {
		t.Error("Oversized record must not be stored")
	}
}

func TestCollection_ScanOrderAndEarlyStop(t *testing.T) {
	ctx := context.Background()
	listings := NewCollection[models.Listing](NewMemoryBackend(), SegmentListings, MaxListingSize)

	for _, id := range []uint64{7, 2, 5} {
		if err := listings.Put(ctx, id, models.Listing{Id: id, Title: "t"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	var ids []uint64
	for l, err := range listings.Scan(ctx) {
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		ids = append(ids, l.Id)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 7 {
		t.Errorf("Expected ascending [2 5 7], got %v", ids)
	}

	// restartable and stoppable
	count := 0
	for range listings.Scan(ctx) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("Expected early stop after 1, got %d", count)
	}
}

func TestCollection_ScanDecodeError(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	if err := backend.Put(ctx, SegmentUsers, 1, []byte("not json")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	users := NewCollection[models.User](backend, SegmentUsers, MaxUserSize)
	var errs int
	for _, err := range users.Scan(ctx) {
		if err != nil {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("Expected exactly one decode error, got %d", errs)
	}
}

func TestRecords_SegmentsAreIndependent(t *testing.T) {
	ctx := context.Background()
	records := NewRecords(NewMemoryBackend())
	defer records.Close()

	if err := records.Users.Put(ctx, 1, models.User{Id: 1, Name: "Asha"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, found, _ := records.Listings.Get(ctx, 1); found {
		t.Error("Listing segment must not see user records")
	}
	if _, found, _ := records.Feedback.Get(ctx, 1); found {
		t.Error("Feedback segment must not see user records")
	}
}
