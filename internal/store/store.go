package store

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound         = errors.New("record not found")
	ErrRecordTooLarge   = errors.New("record exceeds maximum serialized size")
	ErrAllocationFailed = errors.New("failed to increment the id counter")

	// ErrStopScan is returned from a ForEach callback to end the traversal early.
	// Backends swallow it and return nil.
	ErrStopScan = errors.New("stop scan")
)

// Segment names one independently addressable durable region. Values are
// persisted by every backend and must never be renumbered or reused.
type Segment uint8

const (
	SegmentIdCounter    Segment = 0
	SegmentUsers        Segment = 1
	SegmentListings     Segment = 2
	SegmentSwapRequests Segment = 3
	SegmentFeedback     Segment = 4
)

var segmentNames = map[Segment]string{
	SegmentIdCounter:    "id_counter",
	SegmentUsers:        "users",
	SegmentListings:     "listings",
	SegmentSwapRequests: "swap_requests",
	SegmentFeedback:     "feedback",
}

func (s Segment) String() string {
	if name, ok := segmentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("segment_%d", uint8(s))
}

// Backend defines the contract that every durable segment provider
// (SQLite, Bolt, Redis, memory) must satisfy.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, seg Segment, key uint64) ([]byte, error)

	// Put inserts or replaces the value stored under key.
	Put(ctx context.Context, seg Segment, key uint64, value []byte) error

	// ForEach visits every entry of the segment in ascending key order.
	// A callback returning ErrStopScan ends the traversal without error.
	ForEach(ctx context.Context, seg Segment, fn func(key uint64, value []byte) error) error

	// Increment atomically adds one to the counter held in seg, persists it
	// and returns the new value. A fresh counter starts at 0.
	Increment(ctx context.Context, seg Segment) (uint64, error)

	Close()
}
