package store

import (
	"context"
	"fmt"

	"kes-exchange-go/internal/models"
)

// Maximum serialized size per record kind, in bytes.
const (
	MaxUserSize        = 1024
	MaxListingSize     = 2048
	MaxSwapRequestSize = 1024
	MaxFeedbackSize    = 1024
)

// Allocator hands out identifiers from the single shared counter segment.
type Allocator struct {
	backend Backend
	segment Segment
}

func NewAllocator(backend Backend) *Allocator {
	return &Allocator{backend: backend, segment: SegmentIdCounter}
}

// Next returns a fresh identifier, strictly greater than every identifier
// returned before it. Failures are never retried here.
func (a *Allocator) Next(ctx context.Context) (uint64, error) {
	id, err := a.backend.Increment(ctx, a.segment)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}
	return id, nil
}

// Records bundles the id allocator and the four entity collections that share one backend.
type Records struct {
	Ids          *Allocator
	Users        *Collection[models.User]
	Listings     *Collection[models.Listing]
	SwapRequests *Collection[models.SwapRequest]
	Feedback     *Collection[models.Feedback]

	backend Backend
}

func NewRecords(backend Backend) *Records {
	return &Records{
		Ids:          NewAllocator(backend),
		Users:        NewCollection[models.User](backend, SegmentUsers, MaxUserSize),
		Listings:     NewCollection[models.Listing](backend, SegmentListings, MaxListingSize),
		SwapRequests: NewCollection[models.SwapRequest](backend, SegmentSwapRequests, MaxSwapRequestSize),
		Feedback:     NewCollection[models.Feedback](backend, SegmentFeedback, MaxFeedbackSize),
		backend:      backend,
	}
}

func (r *Records) Close() {
	r.backend.Close()
}
