package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// Collection is a durable map from identifier to a JSON-encoded record of type T,
// bound to one segment for its whole lifetime.
type Collection[T any] struct {
	backend Backend
	segment Segment
	maxSize int
}

func NewCollection[T any](backend Backend, segment Segment, maxSize int) *Collection[T] {
	return &Collection[T]{backend: backend, segment: segment, maxSize: maxSize}
}

func (c *Collection[T]) Segment() Segment {
	return c.segment
}

func (c *Collection[T]) MaxSize() int {
	return c.maxSize
}

// Get returns the record stored under id. The boolean is false when no record exists.
func (c *Collection[T]) Get(ctx context.Context, id uint64) (T, bool, error) {
	var record T

	data, err := c.backend.Get(ctx, c.segment, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return record, false, nil
		}
		return record, false, fmt.Errorf("unable to read %s/%d: %w", c.segment, id, err)
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return record, false, fmt.Errorf("unable to decode %s/%d: %w", c.segment, id, err)
	}
	return record, true, nil
}

// Put inserts or replaces the record stored under id.
func (c *Collection[T]) Put(ctx context.Context, id uint64, record T) error {
	data, err := c.encode(record)
	if err != nil {
		return err
	}

	if err := c.backend.Put(ctx, c.segment, id, data); err != nil {
		return fmt.Errorf("unable to write %s/%d: %w", c.segment, id, err)
	}
	return nil
}

// Fits reports whether record can be stored, without writing it.
func (c *Collection[T]) Fits(record T) error {
	_, err := c.encode(record)
	return err
}

// Scan returns a lazy traversal of the collection in ascending id order.
// Each range over the result starts a fresh pass over the current contents;
// breaking out of the loop stops the underlying backend traversal.
func (c *Collection[T]) Scan(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		err := c.backend.ForEach(ctx, c.segment, func(key uint64, value []byte) error {
			var record T
			if err := json.Unmarshal(value, &record); err != nil {
				var zero T
				yield(zero, fmt.Errorf("unable to decode %s/%d: %w", c.segment, key, err))
				return ErrStopScan
			}
			if !yield(record, nil) {
				return ErrStopScan
			}
			return nil
		})
		if err != nil {
			var zero T
			yield(zero, fmt.Errorf("unable to scan %s: %w", c.segment, err))
		}
	}
}

func (c *Collection[T]) encode(record T) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s record: %w", c.segment, err)
	}
	if c.maxSize > 0 && len(data) > c.maxSize {
		return nil, fmt.Errorf("%w: %s record is %d bytes, limit %d", ErrRecordTooLarge, c.segment, len(data), c.maxSize)
	}
	return data, nil
}
