package store

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// MemoryBackend keeps every segment in process memory. Nothing survives Close.
type MemoryBackend struct {
	mu       sync.RWMutex
	segments map[Segment]map[uint64][]byte
	counters map[Segment]uint64
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		segments: make(map[Segment]map[uint64][]byte),
		counters: make(map[Segment]uint64),
	}
}

func (m *MemoryBackend) Get(ctx context.Context, seg Segment, key uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.segments[seg][key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

func (m *MemoryBackend) Put(ctx context.Context, seg Segment, key uint64, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.segments[seg]
	if !ok {
		entries = make(map[uint64][]byte)
		m.segments[seg] = entries
	}
	entries[key] = slices.Clone(value)
	return nil
}

// ForEach snapshots the segment before visiting it, so fn may call back into the backend.
func (m *MemoryBackend) ForEach(ctx context.Context, seg Segment, fn func(key uint64, value []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	entries := m.segments[seg]
	keys := make([]uint64, 0, len(entries))
	values := make(map[uint64][]byte, len(entries))
	for k, v := range entries {
		keys = append(keys, k)
		values[k] = slices.Clone(v)
	}
	m.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, values[k]); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (m *MemoryBackend) Increment(ctx context.Context, seg Segment) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[seg]++
	return m.counters[seg], nil
}

func (m *MemoryBackend) Close() {}
