// Package boltstore keeps every segment in a single BoltDB file, one bucket per segment.
package boltstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/store"

	bolt "github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ store.Backend = (*Store)(nil)

const scanPageSize = 256

var allSegments = []store.Segment{
	store.SegmentIdCounter,
	store.SegmentUsers,
	store.SegmentListings,
	store.SegmentSwapRequests,
	store.SegmentFeedback,
}

type Store struct {
	db *bolt.DB
}

// New opens (or creates) the Bolt file and ensures a bucket exists for every segment.
func New(cfg models.BoltConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("bolt path cannot be empty")
	}

	zap.L().Info("Opening Bolt database", zap.String("file", cfg.Path))
	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("unable to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, seg := range allSegments {
			if _, err := tx.CreateBucketIfNotExists(bucketName(seg)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close bolt database", zap.Error(err))
	}
}

func bucketName(seg store.Segment) []byte {
	return []byte(fmt.Sprintf("segment/%d", uint8(seg)))
}

// Keys are big-endian so Bolt's byte ordering matches numeric ordering.
func encodeKey(key uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, key)
	return buf
}

func (s *Store) Get(ctx context.Context, seg store.Segment, key uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(seg))
		if b == nil {
			return store.ErrNotFound
		}
		v := b.Get(encodeKey(key))
		if v == nil {
			return store.ErrNotFound
		}
		value = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, seg store.Segment, key uint64, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(seg))
		if err != nil {
			return err
		}
		return b.Put(encodeKey(key), value)
	})
}

type entry struct {
	key   uint64
	value []byte
}

// ForEach reads the bucket in pages and runs fn outside any transaction.
func (s *Store) ForEach(ctx context.Context, seg store.Segment, fn func(key uint64, value []byte) error) error {
	var from []byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.readPage(seg, from)
		if err != nil {
			return err
		}

		for _, e := range page {
			if err := fn(e.key, e.value); err != nil {
				if errors.Is(err, store.ErrStopScan) {
					return nil
				}
				return err
			}
		}

		if len(page) < scanPageSize {
			return nil
		}
		last := page[len(page)-1].key
		if last == ^uint64(0) {
			return nil
		}
		from = encodeKey(last + 1)
	}
}

func (s *Store) readPage(seg store.Segment, from []byte) ([]entry, error) {
	page := make([]entry, 0, scanPageSize)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(seg))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		var k, v []byte
		if from == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(from)
		}
		for ; k != nil && len(page) < scanPageSize; k, v = c.Next() {
			page = append(page, entry{key: binary.BigEndian.Uint64(k), value: bytes.Clone(v)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seg, err)
	}
	return page, nil
}

// Increment uses the bucket sequence of the counter segment, which Bolt
// persists with the transaction commit.
func (s *Store) Increment(ctx context.Context, seg store.Segment) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var value uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(seg))
		if err != nil {
			return err
		}
		value, err = b.NextSequence()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("unable to increment counter: %w", err)
	}
	return value, nil
}
