package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ store.Backend = (*Store)(nil)

const scanPageSize = 256

// Store keeps each segment as a hash of id to value, plus a sorted set of ids
// scored by id so that scans come back in ascending key order. Counter
// segments are plain INCR keys.
type Store struct {
	client *redis.Client
	prefix string
}

// Dial connects to the configured Redis server and verifies it with PING.
func Dial(ctx context.Context, cfg models.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to reach redis at %s: %w", cfg.Addr, err)
	}

	zap.L().Info("Redis connection successful", zap.String("address", cfg.Addr), zap.Int("db", cfg.DB))
	return New(client, cfg.Prefix), nil
}

func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Close() {
	if err := s.client.Close(); err != nil {
		zap.L().Warn("Failed to close redis client", zap.Error(err))
	}
}

func (s *Store) dataKey(seg store.Segment) string {
	return fmt.Sprintf("%s:segment:%d:data", s.prefix, uint8(seg))
}

func (s *Store) indexKey(seg store.Segment) string {
	return fmt.Sprintf("%s:segment:%d:index", s.prefix, uint8(seg))
}

func (s *Store) counterKey(seg store.Segment) string {
	return fmt.Sprintf("%s:segment:%d", s.prefix, uint8(seg))
}

func (s *Store) Get(ctx context.Context, seg store.Segment, key uint64) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.dataKey(seg), strconv.FormatUint(key, 10)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("unable to read %s/%d: %w", seg, key, err)
	}
	return data, nil
}

// Put writes the value and its index entry in one MULTI/EXEC block.
func (s *Store) Put(ctx context.Context, seg store.Segment, key uint64, value []byte) error {
	member := strconv.FormatUint(key, 10)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey(seg), member, value)
		pipe.ZAdd(ctx, s.indexKey(seg), redis.Z{Score: float64(key), Member: member})
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to write %s/%d: %w", seg, key, err)
	}
	return nil
}

func (s *Store) ForEach(ctx context.Context, seg store.Segment, fn func(key uint64, value []byte) error) error {
	lower := "-inf"
	for {
		members, err := s.client.ZRangeByScore(ctx, s.indexKey(seg), &redis.ZRangeBy{
			Min:   lower,
			Max:   "+inf",
			Count: scanPageSize,
		}).Result()
		if err != nil {
			return fmt.Errorf("unable to read %s index: %w", seg, err)
		}
		if len(members) == 0 {
			return nil
		}

		values, err := s.client.HMGet(ctx, s.dataKey(seg), members...).Result()
		if err != nil {
			return fmt.Errorf("unable to read %s values: %w", seg, err)
		}

		for i, member := range members {
			key, err := strconv.ParseUint(member, 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt %s index member %q: %w", seg, member, err)
			}
			raw, ok := values[i].(string)
			if !ok {
				// indexed but value missing
				continue
			}
			if err := fn(key, []byte(raw)); err != nil {
				if errors.Is(err, store.ErrStopScan) {
					return nil
				}
				return err
			}
		}

		if len(members) < scanPageSize {
			return nil
		}
		lower = "(" + members[len(members)-1]
	}
}

func (s *Store) Increment(ctx context.Context, seg store.Segment) (uint64, error) {
	value, err := s.client.Incr(ctx, s.counterKey(seg)).Uint64()
	if err != nil {
		return 0, fmt.Errorf("unable to increment %s: %w", s.counterKey(seg), err)
	}
	return value, nil
}
