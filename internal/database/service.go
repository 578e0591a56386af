/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Backend.
var _ store.Backend = (*Service)(nil)

// scanPageSize bounds how many rows ForEach holds at once. Rows are released
// before the callback runs so callbacks may issue their own queries.
const scanPageSize = 256

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(ctx context.Context) error {
	schema := `
	-- One row per stored record, keyed by segment and identifier
	CREATE TABLE IF NOT EXISTS records (
		segment INTEGER NOT NULL,
		id INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (segment, id)
	);

	-- Persistent counters, one per counter segment
	CREATE TABLE IF NOT EXISTS counters (
		segment INTEGER PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Service) Get(ctx context.Context, seg store.Segment, key uint64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, queryGetRecord, int64(seg), int64(key)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to query record: %w", err)
	}
	return data, nil
}

func (s *Service) Put(ctx context.Context, seg store.Segment, key uint64, value []byte) error {
	if _, err := s.db.ExecContext(ctx, queryUpsertRecord, int64(seg), int64(key), value); err != nil {
		return fmt.Errorf("unable to upsert record: %w", err)
	}
	return nil
}

func (s *Service) ForEach(ctx context.Context, seg store.Segment, fn func(key uint64, value []byte) error) error {
	var after int64
	for {
		page, err := s.scanPage(ctx, seg, after)
		if err != nil {
			return err
		}

		for _, row := range page {
			if err := fn(uint64(row.id), row.data); err != nil {
				if errors.Is(err, store.ErrStopScan) {
					return nil
				}
				return err
			}
			after = row.id
		}

		if len(page) < scanPageSize {
			return nil
		}
	}
}

type recordRow struct {
	id   int64
	data []byte
}

func (s *Service) scanPage(ctx context.Context, seg store.Segment, after int64) ([]recordRow, error) {
	rows, err := s.db.QueryContext(ctx, queryScanRecords, int64(seg), after, scanPageSize)
	if err != nil {
		return nil, fmt.Errorf("unable to scan records: %w", err)
	}
	defer rows.Close()

	page := make([]recordRow, 0, scanPageSize)
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(&row.id, &row.data); err != nil {
			return nil, fmt.Errorf("unable to read record row: %w", err)
		}
		page = append(page, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate records: %w", err)
	}
	return page, nil
}

// Increment bumps the counter in a single statement, so the new value is
// persisted before it is returned.
func (s *Service) Increment(ctx context.Context, seg store.Segment) (uint64, error) {
	var value int64
	if err := s.db.QueryRowContext(ctx, queryIncrementCounter, int64(seg)).Scan(&value); err != nil {
		return 0, fmt.Errorf("unable to increment counter: %w", err)
	}

	zap.L().Debug("Counter incremented", zap.Stringer("segment", seg), zap.Int64("value", value))
	return uint64(value), nil
}
