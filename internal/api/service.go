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

package api

import (
	"context"
	"fmt"
	"sync"

	"kes-exchange-go/internal/store"
)

// ExchangeService runs the exchange operations against one set of records.
// Calls are serialized: each runs to completion before the next begins.
type ExchangeService struct {
	mu      sync.Mutex
	records *store.Records
	clock   Clock
}

func NewExchangeService(records *store.Records, clock Clock) *ExchangeService {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &ExchangeService{
		records: records,
		clock:   clock,
	}
}

func (s *ExchangeService) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, err := range s.records.Users.Scan(ctx) {
		if err != nil {
			return fmt.Errorf("store health check failed: %w", err)
		}
		break
	}
	return nil
}
