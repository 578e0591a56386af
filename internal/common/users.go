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

package common

import (
	"context"
	"fmt"

	"kes-exchange-go/internal/api"

	"go.uber.org/zap"
)

// UserInfo represents simplified user information for command-line utilities
type UserInfo struct {
	Id          uint64
	Name        string
	Email       string
	PhoneNumber string
}

// InitializeUsers retrieves users based on an optional query.
// If query is an email or phone number, returns the users matching it.
// If query is empty, returns all users.
func InitializeUsers(ctx context.Context, svc *api.ExchangeService, query string, logger *zap.Logger) ([]UserInfo, error) {
	var users []UserInfo

	if query != "" {
		logger.Info("Searching users", zap.String("query", query))
		found, err := svc.SearchUser(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("user search failed: %w", err)
		}
		for _, u := range found {
			users = append(users, UserInfo{Id: u.Id, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber})
		}
	} else {
		allUsers, err := svc.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		for _, u := range allUsers {
			users = append(users, UserInfo{Id: u.Id, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber})
		}
	}

	logger.Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}
