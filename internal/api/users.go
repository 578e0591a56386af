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
	"math"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/validation"

	"go.uber.org/zap"
)

// CreateUserProfile registers a new user after validation and an email uniqueness check.
func (s *ExchangeService) CreateUserProfile(ctx context.Context, payload models.UserPayload) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateUserPayload(payload); err != nil {
		zap.L().Debug("Rejected user payload", zap.String("email", payload.Email), zap.Error(err))
		return nil, fromValidation(err)
	}

	inUse, err := s.emailInUse(ctx, payload.Email, nil)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrAlreadyExists
	}

	user := models.User{
		Id:          math.MaxUint64,
		Name:        payload.Name,
		PhoneNumber: payload.PhoneNumber,
		Email:       payload.Email,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.records.Users.Fits(user); err != nil {
		return nil, fromStore(err)
	}

	id, err := s.records.Ids.Next(ctx)
	if err != nil {
		zap.L().Error("Failed to allocate user id", zap.Error(err))
		return nil, fromStore(err)
	}
	user.Id = id

	if err := s.records.Users.Put(ctx, id, user); err != nil {
		zap.L().Error("Failed to store user", zap.Uint64("id", id), zap.Error(err))
		return nil, fromStore(err)
	}

	zap.L().Info("User created",
		zap.Uint64("id", user.Id),
		zap.String("name", user.Name),
		zap.String("email", user.Email))

	return &user, nil
}

func (s *ExchangeService) GetUserProfile(ctx context.Context, id uint64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getUser(ctx, id)
}

// UpdateUserProfile overwrites name, phone and email, keeping id and created_at.
func (s *ExchangeService) UpdateUserProfile(ctx context.Context, id uint64, payload models.UserPayload) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateUserPayload(payload); err != nil {
		return nil, fromValidation(err)
	}

	inUse, err := s.emailInUse(ctx, payload.Email, &id)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrAlreadyExists
	}

	user.Name = payload.Name
	user.PhoneNumber = payload.PhoneNumber
	user.Email = payload.Email

	if err := s.records.Users.Put(ctx, id, *user); err != nil {
		zap.L().Error("Failed to update user", zap.Uint64("id", id), zap.Error(err))
		return nil, fromStore(err)
	}

	zap.L().Info("User updated", zap.Uint64("id", id), zap.String("email", user.Email))
	return user, nil
}

// SearchUser finds users by exact email or exact phone number. A query that
// looks like an email is never treated as a phone number.
func (s *ExchangeService) SearchUser(ctx context.Context, query string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		field  func(models.User) string
		notHit *Error
	)
	switch {
	case validation.IsEmail(query):
		field = func(u models.User) string { return u.Email }
		notHit = newError(KindUserNotFound, "No user found with the provided email")
	case validation.IsPhoneNumber(query):
		field = func(u models.User) string { return u.PhoneNumber }
		notHit = newError(KindUserNotFound, "No user found with the provided phone number")
	default:
		return nil, ErrInvalidQuery
	}

	var matches []models.User
	for user, err := range s.records.Users.Scan(ctx) {
		if err != nil {
			return nil, fromStore(err)
		}
		if field(user) == query {
			matches = append(matches, user)
		}
	}

	if len(matches) == 0 {
		return nil, notHit
	}
	return matches, nil
}

// ListUsers returns every user in id order.
func (s *ExchangeService) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []models.User{}
	for user, err := range s.records.Users.Scan(ctx) {
		if err != nil {
			return nil, fromStore(err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *ExchangeService) getUser(ctx context.Context, id uint64) (*models.User, error) {
	user, found, err := s.records.Users.Get(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// emailInUse scans every stored user. Matching is exact and case-sensitive.
func (s *ExchangeService) emailInUse(ctx context.Context, email string, excludeId *uint64) (bool, error) {
	for user, err := range s.records.Users.Scan(ctx) {
		if err != nil {
			return false, fromStore(err)
		}
		if excludeId != nil && user.Id == *excludeId {
			continue
		}
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}
