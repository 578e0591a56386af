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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"kes-exchange-go/internal/api"
	"kes-exchange-go/internal/common"
	"kes-exchange-go/internal/config"
	"kes-exchange-go/internal/models"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "User's full name (required)")
	phoneFlag := flag.String("phone", "", "User's 10 digit phone number (required)")
	emailFlag := flag.String("email", "", "User's email address (required)")
	flag.Parse()

	payload := models.UserPayload{
		Name:        *nameFlag,
		PhoneNumber: *phoneFlag,
		Email:       *emailFlag,
	}

	zap.L().Info("Starting user creation process",
		zap.String("name", payload.Name),
		zap.String("email", payload.Email))

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	user, err := services.Exchange.CreateUserProfile(ctx, payload)
	if err != nil {
		if errors.Is(err, api.ErrAlreadyExists) {
			zap.L().Error("User already exists with this email", zap.String("email", payload.Email))
		} else {
			zap.L().Error("Failed to create user", zap.Error(err))
		}
		fmt.Printf("✗ %v\n", err)
		return
	}

	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:      %d\n", user.Id)
	fmt.Printf("Name:    %s\n", user.Name)
	fmt.Printf("Phone:   %s\n", user.PhoneNumber)
	fmt.Printf("Email:   %s\n", user.Email)
	fmt.Printf("Created: %s\n", common.FormatTimestamp(user.CreatedAt))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("User created successfully", zap.Uint64("id", user.Id))
}
