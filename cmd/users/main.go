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
	"flag"
	"fmt"

	"kes-exchange-go/internal/common"
	"kes-exchange-go/internal/config"

	"go.uber.org/zap"
)

func printUsers(users []common.UserInfo) {
	for i, user := range users {
		isLast := i == len(users)-1
		fmt.Printf("%s%s\n", common.BoxPrefix(isLast), common.FormatUserLine(user))
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	queryFlag := flag.String("query", "", "Search by exact email or 10 digit phone number (optional)")
	flag.Parse()

	logger.Info("Starting user report")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	users, err := common.InitializeUsers(ctx, services.Exchange, *queryFlag, logger)
	if err != nil {
		logger.Error("Failed to look up users", zap.Error(err))
		fmt.Printf("✗ %v\n", err)
		return
	}

	title := "USER REPORT"
	if *queryFlag != "" {
		title = fmt.Sprintf("USER SEARCH: %s", *queryFlag)
	}
	common.PrintHeader(title, common.DefaultWidth)

	if len(users) == 0 {
		fmt.Println("No users registered")
	} else {
		printUsers(users)
	}

	common.PrintFooter(fmt.Sprintf("Total users: %d (backend: %s)", len(users), cfg.Store.Backend), common.DefaultWidth)
}
