package main

import (
	"context"
	"flag"
	"fmt"

	"kes-exchange-go/internal/common"
	"kes-exchange-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	fileFlag := flag.String("file", "", "Path to the seed file (default: SEED_FILE or seed.yaml)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	seedFile := *fileFlag
	if seedFile == "" {
		seedFile = cfg.Store.SeedFile
	}

	zap.L().Info("Loading seed file", zap.String("file", seedFile))
	seed, err := common.LoadSeedFile(seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed file", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	result, err := common.ApplySeed(ctx, services.Exchange, seed)
	if err != nil {
		zap.L().Error("Seeding stopped", zap.Error(err))
	}

	common.PrintHeader("SEED SUMMARY", common.DefaultWidth)
	fmt.Printf("Seed users:        %d\n", len(seed.Users))
	fmt.Printf("Users created:     %d\n", result.UsersCreated)
	fmt.Printf("Users skipped:     %d\n", result.UsersSkipped)
	fmt.Printf("Listings created:  %d\n", result.ListingsCreated)
	common.PrintFooter(fmt.Sprintf("Backend: %s", cfg.Store.Backend), common.DefaultWidth)

	if err != nil {
		fmt.Printf("✗ %v\n", err)
	}
}
