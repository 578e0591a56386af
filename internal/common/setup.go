package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"kes-exchange-go/internal/api"
	"kes-exchange-go/internal/boltstore"
	"kes-exchange-go/internal/config"
	"kes-exchange-go/internal/database"
	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/redisstore"
	"kes-exchange-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Records  *store.Records
	Exchange *api.ExchangeService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// OpenBackend opens the segment provider selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg models.StoreConfig) (store.Backend, error) {
	zap.L().Info("Opening store backend", zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendSQLite:
		return database.NewService(ctx, cfg.Database)
	case config.BackendBolt:
		return boltstore.New(cfg.Bolt)
	case config.BackendRedis:
		return redisstore.Dial(ctx, cfg.Redis)
	case config.BackendMemory:
		zap.L().Warn("Using in-memory store; records are lost on exit")
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	backend, err := OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	records := store.NewRecords(backend)
	exchange := api.NewExchangeService(records, api.NewSystemClock())

	if err := exchange.HealthCheck(ctx); err != nil {
		records.Close()
		return nil, err
	}

	return &Services{
		Records:  records,
		Exchange: exchange,
	}, nil
}

func (cs *Services) Close() {
	if cs.Records != nil {
		cs.Records.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
