package common

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kes-exchange-go/internal/config"
	"kes-exchange-go/internal/models"

	"go.uber.org/zap"
)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfgs := []models.StoreConfig{
		{Backend: config.BackendMemory},
		{Backend: config.BackendBolt, Bolt: models.BoltConfig{Path: filepath.Join(dir, "x.bolt"), OpenTimeout: time.Second}},
		{Backend: config.BackendSQLite, Database: models.DatabaseConfig{Path: filepath.Join(dir, "x.db"), MaxOpenConns: 2, PingTimeout: time.Second}},
	}

	for _, cfg := range cfgs {
		backend, err := OpenBackend(ctx, cfg)
		if err != nil {
			t.Fatalf("OpenBackend(%s) failed: %v", cfg.Backend, err)
		}
		backend.Close()
	}

	if _, err := OpenBackend(ctx, models.StoreConfig{Backend: "postgres"}); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}

func TestInitializeServicesAndUsers(t *testing.T) {
	ctx := context.Background()
	cfg := &models.Config{Store: models.StoreConfig{Backend: config.BackendMemory}}

	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		t.Fatalf("InitializeServices failed: %v", err)
	}
	defer services.Close()

	if _, err := services.Exchange.CreateUserProfile(ctx, models.UserPayload{Name: "Asha", PhoneNumber: "0712345678", Email: "asha@example.com"}); err != nil {
		t.Fatalf("CreateUserProfile failed: %v", err)
	}

	logger := zap.NewNop()

	all, err := InitializeUsers(ctx, services.Exchange, "", logger)
	if err != nil || len(all) != 1 {
		t.Fatalf("Expected 1 user, got %d err=%v", len(all), err)
	}
	if all[0].Id != 1 || all[0].PhoneNumber != "0712345678" {
		t.Errorf("Unexpected user info: %+v", all[0])
	}

	found, err := InitializeUsers(ctx, services.Exchange, "0712345678", logger)
	if err != nil || len(found) != 1 {
		t.Fatalf("Expected phone search hit, got %d err=%v", len(found), err)
	}

	if _, err := InitializeUsers(ctx, services.Exchange, "nobody@example.com", logger); err == nil {
		t.Error("Expected error for unknown email")
	}
}

func TestIsIgnorableSyncError(t *testing.T) {
	if !isIgnorableSyncError(errors.New("sync /dev/stderr: inappropriate ioctl for device")) {
		t.Error("Expected stderr ioctl error to be ignorable")
	}
	if isIgnorableSyncError(errors.New("disk full")) {
		t.Error("Expected other errors to be reported")
	}
}
