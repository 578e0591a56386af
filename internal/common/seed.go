package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kes-exchange-go/internal/api"
	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/validation"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedUser struct {
	models.UserPayload `yaml:",inline"`
	Listings           []models.ListingPayload `yaml:"listings"`
}

type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

// SeedResult counts what ApplySeed wrote.
type SeedResult struct {
	UsersCreated    int
	UsersSkipped    int
	ListingsCreated int
}

func LoadSeedFile(seedFile string) (*SeedConfig, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var seed SeedConfig
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, user := range seed.Users {
		if err := validation.ValidateUserPayload(user.UserPayload); err != nil {
			return nil, fmt.Errorf("user at index %d: %w", i, err)
		}
		for j, listing := range user.Listings {
			if err := validation.ValidateListingPayload(listing); err != nil {
				return nil, fmt.Errorf("listing %d of user at index %d: %w", j, i, err)
			}
		}
	}

	return &seed, nil
}

// ApplySeed creates every seed user whose email is not yet registered, along
// with that user's listings. Users already present are left untouched.
func ApplySeed(ctx context.Context, svc *api.ExchangeService, seed *SeedConfig) (SeedResult, error) {
	var result SeedResult

	for _, entry := range seed.Users {
		_, err := svc.SearchUser(ctx, entry.Email)
		if err == nil {
			zap.L().Info("Seed user already exists", zap.String("email", entry.Email))
			result.UsersSkipped++
			continue
		}
		if !errors.Is(err, api.ErrUserNotFound) {
			return result, fmt.Errorf("unable to look up %s: %w", entry.Email, err)
		}

		user, err := svc.CreateUserProfile(ctx, entry.UserPayload)
		if err != nil {
			return result, fmt.Errorf("unable to create user %s: %w", entry.Email, err)
		}
		result.UsersCreated++

		for _, listing := range entry.Listings {
			listing.UserId = user.Id
			if _, err := svc.CreateListing(ctx, listing); err != nil {
				return result, fmt.Errorf("unable to create listing %q for %s: %w", listing.Title, entry.Email, err)
			}
			result.ListingsCreated++
		}
	}

	return result, nil
}
