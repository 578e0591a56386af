package api

import (
	"context"
	"math"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/validation"

	"go.uber.org/zap"
)

var errListingNotFound = newError(KindNotFound, "KenyanShillings item not found")

// CreateListing stores a new item owned by an existing user.
func (s *ExchangeService) CreateListing(ctx context.Context, payload models.ListingPayload) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateListingPayload(payload); err != nil {
		return nil, fromValidation(err)
	}

	if _, err := s.getUser(ctx, payload.UserId); err != nil {
		return nil, err
	}

	listing := models.Listing{
		Id:          math.MaxUint64,
		UserId:      payload.UserId,
		Title:       payload.Title,
		Author:      payload.Author,
		Description: payload.Description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.records.Listings.Fits(listing); err != nil {
		return nil, fromStore(err)
	}

	id, err := s.records.Ids.Next(ctx)
	if err != nil {
		zap.L().Error("Failed to allocate listing id", zap.Error(err))
		return nil, fromStore(err)
	}
	listing.Id = id

	if err := s.records.Listings.Put(ctx, id, listing); err != nil {
		zap.L().Error("Failed to store listing", zap.Uint64("id", id), zap.Error(err))
		return nil, fromStore(err)
	}

	zap.L().Info("Listing created",
		zap.Uint64("id", id),
		zap.Uint64("user_id", listing.UserId),
		zap.String("title", listing.Title))

	return &listing, nil
}

func (s *ExchangeService) GetListing(ctx context.Context, id uint64) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getListing(ctx, id)
}

func (s *ExchangeService) getListing(ctx context.Context, id uint64) (*models.Listing, error) {
	listing, found, err := s.records.Listings.Get(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if !found {
		return nil, errListingNotFound
	}
	return &listing, nil
}
