package api

import (
	"context"
	"math"

	"kes-exchange-go/internal/models"

	"go.uber.org/zap"
)

var errSwapRequestNotFound = newError(KindNotFound, "Swap request not found")

// CreateSwapRequest opens a pending request for someone else's listing.
// The requester is not required to exist.
func (s *ExchangeService) CreateSwapRequest(ctx context.Context, payload models.SwapRequestPayload) (*models.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.getListing(ctx, payload.ListingId)
	if err != nil {
		return nil, err
	}

	if listing.UserId == payload.RequestedById {
		zap.L().Warn("Rejected self swap request",
			zap.Uint64("listing_id", listing.Id),
			zap.Uint64("user_id", payload.RequestedById))
		return nil, ErrUnauthorized
	}

	request := models.SwapRequest{
		Id:            math.MaxUint64,
		ListingId:     payload.ListingId,
		RequestedById: payload.RequestedById,
		Status:        models.SwapStatusPending,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.records.SwapRequests.Fits(request); err != nil {
		return nil, fromStore(err)
	}

	id, err := s.records.Ids.Next(ctx)
	if err != nil {
		zap.L().Error("Failed to allocate swap request id", zap.Error(err))
		return nil, fromStore(err)
	}
	request.Id = id

	if err := s.records.SwapRequests.Put(ctx, id, request); err != nil {
		zap.L().Error("Failed to store swap request", zap.Uint64("id", id), zap.Error(err))
		return nil, fromStore(err)
	}

	zap.L().Info("Swap request created",
		zap.Uint64("id", id),
		zap.Uint64("listing_id", request.ListingId),
		zap.Uint64("requested_by_id", request.RequestedById))

	return &request, nil
}

func (s *ExchangeService) GetSwapRequest(ctx context.Context, id uint64) (*models.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getSwapRequest(ctx, id)
}

func (s *ExchangeService) getSwapRequest(ctx context.Context, id uint64) (*models.SwapRequest, error) {
	request, found, err := s.records.SwapRequests.Get(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if !found {
		return nil, errSwapRequestNotFound
	}
	return &request, nil
}
