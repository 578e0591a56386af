package api

import (
	"context"
	"math"

	"kes-exchange-go/internal/models"
	"kes-exchange-go/internal/validation"

	"go.uber.org/zap"
)

// CreateFeedback records a rating left by a user on a swap request.
func (s *ExchangeService) CreateFeedback(ctx context.Context, payload models.FeedbackPayload) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateRating(payload.Rating); err != nil {
		return nil, fromValidation(err)
	}

	if _, err := s.getUser(ctx, payload.UserId); err != nil {
		return nil, err
	}
	if _, err := s.getSwapRequest(ctx, payload.SwapRequestId); err != nil {
		return nil, err
	}

	feedback := models.Feedback{
		Id:            math.MaxUint64,
		UserId:        payload.UserId,
		SwapRequestId: payload.SwapRequestId,
		Rating:        payload.Rating,
		Comment:       payload.Comment,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.records.Feedback.Fits(feedback); err != nil {
		return nil, fromStore(err)
	}

	id, err := s.records.Ids.Next(ctx)
	if err != nil {
		zap.L().Error("Failed to allocate feedback id", zap.Error(err))
		return nil, fromStore(err)
	}
	feedback.Id = id

	if err := s.records.Feedback.Put(ctx, id, feedback); err != nil {
		zap.L().Error("Failed to store feedback", zap.Uint64("id", id), zap.Error(err))
		return nil, fromStore(err)
	}

	zap.L().Info("Feedback recorded",
		zap.Uint64("id", id),
		zap.Uint64("swap_request_id", feedback.SwapRequestId),
		zap.Uint8("rating", feedback.Rating))

	return &feedback, nil
}
