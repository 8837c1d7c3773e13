package activity

import (
	"context"
	"errors"
	"fmt"

	"smartCampaign/domain"
	"smartCampaign/pkg/logger"
)

// ActivityRepository contract interface. Increments must be single-statement
// atomic adds against the store, never read-modify-write in the caller, so
// concurrent requests for one user cannot lose updates.
type ActivityRepository interface {
	EnsureExists(ctx context.Context, userID uint) error
	FindByUserID(ctx context.Context, userID uint) (*domain.UserActivity, error)
	IncrementVisits(ctx context.Context, userID uint) error
	IncrementOffersOpened(ctx context.Context, userID uint, count int) error
	IncrementOffersClicked(ctx context.Context, userID uint) error
	IncrementPurchases(ctx context.Context, userID uint) error
}

type activityService struct {
	activityRepo ActivityRepository
}

func NewActivityService(activityRepo ActivityRepository) *activityService {
	return &activityService{
		activityRepo: activityRepo,
	}
}

// RecordVisit bumps total_visits and resets the recency counter. Invoked on
// every login and every home-view render.
func (s *activityService) RecordVisit(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}

	if err := s.activityRepo.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure activity row: %w", err)
	}

	if err := s.activityRepo.IncrementVisits(ctx, userID); err != nil {
		logger.Error("Failed to record visit", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// RecordOffersShown bumps offers_opened by the number of campaigns rendered
// on the user's home view.
func (s *activityService) RecordOffersShown(ctx context.Context, userID uint, count int) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}

	if count <= 0 {
		return nil
	}

	if err := s.activityRepo.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure activity row: %w", err)
	}

	if err := s.activityRepo.IncrementOffersOpened(ctx, userID, count); err != nil {
		logger.Error("Failed to record offers shown", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// RecordClick bumps offers_clicked when the user follows a campaign link.
func (s *activityService) RecordClick(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}

	if err := s.activityRepo.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure activity row: %w", err)
	}

	if err := s.activityRepo.IncrementOffersClicked(ctx, userID); err != nil {
		logger.Error("Failed to record click", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// RecordPurchase bumps the user's purchase counter on checkout completion.
func (s *activityService) RecordPurchase(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}

	if err := s.activityRepo.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure activity row: %w", err)
	}

	if err := s.activityRepo.IncrementPurchases(ctx, userID); err != nil {
		logger.Error("Failed to record purchase", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// GetActivity returns the raw counters, nil when the user was never tracked.
func (s *activityService) GetActivity(ctx context.Context, userID uint) (*domain.UserActivity, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}

	return s.activityRepo.FindByUserID(ctx, userID)
}
