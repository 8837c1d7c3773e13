package postgres

import (
	"context"
	"errors"
	"fmt"

	"smartCampaign/business/activity"
	"smartCampaign/business/targeting"
	"smartCampaign/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository persists the per-user behavioural counters. All
// increments are single UPDATE statements with SQL expressions so concurrent
// requests for one user never lose updates.
type ActivityRepository struct {
	DB *gorm.DB
}

var (
	_ activity.ActivityRepository  = (*ActivityRepository)(nil)
	_ targeting.ActivityRepository = (*ActivityRepository)(nil)
)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// EnsureExists creates the zero-counter row if the user has none yet.
func (r *ActivityRepository) EnsureExists(ctx context.Context, userID uint) error {
	row := domain.UserActivity{UserID: userID}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// FindByUserID returns nil without an error when the user was never tracked;
// absence is a valid input for feature extraction.
func (r *ActivityRepository) FindByUserID(ctx context.Context, userID uint) (*domain.UserActivity, error) {
	var row domain.UserActivity

	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user_activities: %w", err)
	}

	return &row, nil
}

// FindAll enumerates the whole store ordered by user_id so launch scans are
// deterministic per run.
func (r *ActivityRepository) FindAll(ctx context.Context) ([]domain.UserActivity, error) {
	var rows []domain.UserActivity

	if err := r.DB.WithContext(ctx).Order("user_id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan user_activities: %w", err)
	}

	return rows, nil
}

func (r *ActivityRepository) IncrementVisits(ctx context.Context, userID uint) error {
	return r.increment(ctx, userID, map[string]interface{}{
		"total_visits":   gorm.Expr("total_visits + ?", 1),
		"last_open_days": 0,
	})
}

func (r *ActivityRepository) IncrementOffersOpened(ctx context.Context, userID uint, count int) error {
	return r.increment(ctx, userID, map[string]interface{}{
		"offers_opened": gorm.Expr("offers_opened + ?", count),
	})
}

func (r *ActivityRepository) IncrementOffersClicked(ctx context.Context, userID uint) error {
	return r.increment(ctx, userID, map[string]interface{}{
		"offers_clicked": gorm.Expr("offers_clicked + ?", 1),
	})
}

func (r *ActivityRepository) IncrementPurchases(ctx context.Context, userID uint) error {
	return r.increment(ctx, userID, map[string]interface{}{
		"purchases": gorm.Expr("purchases + ?", 1),
	})
}

func (r *ActivityRepository) increment(ctx context.Context, userID uint, columns map[string]interface{}) error {
	result := r.DB.WithContext(ctx).
		Model(&domain.UserActivity{}).
		Where("user_id = ?", userID).
		UpdateColumns(columns)

	if result.Error != nil {
		return fmt.Errorf("failed to update user_activities: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.New("activity record not found")
	}

	return nil
}
