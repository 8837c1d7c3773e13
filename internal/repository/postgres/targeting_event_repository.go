package postgres

import (
	"context"
	"fmt"

	"smartCampaign/business/targeting"
	"smartCampaign/domain"

	"gorm.io/gorm"
)

type TargetingEventRepository struct {
	DB *gorm.DB
}

var _ targeting.EventRepository = (*TargetingEventRepository)(nil)

func NewTargetingEventRepository(db *gorm.DB) *TargetingEventRepository {
	return &TargetingEventRepository{DB: db}
}

func (r *TargetingEventRepository) SaveEvent(ctx context.Context, event domain.TargetingEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save targeting event: %w", err)
	}

	return nil
}
