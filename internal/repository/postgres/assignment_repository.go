package postgres

import (
	"context"
	"fmt"

	"smartCampaign/business/campaign"
	"smartCampaign/business/targeting"
	"smartCampaign/domain"

	"gorm.io/gorm"
)

// AssignmentRepository is the append-only record of which campaigns the
// targeting engine selected for which users.
type AssignmentRepository struct {
	DB *gorm.DB
}

var (
	_ targeting.AssignmentRepository = (*AssignmentRepository)(nil)
	_ campaign.AssignmentRepository  = (*AssignmentRepository)(nil)
)

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Append(ctx context.Context, userID uint, campaignID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := domain.CampaignAssignment{
		UserID:     userID,
		CampaignID: campaignID,
	}

	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append assignment: %w", err)
	}

	return nil
}

// FindCampaignIDsByUserID returns the user's campaigns in launch order
// (insertion order of the append-only table).
func (r *AssignmentRepository) FindCampaignIDsByUserID(ctx context.Context, userID uint) ([]string, error) {
	var ids []string

	err := r.DB.WithContext(ctx).
		Model(&domain.CampaignAssignment{}).
		Where("user_id = ?", userID).
		Order("id asc").
		Pluck("campaign_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign_assignments: %w", err)
	}

	return ids, nil
}
