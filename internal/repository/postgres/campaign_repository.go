package postgres

import (
	"context"
	"errors"
	"fmt"

	"smartCampaign/business/campaign"
	"smartCampaign/domain"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

var _ campaign.CampaignRepository = (*CampaignRepository)(nil)

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (domain.Campaign, error) {
	var c domain.Campaign

	err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, errors.New("campaign not found")
		}
		return domain.Campaign{}, err
	}

	return c, nil
}

// FindAll backs the admin dashboard, newest campaign first.
func (r *CampaignRepository) FindAll(ctx context.Context) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign

	if err := r.DB.WithContext(ctx).Order("created_at desc").Find(&campaigns).Error; err != nil {
		return nil, err
	}

	return campaigns, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.DB.WithContext(ctx).
		Model(&domain.Campaign{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("campaign not found")
	}

	return nil
}
