package redis

import (
	"context"
	"fmt"
	"time"

	"smartCampaign/business/campaign"

	"github.com/redis/go-redis/v9"
)

// LaunchGuardRepository makes campaign launches single-shot across all
// server instances: the first SETNX for a campaign ID wins, every later
// attempt is rejected. The marker never expires since a campaign is launched
// at most once in its lifetime.
type LaunchGuardRepository struct {
	client *redis.Client
}

var _ campaign.LaunchGuard = (*LaunchGuardRepository)(nil)

func NewLaunchGuardRepository(client *redis.Client) *LaunchGuardRepository {
	return &LaunchGuardRepository{
		client: client,
	}
}

func (r *LaunchGuardRepository) AcquireLaunch(ctx context.Context, campaignID string) (bool, error) {
	key := fmt.Sprintf("campaign:launched:%s", campaignID)

	ok, err := r.client.SetNX(ctx, key, time.Now().Format(time.RFC3339), 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire launch marker: %w", err)
	}

	return ok, nil
}
