package campaign

import (
	"context"
	"errors"
	"fmt"

	"smartCampaign/business/targeting"
	"smartCampaign/domain"
	"smartCampaign/pkg/logger"

	"github.com/google/uuid"
)

// ---- contract interfaces ----

type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	FindByID(ctx context.Context, id string) (domain.Campaign, error)
	FindAll(ctx context.Context) ([]domain.Campaign, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type AssignmentRepository interface {
	FindCampaignIDsByUserID(ctx context.Context, userID uint) ([]string, error)
}

// TargetingEngine runs the per-launch user scan.
type TargetingEngine interface {
	LaunchCampaign(ctx context.Context, campaign domain.Campaign) (targeting.TargetingResult, error)
}

// LaunchGuard makes a launch single-shot. Acquire returns false when the
// campaign was already launched (or a launch is in flight).
type LaunchGuard interface {
	AcquireLaunch(ctx context.Context, campaignID string) (bool, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

// ActivityRecorder is the slice of the interaction recorder the offers feed
// needs.
type ActivityRecorder interface {
	RecordVisit(ctx context.Context, userID uint) error
	RecordOffersShown(ctx context.Context, userID uint, count int) error
	RecordClick(ctx context.Context, userID uint) error
}

var ErrAlreadyLaunched = errors.New("campaign already launched")

type campaignService struct {
	campaignRepo   CampaignRepository
	assignmentRepo AssignmentRepository
	engine         TargetingEngine
	guard          LaunchGuard
	notifRepo      NotificationRepository
	recorder       ActivityRecorder
	adminName      string
	adminEmail     string
}

func NewCampaignService(
	campaignRepo CampaignRepository,
	assignmentRepo AssignmentRepository,
	engine TargetingEngine,
	guard LaunchGuard,
	notifRepo NotificationRepository,
	recorder ActivityRecorder,
	adminName string,
	adminEmail string,
) *campaignService {
	return &campaignService{
		campaignRepo:   campaignRepo,
		assignmentRepo: assignmentRepo,
		engine:         engine,
		guard:          guard,
		notifRepo:      notifRepo,
		recorder:       recorder,
		adminName:      adminName,
		adminEmail:     adminEmail,
	}
}

// CreateCampaign persists a new campaign in Scheduled state. Start/end times
// are opaque display strings; no scheduler transitions the status.
func (s *campaignService) CreateCampaign(ctx context.Context, campaign *domain.Campaign) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	if campaign.Name == "" {
		return domain.Campaign{}, errors.New("campaign name is required")
	}

	if campaign.Segment < 0 || campaign.Segment >= len(domain.SegmentNames) {
		return domain.Campaign{}, fmt.Errorf("invalid campaign segment %d", campaign.Segment)
	}

	newCampaign := domain.Campaign{
		ID:        uuid.NewString(),
		Name:      campaign.Name,
		Type:      campaign.Type,
		Subject:   campaign.Subject,
		Offer:     campaign.Offer,
		Segment:   campaign.Segment,
		StartTime: campaign.StartTime,
		EndTime:   campaign.EndTime,
		Status:    domain.CampaignStatusScheduled,
	}

	if err := s.campaignRepo.Create(ctx, &newCampaign); err != nil {
		logger.Error("Failed to create campaign", err)
		return domain.Campaign{}, err
	}

	s.notify("New Campaign", fmt.Sprintf("Campaign %q scheduled for segment %s.",
		newCampaign.Name, domain.SegmentNames[newCampaign.Segment]))

	return newCampaign, nil
}

// Launch runs the targeting scan for a stored campaign exactly once. A
// second call for the same campaign returns ErrAlreadyLaunched; the engine
// itself does not deduplicate assignments.
func (s *campaignService) Launch(ctx context.Context, campaignID string) (targeting.TargetingResult, error) {
	if err := ctx.Err(); err != nil {
		return targeting.TargetingResult{}, fmt.Errorf("context error: %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		logger.Error("Campaign not found for launch", err)
		return targeting.TargetingResult{}, err
	}

	ok, err := s.guard.AcquireLaunch(ctx, campaign.ID)
	if err != nil {
		return targeting.TargetingResult{}, fmt.Errorf("acquire launch guard: %w", err)
	}
	if !ok {
		return targeting.TargetingResult{}, ErrAlreadyLaunched
	}

	// The guard stays held on failure: a partially applied scan must not be
	// rerun blindly because the engine would double-append assignments.
	result, err := s.engine.LaunchCampaign(ctx, campaign)
	if err != nil {
		logger.Error("Targeting scan failed", "campaign_id", campaign.ID, "error", err)
		return result, err
	}

	if err := s.campaignRepo.UpdateStatus(ctx, campaign.ID, domain.CampaignStatusLaunched); err != nil {
		logger.Error("Failed to update campaign status", "campaign_id", campaign.ID, "error", err)
		return result, err
	}

	s.notify("Campaign Launched", fmt.Sprintf("Campaign %q launched: %d assigned, %d skipped.",
		campaign.Name, result.Assigned, result.Skipped))

	return result, nil
}

// GetAllCampaigns backs the admin dashboard listing.
func (s *campaignService) GetAllCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all campaigns", err)
		return nil, err
	}

	return campaigns, nil
}

// OffersForUser renders the user's home feed: the assigned campaigns in
// launch order, plus the visit and offers-shown counter updates the feed
// render implies.
func (s *campaignService) OffersForUser(ctx context.Context, userID uint) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.recorder.RecordVisit(ctx, userID); err != nil {
		return nil, err
	}

	campaignIDs, err := s.assignmentRepo.FindCampaignIDsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load assignments", "user_id", userID, "error", err)
		return nil, err
	}

	campaigns := make([]domain.Campaign, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		campaign, err := s.campaignRepo.FindByID(ctx, id)
		if err != nil {
			logger.Warn("Assigned campaign missing", "campaign_id", id, "error", err)
			continue
		}
		campaigns = append(campaigns, campaign)
	}

	if err := s.recorder.RecordOffersShown(ctx, userID, len(campaigns)); err != nil {
		return nil, err
	}

	return campaigns, nil
}

// ClickCampaign tracks a campaign link click and returns the campaign so the
// handler can redirect to its offer.
func (s *campaignService) ClickCampaign(ctx context.Context, userID uint, campaignID string) (domain.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		logger.Error("Campaign not found for click", err)
		return domain.Campaign{}, err
	}

	if err := s.recorder.RecordClick(ctx, userID); err != nil {
		return domain.Campaign{}, err
	}

	return campaign, nil
}

// notify publishes a fire-and-forget admin notification. Failures are logged
// and never fail the operation that triggered them.
func (s *campaignService) notify(subject, message string) {
	if s.notifRepo == nil || s.adminEmail == "" {
		return
	}

	if err := s.notifRepo.SendEmail(s.adminName, s.adminEmail, subject, message); err != nil {
		logger.Warn("Failed to send campaign notification", err)
	}
}
