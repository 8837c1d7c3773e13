package targeting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"smartCampaign/domain"
	"smartCampaign/pkg/logger"

	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type ActivityRepository interface {
	// FindAll enumerates every activity row ordered by user_id ascending so
	// a launch scan is deterministic per run.
	FindAll(ctx context.Context) ([]domain.UserActivity, error)
	// FindByUserID returns nil (no error) when the user has no activity row.
	FindByUserID(ctx context.Context, userID uint) (*domain.UserActivity, error)
}

type AssignmentRepository interface {
	Append(ctx context.Context, userID uint, campaignID string) error
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.TargetingEvent) error
}

// ---- Usecase / Service ----

type Config struct {
	// Per-user classifier call budget. On timeout the user is skipped, the
	// scan continues.
	ClassifierTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ClassifierTimeout: 3 * time.Second,
	}
}

// TargetingResult summarizes one launch scan.
type TargetingResult struct {
	Evaluated int `json:"evaluated"`
	Assigned  int `json:"assigned"`
	Skipped   int `json:"skipped"`
}

// Decision is the per-user outcome exposed by the preview endpoint.
type Decision struct {
	UserID     uint          `json:"user_id"`
	Features   FeatureVector `json:"features"`
	Prediction Prediction    `json:"prediction"`
	Eligible   bool          `json:"eligible"`
}

type TargetingService struct {
	activityRepo   ActivityRepository
	assignmentRepo AssignmentRepository
	eventRepo      EventRepository
	classifier     Classifier
	cfg            Config
}

func NewTargetingService(
	activityRepo ActivityRepository,
	assignmentRepo AssignmentRepository,
	eventRepo EventRepository,
	classifier Classifier,
	cfg Config,
) *TargetingService {
	if cfg.ClassifierTimeout <= 0 {
		cfg.ClassifierTimeout = DefaultConfig().ClassifierTimeout
	}

	return &TargetingService{
		activityRepo:   activityRepo,
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		classifier:     classifier,
		cfg:            cfg,
	}
}

// LaunchCampaign runs the targeting scan for a newly created campaign: every
// known user is featurized, classified, and assigned the campaign when the
// eligibility rule holds. Classifier failures skip the affected user only;
// assignment-store failures abort the scan. Activity rows are read-only here.
func (s *TargetingService) LaunchCampaign(ctx context.Context, campaign domain.Campaign) (TargetingResult, error) {
	if err := ctx.Err(); err != nil {
		return TargetingResult{}, fmt.Errorf("context error: %w", err)
	}

	rows, err := s.activityRepo.FindAll(ctx)
	if err != nil {
		return TargetingResult{}, fmt.Errorf("scan activity store: %w", err)
	}

	segLabel := strconv.Itoa(campaign.Segment)
	tid := TraceIDFromContext(ctx)

	var result TargetingResult
	for i := range rows {
		row := rows[i]

		pred, err := s.classify(ctx, &row)
		if err != nil {
			result.Skipped++
			LaunchUsersTotal.WithLabelValues("skipped", segLabel).Inc()
			logger.Warn("targeting_user_skipped",
				"trace_id", tid,
				"campaign_id", campaign.ID,
				"user_id", row.UserID,
				"error", err,
			)
			continue
		}

		result.Evaluated++

		if !Eligible(pred, campaign.Segment, row.TotalVisits) {
			LaunchUsersTotal.WithLabelValues("rejected", segLabel).Inc()
			continue
		}

		if err := s.assignmentRepo.Append(ctx, row.UserID, campaign.ID); err != nil {
			return result, fmt.Errorf("append assignment for user %d: %w", row.UserID, err)
		}

		result.Assigned++
		LaunchUsersTotal.WithLabelValues("assigned", segLabel).Inc()
	}

	LaunchScansTotal.Inc()

	logger.Info("targeting_launch_done",
		"trace_id", tid,
		"campaign_id", campaign.ID,
		"segment", campaign.Segment,
		"evaluated", result.Evaluated,
		"assigned", result.Assigned,
		"skipped", result.Skipped,
	)

	s.saveAuditEvent(ctx, campaign, result)

	return result, nil
}

// PreviewUser evaluates a single user against a segment without writing
// anything. Missing activity rows go through the same never-seen default as
// the launch scan.
func (s *TargetingService) PreviewUser(ctx context.Context, userID uint, campaignSegment int) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, fmt.Errorf("context error: %w", err)
	}

	if campaignSegment < 0 || campaignSegment >= numSegments {
		return Decision{}, fmt.Errorf("segment %d out of range [0,%d)", campaignSegment, numSegments)
	}

	activity, err := s.activityRepo.FindByUserID(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("load activity for user %d: %w", userID, err)
	}

	pred, err := s.classify(ctx, activity)
	if err != nil {
		return Decision{}, err
	}

	totalVisits := 1
	if activity != nil {
		totalVisits = activity.TotalVisits
	}

	return Decision{
		UserID:     userID,
		Features:   Extract(activity),
		Prediction: pred,
		Eligible:   Eligible(pred, campaignSegment, totalVisits),
	}, nil
}

func (s *TargetingService) classify(ctx context.Context, activity *domain.UserActivity) (Prediction, error) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ClassifierTimeout)
	defer cancel()

	start := time.Now()
	pred, err := s.classifier.Predict(cctx, Extract(activity))
	ClassifierLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		return Prediction{}, fmt.Errorf("classifier predict: %w", err)
	}

	if err := ValidatePrediction(pred); err != nil {
		return Prediction{}, err
	}

	return pred, nil
}

// saveAuditEvent persists the scan summary. Auditing is best-effort: a
// failed write is logged and does not fail an otherwise successful launch.
func (s *TargetingService) saveAuditEvent(ctx context.Context, campaign domain.Campaign, result TargetingResult) {
	if s.eventRepo == nil {
		return
	}

	event := domain.TargetingEvent{
		CampaignID: campaign.ID,
		Evaluated:  result.Evaluated,
		Assigned:   result.Assigned,
		Skipped:    result.Skipped,
		Context: datatypes.JSONMap{
			"segment":      campaign.Segment,
			"segment_name": domain.SegmentNames[campaign.Segment],
			"event_time":   time.Now().Format(time.RFC3339),
		},
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		logger.Warn("targeting_audit_event_failed", "campaign_id", campaign.ID, "error", err)
	}
}
