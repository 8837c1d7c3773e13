package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartCampaign/business/campaign"
	"smartCampaign/business/targeting"
	"smartCampaign/domain"
	"smartCampaign/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CampaignHandler struct {
		validate        *validator.Validate
		campaignService CampaignService
		previewer       TargetingPreviewer
		timeout         time.Duration
	}

	CampaignService interface {
		CreateCampaign(ctx context.Context, campaign *domain.Campaign) (domain.Campaign, error)
		Launch(ctx context.Context, campaignID string) (targeting.TargetingResult, error)
		GetAllCampaigns(ctx context.Context) ([]domain.Campaign, error)
		OffersForUser(ctx context.Context, userID uint) ([]domain.Campaign, error)
		ClickCampaign(ctx context.Context, userID uint, campaignID string) (domain.Campaign, error)
	}

	// TargetingPreviewer exposes a dry-run decision for one user without
	// writing assignments.
	TargetingPreviewer interface {
		PreviewUser(ctx context.Context, userID uint, campaignSegment int) (Decision, error)
	}

	Decision = targeting.Decision

	CampaignCreateRequest struct {
		Name      string `json:"name" validate:"required"`
		Type      string `json:"type"`
		Subject   string `json:"subject"`
		Offer     string `json:"offer"`
		Segment   string `json:"segment" validate:"required,oneof=engaged frequent_visitor loyal new_users"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	PreviewQuery struct {
		UserID  uint   `query:"user_id" validate:"required"`
		Segment string `query:"segment" validate:"required,oneof=engaged frequent_visitor loyal new_users"`
	}
)

func NewCampaignHandler(svc CampaignService, previewer TargetingPreviewer) *CampaignHandler {
	return &CampaignHandler{
		validate:        validator.New(),
		campaignService: svc,
		previewer:       previewer,
		timeout:         10 * time.Second,
	}
}

// Create stores a campaign in Scheduled state and immediately launches its
// targeting scan, mirroring the one-step flow of the admin form.
func (h *CampaignHandler) Create(c echo.Context) error {
	var req CampaignCreateRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid campaign request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate campaign create", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	segment, ok := domain.FormSegments[req.Segment]
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "unknown segment " + req.Segment})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.campaignService.CreateCampaign(ctx, &domain.Campaign{
		Name:      req.Name,
		Type:      req.Type,
		Subject:   req.Subject,
		Offer:     req.Offer,
		Segment:   segment,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		logger.Error("Failed to create campaign", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.campaignService.Launch(ctx, created.ID)
	if err != nil {
		logger.Error("Failed to launch campaign", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Campaign launched",
		"campaign": created,
		"result":   result,
	})
}

// Launch runs the targeting scan for an already stored campaign.
func (h *CampaignHandler) Launch(c echo.Context) error {
	campaignID := c.Param("id")
	if campaignID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "campaign ID is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.campaignService.Launch(ctx, campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrAlreadyLaunched) {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// Dashboard lists every campaign for the admin view.
func (h *CampaignHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaigns, err := h.campaignService.GetAllCampaigns(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(campaigns))
}

// Preview returns the model decision for one user and segment without
// persisting anything.
func (h *CampaignHandler) Preview(c echo.Context) error {
	var q PreviewQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	segment, ok := domain.FormSegments[q.Segment]
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "unknown segment " + q.Segment})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	decision, err := h.previewer.PreviewUser(ctx, q.UserID, segment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decision))
}

// Offers renders the logged-in user's home feed of assigned campaigns.
func (h *CampaignHandler) Offers(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	offers, err := h.campaignService.OffersForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(offers))
}

// Click records a campaign link click for the logged-in user.
func (h *CampaignHandler) Click(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	campaignID := c.Param("id")
	if campaignID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "campaign ID is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	clicked, err := h.campaignService.ClickCampaign(ctx, userID, campaignID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(clicked))
}
