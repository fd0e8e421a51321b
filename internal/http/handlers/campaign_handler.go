package handlers

import (
	"context"

	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaigns *services.CampaignService
	log       *zap.Logger
}

func NewCampaignHandler(campaigns *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, log: log}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	campaign, err := h.campaigns.Create(c.Context(), middleware.GetUserID(c), campaignInput(req))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondCreated(c, campaign)
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	campaign, err := h.campaigns.Get(c.Context(), id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, campaign)
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	f := repositories.CampaignFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("status"); v != "" {
		f.Status = &v
	}
	if v := c.Query("brand_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return badRequest(c, "invalid brand_id")
		}
		f.BrandUserID = &id
	}
	campaigns, err := h.campaigns.List(c.Context(), f)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, campaigns)
}

// Mine lists only the caller's campaigns.
func (h *CampaignHandler) Mine(c *fiber.Ctx) error {
	brandID := middleware.GetUserID(c)
	f := repositories.CampaignFilter{
		BrandUserID: &brandID,
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	if v := c.Query("status"); v != "" {
		f.Status = &v
	}
	campaigns, err := h.campaigns.List(c.Context(), f)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, campaigns)
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	campaign, err := h.campaigns.Update(c.Context(), middleware.GetUserID(c), id, campaignInput(req))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, campaign)
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	if err := h.campaigns.Delete(c.Context(), middleware.GetUserID(c), id); err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, nil)
}

func (h *CampaignHandler) Publish(c *fiber.Ctx) error {
	return h.lifecycle(c, h.campaigns.Publish)
}

func (h *CampaignHandler) Pause(c *fiber.Ctx) error {
	return h.lifecycle(c, h.campaigns.Pause)
}

func (h *CampaignHandler) Resume(c *fiber.Ctx) error {
	return h.lifecycle(c, h.campaigns.Resume)
}

func (h *CampaignHandler) Complete(c *fiber.Ctx) error {
	return h.lifecycle(c, h.campaigns.Complete)
}

func (h *CampaignHandler) Archive(c *fiber.Ctx) error {
	return h.lifecycle(c, h.campaigns.Archive)
}

func (h *CampaignHandler) lifecycle(c *fiber.Ctx, fn func(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error)) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	campaign, err := fn(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, campaign)
}

func campaignInput(req dto.CampaignRequest) services.CampaignInput {
	return services.CampaignInput{
		Title:        req.Title,
		Description:  req.Description,
		BudgetMinor:  req.BudgetMinor,
		Niche:        req.Niche,
		MinFollowers: req.MinFollowers,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
}
