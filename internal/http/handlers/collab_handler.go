package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CollabHandler struct {
	collabs *services.CollabService
	log     *zap.Logger
}

func NewCollabHandler(collabs *services.CollabService, log *zap.Logger) *CollabHandler {
	return &CollabHandler{collabs: collabs, log: log}
}

// Invite sends a collaboration request from the caller's campaign to a
// creator.
func (h *CollabHandler) Invite(c *fiber.Ctx) error {
	campaignID, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cr, err := h.collabs.Invite(c.Context(), middleware.GetUserID(c), campaignID, req.CreatorUserID, req.OfferMinor)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondCreated(c, cr)
}

func (h *CollabHandler) Accept(c *fiber.Ctx) error {
	return h.resolve(c, models.DecisionAccept)
}

func (h *CollabHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, models.DecisionReject)
}

func (h *CollabHandler) resolve(c *fiber.Ctx, decision string) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid collab request id")
	}
	cr, err := h.collabs.Resolve(c.Context(), middleware.GetUserID(c), id, decision)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, cr)
}

// Mine lists collaboration requests addressed to the caller.
func (h *CollabHandler) Mine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	f := repositories.CollabFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if middleware.GetUserRole(c) == models.RoleBrand {
		f.InitiatorUserID = &userID
	} else {
		f.CreatorUserID = &userID
	}
	if v := c.Query("status"); v != "" {
		f.Status = &v
	}
	crs, err := h.collabs.List(c.Context(), f)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, crs)
}

// Complete approves the deliverable behind a contract and releases
// its escrow to the creator's available balance.
func (h *CollabHandler) Complete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	contract, err := h.collabs.CompleteContract(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, contract)
}

// Contracts lists the caller's accepted collaborations.
func (h *CollabHandler) Contracts(c *fiber.Ctx) error {
	contracts, err := h.collabs.ListContractsByCreator(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, contracts)
}
