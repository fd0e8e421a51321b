package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	log           *zap.Logger
}

func NewNotificationHandler(notifications *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, err := h.notifications.List(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, page)
}

func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid notification id")
	}
	if err := h.notifications.Dismiss(c.Context(), middleware.GetUserID(c), id); err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, nil)
}

// Resolve answers the collab invite behind a notification and marks
// the notification read.
func (h *NotificationHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid notification id")
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cr, err := h.notifications.ResolveAction(c.Context(), middleware.GetUserID(c), id, req.Decision)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, cr)
}
