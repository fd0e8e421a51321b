package handlers

import (
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  *repositories.UserRepo
	ledger *services.LedgerService
	log    *zap.Logger
}

func NewUserHandler(users *repositories.UserRepo, ledger *services.LedgerService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, ledger: ledger, log: log}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	if err := h.users.UpdateLastActive(c.Context(), userID); err != nil {
		h.log.Warn("last active update failed", zap.Error(err))
	}
	return respondOK(c, u)
}

// Reconcile replays the caller's ledger history against the cached
// balances. Admin diagnostic.
func (h *UserHandler) Reconcile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	snap, err := h.ledger.Reconcile(c.Context(), id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, snap)
}
