package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EarningsHandler serves creator balances, ledger history and the
// payout endpoints.
type EarningsHandler struct {
	ledger  *services.LedgerService
	payouts *services.PayoutService
	log     *zap.Logger
}

func NewEarningsHandler(ledger *services.LedgerService, payouts *services.PayoutService, log *zap.Logger) *EarningsHandler {
	return &EarningsHandler{ledger: ledger, payouts: payouts, log: log}
}

func (h *EarningsHandler) Earnings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	acct, err := h.ledger.Earnings(c.Context(), userID)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	txs, err := h.ledger.History(c.Context(), userID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, dto.EarningsResponse{
		AvailableMinor: acct.AvailableMinor,
		PendingMinor:   acct.PendingMinor,
		LifetimeMinor:  acct.LifetimeMinor,
		Transactions:   txs,
	})
}

func (h *EarningsHandler) RequestPayout(c *fiber.Ctx) error {
	var req dto.PayoutRequestBody
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.payouts.Request(c.Context(), middleware.GetUserID(c), req.AmountMinor)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondCreated(c, p)
}

func (h *EarningsHandler) ListPayouts(c *fiber.Ctx) error {
	ps, err := h.payouts.ListMine(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, ps)
}

// AdminSettle drives an open payout through to paid. Used in manual
// payout mode by staff.
func (h *EarningsHandler) AdminSettle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid payout id")
	}
	actor := middleware.GetUserID(c)
	p, err := h.payouts.Settle(c.Context(), &actor, "admin", id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, p)
}

// AdminReject cancels an open payout and returns the held funds.
func (h *EarningsHandler) AdminReject(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid payout id")
	}
	actor := middleware.GetUserID(c)
	p, err := h.payouts.Reject(c.Context(), &actor, "admin", id)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, p)
}

// AdminListOpen lists payouts awaiting settlement.
func (h *EarningsHandler) AdminListOpen(c *fiber.Ctx) error {
	ps, err := h.payouts.ListOpen(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, ps)
}
