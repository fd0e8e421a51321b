package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *services.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// Quote prices a base offer amount including platform fee and GST.
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var req dto.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	q, err := h.checkout.Quote(req.BaseMinor)
	if err != nil {
		return respondErr(c, h.log, err)
	}
	return respondOK(c, q)
}
