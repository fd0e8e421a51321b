package services

import (
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/shopspring/decimal"
)

// CheckoutService prices a collaboration offer. Fees are configured in
// basis points and applied to the base amount, rounded half-up to
// whole minor units.
type CheckoutService struct {
	platformFeeBPS int
	gstBPS         int
}

func NewCheckoutService(platformFeeBPS, gstBPS int) *CheckoutService {
	return &CheckoutService{platformFeeBPS: platformFeeBPS, gstBPS: gstBPS}
}

type Quote struct {
	BaseMinor        int64 `json:"base_minor"`
	PlatformFeeMinor int64 `json:"platform_fee_minor"`
	GSTMinor         int64 `json:"gst_minor"`
	TotalMinor       int64 `json:"total_minor"`
}

// Quote breaks a base amount into fee components and the total the
// brand pays.
func (s *CheckoutService) Quote(baseMinor int64) (*Quote, error) {
	if baseMinor <= 0 {
		return nil, fmt.Errorf("base amount must be positive: %w", apperr.ErrInvalidAmount)
	}

	fee := bpsOf(baseMinor, s.platformFeeBPS)
	gst := bpsOf(baseMinor, s.gstBPS)
	return &Quote{
		BaseMinor:        baseMinor,
		PlatformFeeMinor: fee,
		GSTMinor:         gst,
		TotalMinor:       baseMinor + fee + gst,
	}, nil
}

// bpsOf computes amount * bps / 10000, rounded half-up to a whole
// minor unit.
func bpsOf(amountMinor int64, bps int) int64 {
	return decimal.NewFromInt(amountMinor).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}
