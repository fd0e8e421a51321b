package services

import (
	"context"
	"time"

	"github.com/creatorlink/backend/internal/models"
	"go.uber.org/zap"
)

// SettlementOracle decides whether an open payout can be disbursed.
// Production wires a payment gateway here; tests and local setups use
// the simulated gateway.
type SettlementOracle interface {
	Settle(ctx context.Context, p *models.PayoutRequest) (bool, error)
}

// SimulatedGateway approves every payout after a short artificial
// delay. It stands in for a real disbursement rail.
type SimulatedGateway struct {
	Delay time.Duration
	log   *zap.Logger
}

func NewSimulatedGateway(delay time.Duration, log *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, log: log}
}

func (g *SimulatedGateway) Settle(ctx context.Context, p *models.PayoutRequest) (bool, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	g.log.Debug("simulated settlement approved",
		zap.String("payout_id", p.ID.String()),
		zap.Int64("amount_minor", p.AmountMinor),
	)
	return true, nil
}
