package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/metrics"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService fronts the escrow ledger. Writes go through the
// repository's locked append path; reads come straight off the cached
// account balances, with Reconcile available to prove them against the
// transaction history.
type LedgerService struct {
	ledgerRepo *repositories.LedgerRepo
	log        *zap.Logger
}

func NewLedgerService(ledgerRepo *repositories.LedgerRepo, log *zap.Logger) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, log: log}
}

// Append writes one ledger entry in its own transaction.
func (s *LedgerService) Append(ctx context.Context, in repositories.EntryInput) (*models.Transaction, error) {
	t, err := s.ledgerRepo.Append(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.RecordLedgerEntry(t.Kind, t.Debit)
	s.log.Info("ledger entry appended",
		zap.String("user_id", in.UserID.String()),
		zap.String("kind", t.Kind),
		zap.Bool("debit", t.Debit),
		zap.Int64("amount_minor", t.AmountMinor),
	)
	return t, nil
}

// Earnings returns the creator's balance snapshot. Users without any
// ledger history get a zero account rather than an error.
func (s *LedgerService) Earnings(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	acct, err := s.ledgerRepo.GetAccountByUser(ctx, userID)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return &models.Account{UserID: userID}, nil
	}
	return nil, err
}

func (s *LedgerService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	acct, err := s.ledgerRepo.GetAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []models.Transaction{}, nil
		}
		return nil, err
	}
	return s.ledgerRepo.ListTransactions(ctx, acct.ID, limit, offset)
}

// Reconcile replays the full transaction history and compares it with
// the cached balances. A divergence means the ledger was mutated
// outside the append path; it is logged and reported, never repaired
// silently.
func (s *LedgerService) Reconcile(ctx context.Context, userID uuid.UUID) (*models.Snapshot, error) {
	acct, err := s.ledgerRepo.GetAccountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.ledgerRepo.ListAllTransactions(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	replayed, err := models.Replay(txs)
	if err != nil {
		s.log.Error("ledger history does not replay",
			zap.String("account_id", acct.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("replay account %s: %w", acct.ID, apperr.ErrIntegrity)
	}

	stored := models.Snapshot{
		AvailableMinor: acct.AvailableMinor,
		PendingMinor:   acct.PendingMinor,
		LifetimeMinor:  acct.LifetimeMinor,
	}
	if replayed != stored {
		s.log.Error("ledger balance mismatch",
			zap.String("account_id", acct.ID.String()),
			zap.Int64("stored_available", stored.AvailableMinor),
			zap.Int64("replayed_available", replayed.AvailableMinor),
			zap.Int64("stored_pending", stored.PendingMinor),
			zap.Int64("replayed_pending", replayed.PendingMinor),
			zap.Int64("stored_lifetime", stored.LifetimeMinor),
			zap.Int64("replayed_lifetime", replayed.LifetimeMinor),
		)
		return nil, fmt.Errorf("account %s balances diverge from history: %w", acct.ID, apperr.ErrIntegrity)
	}
	return &replayed, nil
}
