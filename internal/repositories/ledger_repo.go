package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepo owns accounts and the append-only transaction history.
// All balance mutation funnels through AppendIn, which serializes on
// the account row (FOR UPDATE NOWAIT) so the balance check and the
// mutation cannot be separated by a concurrent writer.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// EntryInput describes one ledger entry to append.
type EntryInput struct {
	UserID       uuid.UUID
	AmountMinor  int64
	Kind         string
	Debit        bool
	Counterparty string
	CampaignID   *uuid.UUID
	ContractID   *uuid.UUID
}

func (r *LedgerRepo) Pool() *pgxpool.Pool {
	return r.pool
}

// Append runs AppendIn in its own transaction.
func (r *LedgerRepo) Append(ctx context.Context, in EntryInput) (*models.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, translatePgError("begin ledger append", err)
	}
	defer tx.Rollback(ctx)

	t, err := r.AppendIn(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, translatePgError("commit ledger append", err)
	}
	return t, nil
}

// AppendIn appends a ledger entry inside the caller's transaction.
// The account is created lazily, locked, and its balances recomputed
// through models.ApplyEntry. Entries of kind funded that reference a
// campaign also bump the campaign's spent counter under the same
// lock discipline, rejecting budget overruns.
func (r *LedgerRepo) AppendIn(ctx context.Context, tx pgx.Tx, in EntryInput) (*models.Transaction, error) {
	acct, err := lockAccount(ctx, tx, in.UserID)
	if err != nil {
		return nil, err
	}

	snap := models.Snapshot{
		AvailableMinor: acct.AvailableMinor,
		PendingMinor:   acct.PendingMinor,
		LifetimeMinor:  acct.LifetimeMinor,
	}
	next, err := models.ApplyEntry(snap, in.Kind, in.Debit, in.AmountMinor)
	if err != nil {
		return nil, translateLedgerError(err)
	}

	if in.CampaignID != nil && !in.Debit && in.Kind == models.TxKindFunded {
		if err := chargeCampaign(ctx, tx, *in.CampaignID, in.AmountMinor); err != nil {
			return nil, err
		}
	}

	t := &models.Transaction{
		AccountID:    acct.ID,
		Kind:         in.Kind,
		Debit:        in.Debit,
		AmountMinor:  in.AmountMinor,
		Counterparty: in.Counterparty,
		CampaignID:   in.CampaignID,
		ContractID:   in.ContractID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (account_id, kind, debit, amount_minor, counterparty, campaign_id, contract_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, t.AccountID, t.Kind, t.Debit, t.AmountMinor, t.Counterparty, t.CampaignID, t.ContractID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, translatePgError("insert transaction", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE accounts SET available_minor = $1, pending_minor = $2, lifetime_minor = $3, updated_at = now()
		WHERE id = $4
	`, next.AvailableMinor, next.PendingMinor, next.LifetimeMinor, acct.ID)
	if err != nil {
		return nil, translatePgError("update account balances", err)
	}

	return t, nil
}

// GetAccountByUser returns the account for a user, or NotFound if no
// transaction has ever touched it.
func (r *LedgerRepo) GetAccountByUser(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, available_minor, pending_minor, lifetime_minor, created_at, updated_at
		FROM accounts WHERE user_id = $1
	`, userID).Scan(&a.ID, &a.UserID, &a.AvailableMinor, &a.PendingMinor, &a.LifetimeMinor, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translatePgError("get account", err)
	}
	return &a, nil
}

func (r *LedgerRepo) ListTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, kind, debit, amount_minor, counterparty, campaign_id, contract_id, created_at
		FROM transactions WHERE account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, translatePgError("list transactions", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Debit, &t.AmountMinor, &t.Counterparty,
			&t.CampaignID, &t.ContractID, &t.CreatedAt); err != nil {
			return nil, translatePgError("scan transaction", err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// ListAllTransactions returns the account's full history oldest-first
// for balance reconciliation via models.Replay.
func (r *LedgerRepo) ListAllTransactions(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, kind, debit, amount_minor, counterparty, campaign_id, contract_id, created_at
		FROM transactions WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`, accountID)
	if err != nil {
		return nil, translatePgError("list all transactions", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Debit, &t.AmountMinor, &t.Counterparty,
			&t.CampaignID, &t.ContractID, &t.CreatedAt); err != nil {
			return nil, translatePgError("scan transaction", err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// lockAccount creates the account row if absent and takes the row
// lock. A held lock elsewhere surfaces as contention, not a hang.
func lockAccount(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Account, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO accounts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, translatePgError("create account", err)
	}

	var a models.Account
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, available_minor, pending_minor, lifetime_minor, created_at, updated_at
		FROM accounts WHERE user_id = $1
		FOR UPDATE NOWAIT
	`, userID).Scan(&a.ID, &a.UserID, &a.AvailableMinor, &a.PendingMinor, &a.LifetimeMinor, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translatePgError("lock account", err)
	}
	return &a, nil
}

// chargeCampaign locks the campaign row and adds to its spent
// counter, enforcing the declared budget in the same transaction as
// the ledger write.
func chargeCampaign(ctx context.Context, tx pgx.Tx, campaignID uuid.UUID, amountMinor int64) error {
	var budget *int64
	var spent int64
	err := tx.QueryRow(ctx, `
		SELECT budget_minor, spent_minor FROM campaigns WHERE id = $1
		FOR UPDATE NOWAIT
	`, campaignID).Scan(&budget, &spent)
	if err != nil {
		return translatePgError("lock campaign", err)
	}

	if budget != nil && spent+amountMinor > *budget {
		return fmt.Errorf("campaign %s: spent %d + %d over budget %d: %w",
			campaignID, spent, amountMinor, *budget, apperr.ErrBudgetExceeded)
	}

	_, err = tx.Exec(ctx, `
		UPDATE campaigns SET spent_minor = spent_minor + $1, updated_at = now() WHERE id = $2
	`, amountMinor, campaignID)
	return translatePgError("charge campaign", err)
}

func translateLedgerError(err error) error {
	switch {
	case errors.Is(err, models.ErrNonPositiveAmount):
		return fmt.Errorf("%w", apperr.ErrInvalidAmount)
	case errors.Is(err, models.ErrInsufficient):
		return fmt.Errorf("%w", apperr.ErrInsufficientFunds)
	case errors.Is(err, models.ErrPendingUnderflow), errors.Is(err, models.ErrUnknownKind):
		return fmt.Errorf("%v: %w", err, apperr.ErrIntegrity)
	default:
		return err
	}
}
