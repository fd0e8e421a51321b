package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Transaction kinds. Amounts are stored in currency minor units (paise).
const (
	TxKindFunded     = "funded"     // brand commitment held in escrow for a creator
	TxKindPaid       = "paid"       // escrow release (credit) or payout settlement marker (debit)
	TxKindRequested  = "requested"  // payout hold against available balance
	TxKindProcessing = "processing" // payout settlement in flight (marker)
	TxKindCompleted  = "completed"  // payout-hold refund after a rejected settlement
)

// Counterparty for payout transactions. Campaign-linked transactions
// use the campaign id as counterparty instead.
const CounterpartyWithdrawal = "withdrawal"

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrInsufficient      = errors.New("insufficient available balance")
	ErrPendingUnderflow  = errors.New("pending escrow underflow")
	ErrUnknownKind       = errors.New("unknown transaction kind")
)

// Account tracks one creator's escrow balances. Created lazily on the
// first transaction, never deleted.
type Account struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	AvailableMinor int64     `json:"available_minor"`
	PendingMinor   int64     `json:"pending_minor"`
	LifetimeMinor  int64     `json:"lifetime_minor"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is an immutable ledger entry. Balances are maintained
// incrementally but must always be reconstructible by replaying the
// account's transactions through ApplyEntry.
type Transaction struct {
	ID           uuid.UUID  `json:"id"`
	AccountID    uuid.UUID  `json:"account_id"`
	Kind         string     `json:"kind"`
	Debit        bool       `json:"debit"`
	AmountMinor  int64      `json:"amount_minor"`
	Counterparty string     `json:"counterparty"`
	CampaignID   *uuid.UUID `json:"campaign_id,omitempty"`
	ContractID   *uuid.UUID `json:"contract_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Snapshot is the derived balance view of an account.
type Snapshot struct {
	AvailableMinor int64 `json:"available_minor"`
	PendingMinor   int64 `json:"pending_minor"`
	LifetimeMinor  int64 `json:"lifetime_minor"`
}

// Valid reports whether the snapshot honors the ledger invariants:
// available >= 0, pending >= 0, available+pending <= lifetime.
func (s Snapshot) Valid() bool {
	return s.AvailableMinor >= 0 && s.PendingMinor >= 0 &&
		s.AvailableMinor+s.PendingMinor <= s.LifetimeMinor
}

// ApplyEntry applies a single ledger entry to a snapshot and returns
// the new snapshot. It is the single place balance arithmetic lives;
// repositories persist exactly what it computes.
//
//	credit funded:     pending  += a, lifetime += a
//	credit paid:       pending  -= a, available += a (escrow release)
//	credit completed:  available += a (payout-hold refund)
//	debit  requested:  available -= a (payout hold)
//	debit  processing: no balance effect (settlement marker)
//	debit  paid:       no balance effect (funds already held at request)
func ApplyEntry(s Snapshot, kind string, debit bool, amountMinor int64) (Snapshot, error) {
	if amountMinor <= 0 {
		return s, ErrNonPositiveAmount
	}

	if debit {
		switch kind {
		case TxKindRequested:
			s.AvailableMinor -= amountMinor
			if s.AvailableMinor < 0 {
				return s, ErrInsufficient
			}
		case TxKindProcessing, TxKindPaid:
			// settlement markers, no balance effect
		default:
			return s, ErrUnknownKind
		}
		return s, nil
	}

	switch kind {
	case TxKindFunded:
		s.PendingMinor += amountMinor
		s.LifetimeMinor += amountMinor
	case TxKindPaid:
		s.PendingMinor -= amountMinor
		if s.PendingMinor < 0 {
			return s, ErrPendingUnderflow
		}
		s.AvailableMinor += amountMinor
	case TxKindCompleted:
		s.AvailableMinor += amountMinor
	default:
		return s, ErrUnknownKind
	}
	return s, nil
}

// Replay rebuilds a snapshot from the full transaction history,
// oldest first. Used to reconcile cached account balances.
func Replay(txs []Transaction) (Snapshot, error) {
	var s Snapshot
	for _, tx := range txs {
		next, err := ApplyEntry(s, tx.Kind, tx.Debit, tx.AmountMinor)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}
