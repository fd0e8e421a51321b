package models

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestApplyEntryFundedThenRelease(t *testing.T) {
	s := Snapshot{}

	s, err := ApplyEntry(s, TxKindFunded, false, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if s.PendingMinor != 5000 || s.LifetimeMinor != 5000 || s.AvailableMinor != 0 {
		t.Fatalf("after funding: %+v", s)
	}

	s, err = ApplyEntry(s, TxKindPaid, false, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if s.AvailableMinor != 5000 || s.PendingMinor != 0 || s.LifetimeMinor != 5000 {
		t.Fatalf("after release: %+v", s)
	}
	if !s.Valid() {
		t.Fatalf("snapshot violates invariants: %+v", s)
	}
}

func TestApplyEntryRejectsNonPositive(t *testing.T) {
	for _, amount := range []int64{0, -1, -5000} {
		if _, err := ApplyEntry(Snapshot{}, TxKindFunded, false, amount); !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("amount %d: got %v, want ErrNonPositiveAmount", amount, err)
		}
	}
}

func TestApplyEntryInsufficientFunds(t *testing.T) {
	s := Snapshot{AvailableMinor: 2000, LifetimeMinor: 2000}

	if _, err := ApplyEntry(s, TxKindRequested, true, 2500); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("got %v, want ErrInsufficient", err)
	}

	s, err := ApplyEntry(s, TxKindRequested, true, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if s.AvailableMinor != 500 {
		t.Fatalf("available = %d, want 500", s.AvailableMinor)
	}
}

func TestApplyEntryPendingUnderflow(t *testing.T) {
	s := Snapshot{PendingMinor: 100, LifetimeMinor: 100}
	if _, err := ApplyEntry(s, TxKindPaid, false, 200); !errors.Is(err, ErrPendingUnderflow) {
		t.Fatalf("got %v, want ErrPendingUnderflow", err)
	}
}

func TestApplyEntryUnknownKind(t *testing.T) {
	if _, err := ApplyEntry(Snapshot{}, "bogus", false, 100); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("credit: got %v, want ErrUnknownKind", err)
	}
	if _, err := ApplyEntry(Snapshot{}, TxKindFunded, true, 100); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("funded debit: got %v, want ErrUnknownKind", err)
	}
}

func TestApplyEntrySettlementMarkersHaveNoEffect(t *testing.T) {
	s := Snapshot{AvailableMinor: 500, LifetimeMinor: 2000}
	for _, kind := range []string{TxKindProcessing, TxKindPaid} {
		next, err := ApplyEntry(s, kind, true, 1500)
		if err != nil {
			t.Fatalf("%s marker: %v", kind, err)
		}
		if next != s {
			t.Fatalf("%s marker changed balances: %+v", kind, next)
		}
	}
}

// Conservation: lifetime after N funded credits equals their sum,
// independent of interleaved debits and releases.
func TestConservation(t *testing.T) {
	credits := []int64{1000, 2500, 400, 7100}
	s := Snapshot{}
	var sum int64

	for i, a := range credits {
		var err error
		s, err = ApplyEntry(s, TxKindFunded, false, a)
		if err != nil {
			t.Fatal(err)
		}
		sum += a

		// interleave a release and a payout hold
		if i%2 == 0 {
			s, err = ApplyEntry(s, TxKindPaid, false, a)
			if err != nil {
				t.Fatal(err)
			}
			s, err = ApplyEntry(s, TxKindRequested, true, a/2)
			if err != nil {
				t.Fatal(err)
			}
		}

		if s.LifetimeMinor != sum {
			t.Fatalf("after credit %d: lifetime = %d, want %d", i, s.LifetimeMinor, sum)
		}
		if !s.Valid() {
			t.Fatalf("after credit %d: invariants violated: %+v", i, s)
		}
	}
}

// Non-negativity: available never dips below zero after any accepted
// operation in a mixed sequence.
func TestAvailableNonNegativity(t *testing.T) {
	ops := []struct {
		kind   string
		debit  bool
		amount int64
		ok     bool
	}{
		{TxKindFunded, false, 3000, true},
		{TxKindRequested, true, 100, false}, // nothing released yet
		{TxKindPaid, false, 3000, true},
		{TxKindRequested, true, 2000, true},
		{TxKindRequested, true, 1500, false},
		{TxKindRequested, true, 1000, true},
		{TxKindCompleted, false, 2000, true}, // refund of a rejected payout
		{TxKindRequested, true, 2000, true},
	}

	s := Snapshot{}
	for i, op := range ops {
		next, err := ApplyEntry(s, op.kind, op.debit, op.amount)
		if op.ok && err != nil {
			t.Fatalf("op %d: unexpected error %v", i, err)
		}
		if !op.ok && err == nil {
			t.Fatalf("op %d: expected rejection", i)
		}
		if err == nil {
			s = next
		}
		if s.AvailableMinor < 0 {
			t.Fatalf("op %d: available went negative: %+v", i, s)
		}
	}
}

// Funding alone never makes funds withdrawable; only the paid release
// credit written at contract completion moves escrow into available.
// This walks the exact entry sequence the accept -> complete -> payout
// pipeline appends.
func TestEscrowWithdrawableOnlyAfterRelease(t *testing.T) {
	s := Snapshot{}
	var err error

	for _, a := range []int64{3000, 5000, 2000} {
		s, err = ApplyEntry(s, TxKindFunded, false, a)
		if err != nil {
			t.Fatal(err)
		}
	}
	if s.AvailableMinor != 0 {
		t.Fatalf("funding alone made funds available: %+v", s)
	}
	if _, err := ApplyEntry(s, TxKindRequested, true, 1); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("withdrawal before release: got %v, want ErrInsufficient", err)
	}

	// contract completion releases one funded amount
	s, err = ApplyEntry(s, TxKindPaid, false, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if s.AvailableMinor != 5000 || s.PendingMinor != 5000 || s.LifetimeMinor != 10000 {
		t.Fatalf("after release: %+v", s)
	}

	s, err = ApplyEntry(s, TxKindRequested, true, 4000)
	if err != nil {
		t.Fatalf("withdrawal after release: %v", err)
	}
	if s.AvailableMinor != 1000 || !s.Valid() {
		t.Fatalf("after withdrawal hold: %+v", s)
	}
}

func TestReplayMatchesIncremental(t *testing.T) {
	txs := []Transaction{
		{Kind: TxKindFunded, AmountMinor: 2000},
		{Kind: TxKindPaid, AmountMinor: 2000},
		{Kind: TxKindRequested, Debit: true, AmountMinor: 1500},
		{Kind: TxKindProcessing, Debit: true, AmountMinor: 1500},
		{Kind: TxKindPaid, Debit: true, AmountMinor: 1500},
		{Kind: TxKindFunded, AmountMinor: 800},
	}

	got, err := Replay(txs)
	if err != nil {
		t.Fatal(err)
	}
	want := Snapshot{AvailableMinor: 500, PendingMinor: 800, LifetimeMinor: 2800}
	if got != want {
		t.Fatalf("Replay = %+v, want %+v", got, want)
	}
}

func TestReplayStopsOnCorruptHistory(t *testing.T) {
	txs := []Transaction{
		{Kind: TxKindFunded, AmountMinor: 100},
		{Kind: TxKindRequested, Debit: true, AmountMinor: 500},
	}
	if _, err := Replay(txs); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("got %v, want ErrInsufficient", err)
	}
}
