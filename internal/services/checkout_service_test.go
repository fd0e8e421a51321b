package services

import (
	"errors"
	"testing"

	"github.com/creatorlink/backend/internal/apperr"
)

func TestCheckoutQuote(t *testing.T) {
	svc := NewCheckoutService(500, 1800)

	tests := []struct {
		name      string
		base      int64
		wantFee   int64
		wantGST   int64
		wantTotal int64
	}{
		{"standard offer", 5000, 250, 900, 6150},
		{"one unit", 1, 0, 0, 1},
		{"rounds half up", 10, 1, 2, 13}, // 0.5 -> 1, 1.8 -> 2
		{"large offer", 1_000_000, 50_000, 180_000, 1_230_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := svc.Quote(tt.base)
			if err != nil {
				t.Fatalf("Quote(%d): %v", tt.base, err)
			}
			if q.PlatformFeeMinor != tt.wantFee {
				t.Errorf("fee = %d, want %d", q.PlatformFeeMinor, tt.wantFee)
			}
			if q.GSTMinor != tt.wantGST {
				t.Errorf("gst = %d, want %d", q.GSTMinor, tt.wantGST)
			}
			if q.TotalMinor != tt.wantTotal {
				t.Errorf("total = %d, want %d", q.TotalMinor, tt.wantTotal)
			}
		})
	}
}

func TestCheckoutQuoteRejectsNonPositive(t *testing.T) {
	svc := NewCheckoutService(500, 1800)
	for _, base := range []int64{0, -1, -5000} {
		if _, err := svc.Quote(base); !errors.Is(err, apperr.ErrInvalidAmount) {
			t.Errorf("Quote(%d) err = %v, want ErrInvalidAmount", base, err)
		}
	}
}

func TestCheckoutQuoteZeroFees(t *testing.T) {
	svc := NewCheckoutService(0, 0)
	q, err := svc.Quote(5000)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.PlatformFeeMinor != 0 || q.GSTMinor != 0 || q.TotalMinor != 5000 {
		t.Errorf("zero-fee quote = %+v", q)
	}
}
