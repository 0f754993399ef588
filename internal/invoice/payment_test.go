package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vibrantgarden/almo/internal/invoice"
)

func TestValidatePayment(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	inv := &invoice.Invoice{
		TotalAmount: 100000,
		Payments:    payments(40000, 30000),
	}

	tests := []struct {
		name    string
		params  invoice.PaymentParams
		wantErr bool
	}{
		{
			name:   "Valid",
			params: invoice.PaymentParams{PaymentDate: now.AddDate(0, 0, -1), Amount: 30000},
		},
		{
			name:   "SameDay",
			params: invoice.PaymentParams{PaymentDate: now, Amount: 100},
		},
		{
			name: "LaterOnSameCalendarDay",
			// Time of day carries no meaning; only the calendar date counts.
			params: invoice.PaymentParams{
				PaymentDate: time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
				Amount:      100,
			},
		},
		{
			name:   "ExceedsOutstanding",
			params: invoice.PaymentParams{PaymentDate: now, Amount: 999999},
		},
		{
			name:    "FutureDate",
			params:  invoice.PaymentParams{PaymentDate: now.AddDate(0, 0, 1), Amount: 100},
			wantErr: true,
		},
		{
			name:    "ZeroAmount",
			params:  invoice.PaymentParams{PaymentDate: now, Amount: 0},
			wantErr: true,
		},
		{
			name:    "NegativeAmount",
			params:  invoice.PaymentParams{PaymentDate: now, Amount: -500},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := invoice.ValidatePayment(inv, tt.params, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, invoice.ErrValidation)
				return
			}

			assert.NoError(t, err)
		})
	}
}
