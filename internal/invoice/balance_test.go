package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibrantgarden/almo/internal/invoice"
)

func payments(amounts ...int64) []invoice.Payment {
	ps := make([]invoice.Payment, len(amounts))
	for i, a := range amounts {
		ps[i] = invoice.Payment{Amount: a}
	}

	return ps
}

func TestOutstanding(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		payments []invoice.Payment
		want     int64
	}{
		{
			name:  "NoPayments",
			total: 100000,
			want:  100000,
		},
		{
			name:     "PartialPayments",
			total:    100000,
			payments: payments(40000, 30000),
			want:     30000,
		},
		{
			name:     "ExactSettlement",
			total:    100000,
			payments: payments(60000, 40000),
			want:     0,
		},
		{
			name:     "OverpaymentFloorsAtZero",
			total:    100000,
			payments: payments(120000),
			want:     0,
		},
		{
			name:     "OverpaymentAcrossPayments",
			total:    5000,
			payments: payments(3000, 3000),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invoice.Outstanding(tt.total, tt.payments))
		})
	}
}

func TestOutstanding_NeverNegative(t *testing.T) {
	// The floor must hold for any payment history.
	histories := [][]invoice.Payment{
		nil,
		payments(1),
		payments(999999999),
		payments(100, 100, 100, 100, 100, 100),
	}

	for _, ps := range histories {
		assert.GreaterOrEqual(t, invoice.Outstanding(500, ps), int64(0))
	}
}

func TestCanTransition(t *testing.T) {
	statuses := []invoice.Status{invoice.StatusPending, invoice.StatusPaid, invoice.StatusCancelled}

	// Every edge in the three-state graph is legal, including self-loops
	// and Paid while a balance remains (write-off).
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, invoice.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, invoice.CanTransition(invoice.StatusPending, invoice.Status("archived")))
	assert.False(t, invoice.CanTransition(invoice.Status(""), invoice.StatusPaid))
}
