package invoice

import (
	"fmt"
	"time"
)

// PaymentParams is a submitted payment before validation.
type PaymentParams struct {
	PaymentDate time.Time
	Amount      int64 // cents
	Method      string
	Reference   string
}

// ValidatePayment checks a payment submission against an invoice. The
// payment date may not lie after now's calendar date and the amount must be
// positive. Amounts above the outstanding balance pass: overpayment is
// tolerated (the balance floors at zero), and settling below the total with
// a write-off is the caller's call.
//
// Validation never touches invoice status; transitioning to Paid once the
// balance reaches zero is a caller-driven decision.
func ValidatePayment(inv *Invoice, params PaymentParams, now time.Time) error {
	if params.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}

	if futureDate(params.PaymentDate, now) {
		return fmt.Errorf("%w: payment date cannot be in the future", ErrValidation)
	}

	return nil
}

// futureDate compares calendar dates only.
func futureDate(d, now time.Time) bool {
	return d.Format(time.DateOnly) > now.Format(time.DateOnly)
}
