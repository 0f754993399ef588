package inventory

import (
	"fmt"
	"time"
)

// MovementParams is a submitted stock movement before validation.
type MovementParams struct {
	Type         MovementType
	Quantity     int64
	MovementDate time.Time
	Reference    string
}

// ApplyMovement validates a movement against the record's current stock and
// computes the resulting balance snapshot. It is pure: the record is not
// mutated, nothing is persisted.
//
// In adds the quantity's magnitude, Out subtracts it, and Adjustment applies
// the quantity as a signed delta (the only type that takes a sign directly).
// An Out that would drive the balance negative is rejected with
// ErrInsufficientStock rather than recorded as a backorder. Adjustments are
// exempt from that floor: a correction must be able to record a true
// shortfall even when it lands below zero.
func ApplyMovement(rec *Record, params MovementParams, now time.Time) (Movement, error) {
	if !params.Type.IsValid() {
		return Movement{}, fmt.Errorf("%w: unknown movement type %q", ErrValidation, params.Type)
	}

	if params.Quantity == 0 {
		return Movement{}, fmt.Errorf("%w: a zero movement carries no information", ErrValidation)
	}

	if futureDate(params.MovementDate, now) {
		return Movement{}, fmt.Errorf("%w: movement date cannot be in the future", ErrValidation)
	}

	mv := Movement{
		RecordID:     rec.ID,
		Type:         params.Type,
		MovementDate: params.MovementDate,
		Reference:    params.Reference,
	}

	switch params.Type {
	case MovementIn:
		mv.Quantity = abs(params.Quantity)
	case MovementOut:
		mv.Quantity = abs(params.Quantity)
	case MovementAdjustment:
		mv.Quantity = params.Quantity
	}

	balance := rec.CurrentStock + mv.Effect()
	if params.Type == MovementOut && balance < 0 {
		return Movement{}, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, mv.Quantity, rec.CurrentStock)
	}

	mv.BalanceAfter = balance

	return mv, nil
}

// Classify derives the stock status badge from current stock against the
// minimum/maximum thresholds. Out-of-Stock wins over Low: a zero or negative
// balance is never reported as merely running low.
func Classify(current, minimum int64, maximum *int64) StockStatus {
	switch {
	case current <= 0:
		return StockOutOfStock
	case current < minimum:
		return StockLow
	case maximum != nil && current > *maximum:
		return StockOverstocked
	default:
		return StockNormal
	}
}

// ReplayBalance folds a movement log over an initial stock level. Because
// every movement's BalanceAfter is an immutable snapshot, replaying the log
// must land exactly on the record's current stock; a mismatch means the
// cached value has drifted.
func ReplayBalance(initial int64, movements []Movement) int64 {
	balance := initial
	for _, mv := range movements {
		balance += mv.Effect()
	}

	return balance
}

// futureDate compares calendar dates only.
func futureDate(d, now time.Time) bool {
	return d.Format(time.DateOnly) > now.Format(time.DateOnly)
}
