package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func record(current, minimum int64, maximum *int64) *Record {
	return &Record{
		ID:           uuid.New(),
		MaterialID:   uuid.New(),
		CurrentStock: current,
		MinimumStock: minimum,
		MaximumStock: maximum,
	}
}

func TestApplyMovement_In(t *testing.T) {
	rec := record(50, 20, nil)

	mv, err := ApplyMovement(rec, MovementParams{
		Type:         MovementIn,
		Quantity:     30,
		MovementDate: today,
		Reference:    "GR-2025-0042",
	}, today)

	require.NoError(t, err)
	assert.Equal(t, int64(80), mv.BalanceAfter)
	assert.Equal(t, int64(30), mv.Quantity)
	assert.Equal(t, rec.ID, mv.RecordID)
	assert.Equal(t, "GR-2025-0042", mv.Reference)
	assert.Equal(t, int64(50), rec.CurrentStock, "record must not be mutated")
}

func TestApplyMovement_InNormalizesSign(t *testing.T) {
	rec := record(50, 20, nil)

	mv, err := ApplyMovement(rec, MovementParams{Type: MovementIn, Quantity: -30, MovementDate: today}, today)

	require.NoError(t, err)
	assert.Equal(t, int64(30), mv.Quantity)
	assert.Equal(t, int64(80), mv.BalanceAfter)
}

func TestApplyMovement_Out(t *testing.T) {
	rec := record(50, 20, nil)

	mv, err := ApplyMovement(rec, MovementParams{Type: MovementOut, Quantity: 40, MovementDate: today}, today)

	require.NoError(t, err)
	assert.Equal(t, int64(10), mv.BalanceAfter)
}

func TestApplyMovement_OutInsufficientStock(t *testing.T) {
	rec := record(50, 20, nil)

	_, err := ApplyMovement(rec, MovementParams{Type: MovementOut, Quantity: 60, MovementDate: today}, today)

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, int64(50), rec.CurrentStock, "stock unchanged after rejection")
}

func TestApplyMovement_OutToZero(t *testing.T) {
	rec := record(50, 20, nil)

	mv, err := ApplyMovement(rec, MovementParams{Type: MovementOut, Quantity: 50, MovementDate: today}, today)

	require.NoError(t, err)
	assert.Equal(t, int64(0), mv.BalanceAfter)
	assert.Equal(t, StockOutOfStock, Classify(mv.BalanceAfter, rec.MinimumStock, rec.MaximumStock))
}

func TestApplyMovement_AdjustmentSigned(t *testing.T) {
	rec := record(50, 20, nil)

	up, err := ApplyMovement(rec, MovementParams{Type: MovementAdjustment, Quantity: 7, MovementDate: today}, today)
	require.NoError(t, err)
	assert.Equal(t, int64(57), up.BalanceAfter)

	down, err := ApplyMovement(rec, MovementParams{Type: MovementAdjustment, Quantity: -7, MovementDate: today}, today)
	require.NoError(t, err)
	assert.Equal(t, int64(43), down.BalanceAfter)
}

func TestApplyMovement_AdjustmentMayGoNegative(t *testing.T) {
	// A stocktake correction must be able to record a real shortfall even
	// when the cached balance was already wrong on the high side.
	rec := record(5, 20, nil)

	mv, err := ApplyMovement(rec, MovementParams{Type: MovementAdjustment, Quantity: -8, MovementDate: today}, today)

	require.NoError(t, err)
	assert.Equal(t, int64(-3), mv.BalanceAfter)
	assert.Equal(t, StockOutOfStock, Classify(mv.BalanceAfter, rec.MinimumStock, rec.MaximumStock))
}

func TestApplyMovement_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		params MovementParams
	}{
		{
			name:   "zero quantity",
			params: MovementParams{Type: MovementIn, Quantity: 0, MovementDate: today},
		},
		{
			name:   "zero adjustment",
			params: MovementParams{Type: MovementAdjustment, Quantity: 0, MovementDate: today},
		},
		{
			name:   "future date",
			params: MovementParams{Type: MovementIn, Quantity: 10, MovementDate: today.AddDate(0, 0, 1)},
		},
		{
			name:   "unknown type",
			params: MovementParams{Type: "transfer", Quantity: 10, MovementDate: today},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyMovement(record(50, 20, nil), tt.params, today)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestApplyMovement_LaterOnSameCalendarDay(t *testing.T) {
	rec := record(50, 20, nil)
	evening := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	_, err := ApplyMovement(rec, MovementParams{Type: MovementIn, Quantity: 1, MovementDate: evening}, today)

	assert.NoError(t, err, "time of day carries no significance")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		minimum int64
		maximum *int64
		want    StockStatus
	}{
		{name: "low", current: 5, minimum: 20, maximum: new(int64(100)), want: StockLow},
		{name: "zero is out of stock", current: 0, minimum: 20, want: StockOutOfStock},
		{name: "negative is out of stock, not low", current: -3, minimum: 20, want: StockOutOfStock},
		{name: "at minimum is normal", current: 20, minimum: 20, want: StockNormal},
		{name: "overstocked", current: 150, minimum: 20, maximum: new(int64(100)), want: StockOverstocked},
		{name: "at maximum is normal", current: 100, minimum: 20, maximum: new(int64(100)), want: StockNormal},
		{name: "no maximum never overstocks", current: 1_000_000, minimum: 20, want: StockNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.current, tt.minimum, tt.maximum))
		})
	}
}

func TestReplayBalance(t *testing.T) {
	movements := []Movement{
		{Type: MovementIn, Quantity: 100},
		{Type: MovementOut, Quantity: 40},
		{Type: MovementAdjustment, Quantity: -5},
		{Type: MovementOut, Quantity: 30},
	}

	assert.Equal(t, int64(25), ReplayBalance(0, movements))
	assert.Equal(t, int64(35), ReplayBalance(10, movements))
}

func TestReplayBalance_MatchesBalanceSnapshots(t *testing.T) {
	rec := record(50, 20, nil)
	now := today

	var log []Movement
	for _, p := range []MovementParams{
		{Type: MovementIn, Quantity: 30, MovementDate: now},
		{Type: MovementOut, Quantity: 25, MovementDate: now},
		{Type: MovementAdjustment, Quantity: -5, MovementDate: now},
	} {
		mv, err := ApplyMovement(rec, p, now)
		require.NoError(t, err)
		rec.CurrentStock = mv.BalanceAfter
		log = append(log, mv)
	}

	assert.Equal(t, rec.CurrentStock, ReplayBalance(50, log))
	for i, mv := range log {
		assert.Equal(t, ReplayBalance(50, log[:i+1]), mv.BalanceAfter)
	}
}
