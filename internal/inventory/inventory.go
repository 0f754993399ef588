package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("inventory record not found")
	ErrValidation   = errors.New("invalid inventory input")
	ErrRecordExists = errors.New("material already has an inventory record")

	// ErrInsufficientStock is returned when an Out movement would drive the
	// stock balance negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}

	return false
}

// StockStatus is the alerting classification of a record's current stock.
type StockStatus string

const (
	StockOutOfStock  StockStatus = "out_of_stock"
	StockLow         StockStatus = "low"
	StockNormal      StockStatus = "normal"
	StockOverstocked StockStatus = "overstocked"
)

// Record tracks the stock of one material; there is at most one active
// record per material. CurrentStock is set directly only at creation; every
// later change flows through a movement, and the value always equals the
// BalanceAfter of the most recent movement.
type Record struct {
	ID                uuid.UUID
	MaterialID        uuid.UUID
	CurrentStock      int64
	MinimumStock      int64
	MaximumStock      *int64
	WarehouseLocation string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// StockStatus classifies the record's current stock level.
func (r *Record) StockStatus() StockStatus {
	return Classify(r.CurrentStock, r.MinimumStock, r.MaximumStock)
}

// Movement is one entry in a material's append-only stock ledger.
// BalanceAfter is a historical snapshot and is never rewritten; correcting a
// mistake means recording a compensating Adjustment.
type Movement struct {
	ID           uuid.UUID
	RecordID     uuid.UUID
	Type         MovementType
	Quantity     int64 // magnitude for In/Out, signed delta for Adjustment
	MovementDate time.Time
	BalanceAfter int64
	Reference    string // optional document reference, e.g. delivery note
	CreatedAt    time.Time
}

// MovementImport is a movement parsed from a warehouse system export. The
// material is referenced by its catalogue name and resolved against the
// material list at import time.
type MovementImport struct {
	MaterialName string
	Type         MovementType
	Quantity     int64
	MovementDate time.Time
	Reference    string
}

// Params converts the imported row into movement parameters for the ledger.
func (m MovementImport) Params() MovementParams {
	return MovementParams{
		Type:         m.Type,
		Quantity:     m.Quantity,
		MovementDate: m.MovementDate,
		Reference:    m.Reference,
	}
}

// Effect is the signed change the movement applied to the stock balance.
func (m Movement) Effect() int64 {
	switch m.Type {
	case MovementIn:
		return abs(m.Quantity)
	case MovementOut:
		return -abs(m.Quantity)
	default:
		return m.Quantity
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
