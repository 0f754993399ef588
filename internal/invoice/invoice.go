package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrValidation      = errors.New("invalid invoice")
	ErrDuplicateNumber = errors.New("invoice number already exists")

	// ErrOrderNotInvoiceable is returned when the referenced purchase order
	// is not in a status that allows invoicing.
	ErrOrderNotInvoiceable = errors.New("purchase order cannot be invoiced")
)

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}

	return false
}

// Invoice is raised against a purchase order. Number, date, and total are
// frozen at creation; only the status (and the attached document) may change
// afterwards. The total is captured at creation and does not track the order
// total.
type Invoice struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Number      string
	InvoiceDate time.Time
	TotalAmount int64 // cents
	Status      Status
	DocumentURL string // scanned supplier invoice in the DMS, optional
	Payments    []Payment
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Outstanding is the invoice's unpaid remainder, floored at zero.
func (i *Invoice) Outstanding() int64 {
	return Outstanding(i.TotalAmount, i.Payments)
}

// Payment is one recorded payment against an invoice.
type Payment struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	PaymentDate time.Time
	Amount      int64  // cents
	Method      string // optional, e.g. "transfer", "cheque"
	Reference   string // optional bank/transaction reference
	CreatedAt   time.Time
}
