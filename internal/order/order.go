package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("purchase order not found")
	ErrValidation = errors.New("invalid purchase order")
)

// Status represents the lifecycle state of a purchase order.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusShipped   Status = "shipped"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusShipped, StatusReceived, StatusCancelled:
		return true
	}

	return false
}

// Invoiceable reports whether an invoice may be raised against an order in
// this status.
func (s Status) Invoiceable() bool {
	return s == StatusApproved || s == StatusReceived
}

// Item is one material/quantity/price line within a purchase order. The unit
// price is captured at order time and is not re-derived from the catalog.
type Item struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MaterialID uuid.UUID
	Quantity   int64
	UnitPrice  int64 // cents
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// LineTotal is quantity times captured unit price, in cents.
func (i Item) LineTotal() int64 {
	return i.Quantity * i.UnitPrice
}

// Order represents a purchase order. TotalAmount is derived from the items
// and recomputed on every item mutation; it is never settable by callers.
type Order struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	SupplierID  uuid.UUID
	OrderDate   time.Time
	Status      Status
	Items       []Item
	TotalAmount int64 // cents
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
