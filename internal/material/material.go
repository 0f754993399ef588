package material

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("material not found")
	ErrValidation = errors.New("invalid material")
)

// Material is a catalog entry. The unit price here is the current catalog
// price; order lines capture their own price at order time, so editing the
// catalog never rewrites historical line totals.
type Material struct {
	ID        uuid.UUID
	Name      string
	Unit      string // unit of measure, e.g. "kg", "un", "m"
	UnitPrice int64  // current catalog price in cents
	CreatedAt time.Time
	UpdatedAt *time.Time
}
