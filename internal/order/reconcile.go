package order

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemInput is a submitted line item. A nil ID means the line is new; a
// non-nil ID must refer to one of the order's existing items.
type ItemInput struct {
	ID         *uuid.UUID
	MaterialID uuid.UUID
	Quantity   int64
	UnitPrice  int64 // cents
}

// Plan is the create/update/delete partition produced by Reconcile, plus the
// recomputed order total. The caller applies all three partitions and the
// total as one atomic unit.
type Plan struct {
	ToCreate []Item
	ToUpdate []Item
	ToDelete []uuid.UUID
	NewTotal int64
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0 && len(p.ToDelete) == 0
}

// Reconcile diffs an order's existing items against a submitted replacement
// set. Submitted items carrying an existing item's ID become updates (only
// when something actually changed), items without an ID become creates, and
// existing items absent from the submission become deletes. NewTotal is
// always the sum over the submitted set, never a client-supplied figure.
//
// Reconcile is pure: it never touches the store and existing items are not
// mutated.
func Reconcile(existing []Item, submitted []ItemInput) (Plan, error) {
	if len(submitted) == 0 {
		return Plan{}, fmt.Errorf("%w: a purchase order must have at least one line item", ErrValidation)
	}

	for _, in := range submitted {
		if err := validateItemInput(in); err != nil {
			return Plan{}, err
		}
	}

	byID := make(map[uuid.UUID]Item, len(existing))
	for _, it := range existing {
		byID[it.ID] = it
	}

	var plan Plan

	seen := make(map[uuid.UUID]struct{}, len(submitted))

	for _, in := range submitted {
		if in.ID == nil {
			plan.ToCreate = append(plan.ToCreate, Item{
				MaterialID: in.MaterialID,
				Quantity:   in.Quantity,
				UnitPrice:  in.UnitPrice,
			})

			plan.NewTotal += in.Quantity * in.UnitPrice

			continue
		}

		cur, ok := byID[*in.ID]
		if !ok {
			return Plan{}, fmt.Errorf("%w: line item %s", ErrNotFound, in.ID)
		}

		if _, dup := seen[*in.ID]; dup {
			return Plan{}, fmt.Errorf("%w: line item %s submitted twice", ErrValidation, in.ID)
		}

		seen[*in.ID] = struct{}{}
		plan.NewTotal += in.Quantity * in.UnitPrice

		if cur.MaterialID == in.MaterialID && cur.Quantity == in.Quantity && cur.UnitPrice == in.UnitPrice {
			continue // unchanged, nothing to write
		}

		cur.MaterialID = in.MaterialID
		cur.Quantity = in.Quantity
		cur.UnitPrice = in.UnitPrice
		plan.ToUpdate = append(plan.ToUpdate, cur)
	}

	for _, it := range existing {
		if _, ok := seen[it.ID]; !ok {
			plan.ToDelete = append(plan.ToDelete, it.ID)
		}
	}

	return plan, nil
}

func validateItemInput(in ItemInput) error {
	if in.MaterialID == uuid.Nil {
		return fmt.Errorf("%w: line item material is required", ErrValidation)
	}

	if in.Quantity <= 0 {
		return fmt.Errorf("%w: line item quantity must be positive", ErrValidation)
	}

	if in.UnitPrice < 0 {
		return fmt.Errorf("%w: line item unit price cannot be negative", ErrValidation)
	}

	return nil
}

// Total sums the line totals of an item set.
func Total(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}

	return total
}
