package order_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibrantgarden/almo/internal/order"
)

func item(id uuid.UUID, materialID uuid.UUID, qty, price int64) order.Item {
	return order.Item{ID: id, MaterialID: materialID, Quantity: qty, UnitPrice: price}
}

func input(id *uuid.UUID, materialID uuid.UUID, qty, price int64) order.ItemInput {
	return order.ItemInput{ID: id, MaterialID: materialID, Quantity: qty, UnitPrice: price}
}

func TestReconcile_NewOrderTotal(t *testing.T) {
	// qty=10 @ 5.00 plus qty=2 @ 50.00 must total 150.00.
	m1, m2 := uuid.New(), uuid.New()

	plan, err := order.Reconcile(nil, []order.ItemInput{
		input(nil, m1, 10, 500),
		input(nil, m2, 2, 5000),
	})
	require.NoError(t, err)

	assert.Len(t, plan.ToCreate, 2)
	assert.Empty(t, plan.ToUpdate)
	assert.Empty(t, plan.ToDelete)
	assert.Equal(t, int64(15000), plan.NewTotal)
}

func TestReconcile_UpdateAndCreate(t *testing.T) {
	existingID := uuid.New()
	m1, m9 := uuid.New(), uuid.New()

	existing := []order.Item{item(existingID, m1, 10, 500)}
	submitted := []order.ItemInput{
		input(&existingID, m1, 15, 500),
		input(nil, m9, 3, 200),
	}

	plan, err := order.Reconcile(existing, submitted)
	require.NoError(t, err)

	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, existingID, plan.ToUpdate[0].ID)
	assert.Equal(t, int64(15), plan.ToUpdate[0].Quantity)

	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, m9, plan.ToCreate[0].MaterialID)

	assert.Empty(t, plan.ToDelete)
	assert.Equal(t, int64(15*500+3*200), plan.NewTotal)
}

func TestReconcile_DeletesMissingItems(t *testing.T) {
	keepID, dropID := uuid.New(), uuid.New()
	m := uuid.New()

	existing := []order.Item{
		item(keepID, m, 4, 100),
		item(dropID, m, 1, 900),
	}
	submitted := []order.ItemInput{input(&keepID, m, 4, 100)}

	plan, err := order.Reconcile(existing, submitted)
	require.NoError(t, err)

	assert.Empty(t, plan.ToCreate)
	assert.Empty(t, plan.ToUpdate)
	assert.Equal(t, []uuid.UUID{dropID}, plan.ToDelete)
	assert.Equal(t, int64(400), plan.NewTotal)
}

func TestReconcile_Idempotent(t *testing.T) {
	// Re-submitting the order's current items must change nothing.
	id1, id2 := uuid.New(), uuid.New()
	m1, m2 := uuid.New(), uuid.New()

	existing := []order.Item{
		item(id1, m1, 10, 500),
		item(id2, m2, 2, 5000),
	}
	submitted := []order.ItemInput{
		input(&id1, m1, 10, 500),
		input(&id2, m2, 2, 5000),
	}

	plan, err := order.Reconcile(existing, submitted)
	require.NoError(t, err)

	assert.True(t, plan.Empty())
	assert.Equal(t, order.Total(existing), plan.NewTotal)
}

func TestReconcile_TotalIgnoresClientFigures(t *testing.T) {
	// The total is always recomputed from quantities and prices; there is
	// simply no way to pass a total in.
	m := uuid.New()

	plan, err := order.Reconcile(nil, []order.ItemInput{input(nil, m, 3, 333)})
	require.NoError(t, err)
	assert.Equal(t, int64(999), plan.NewTotal)
}

func TestReconcile_Rejections(t *testing.T) {
	existingID := uuid.New()
	m := uuid.New()
	existing := []order.Item{item(existingID, m, 1, 100)}

	unknownID := uuid.New()

	tests := []struct {
		name      string
		submitted []order.ItemInput
		wantErr   error
	}{
		{
			name:      "EmptySubmission",
			submitted: nil,
			wantErr:   order.ErrValidation,
		},
		{
			name:      "ZeroQuantity",
			submitted: []order.ItemInput{input(nil, m, 0, 100)},
			wantErr:   order.ErrValidation,
		},
		{
			name:      "NegativeQuantity",
			submitted: []order.ItemInput{input(nil, m, -2, 100)},
			wantErr:   order.ErrValidation,
		},
		{
			name:      "NegativePrice",
			submitted: []order.ItemInput{input(nil, m, 1, -1)},
			wantErr:   order.ErrValidation,
		},
		{
			name:      "MissingMaterial",
			submitted: []order.ItemInput{input(nil, uuid.Nil, 1, 100)},
			wantErr:   order.ErrValidation,
		},
		{
			name:      "UnknownItemID",
			submitted: []order.ItemInput{input(&unknownID, m, 1, 100)},
			wantErr:   order.ErrNotFound,
		},
		{
			name: "DuplicateItemID",
			submitted: []order.ItemInput{
				input(&existingID, m, 1, 100),
				input(&existingID, m, 2, 100),
			},
			wantErr: order.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := order.Reconcile(existing, tt.submitted)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReconcile_ZeroPriceAllowed(t *testing.T) {
	// Free-of-charge lines (samples, replacements) are legal.
	m := uuid.New()

	plan, err := order.Reconcile(nil, []order.ItemInput{input(nil, m, 5, 0)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), plan.NewTotal)
}

func TestReconcile_DoesNotMutateExisting(t *testing.T) {
	id := uuid.New()
	m := uuid.New()
	existing := []order.Item{item(id, m, 10, 500)}

	_, err := order.Reconcile(existing, []order.ItemInput{input(&id, m, 99, 500)})
	require.NoError(t, err)

	assert.Equal(t, int64(10), existing[0].Quantity)
}
