package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	repo := NewMockRepository(gomock.NewController(t))
	svc := NewService(repo)
	svc.now = func() time.Time { return today }

	return svc, repo
}

func TestService_CreateRecord(t *testing.T) {
	svc, repo := newService(t)
	materialID := uuid.New()

	repo.EXPECT().
		CreateRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *Record) error {
			r.ID = uuid.New()
			return nil
		})

	r, err := svc.CreateRecord(context.Background(), CreateRecordParams{
		MaterialID:        materialID,
		InitialStock:      50,
		MinimumStock:      20,
		MaximumStock:      new(int64(100)),
		WarehouseLocation: "A-03-2",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50), r.CurrentStock)
	assert.Equal(t, StockNormal, r.StockStatus())
}

func TestService_CreateRecord_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateRecordParams
	}{
		{
			name:   "missing material",
			params: CreateRecordParams{InitialStock: 10, MinimumStock: 5},
		},
		{
			name:   "negative initial stock",
			params: CreateRecordParams{MaterialID: uuid.New(), InitialStock: -1},
		},
		{
			name:   "negative minimum",
			params: CreateRecordParams{MaterialID: uuid.New(), MinimumStock: -1},
		},
		{
			name:   "maximum below minimum",
			params: CreateRecordParams{MaterialID: uuid.New(), MinimumStock: 20, MaximumStock: new(int64(10))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.CreateRecord(context.Background(), tt.params)

			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestService_RecordMovement(t *testing.T) {
	svc, repo := newService(t)
	mtx := NewMockMovementTx(gomock.NewController(t))
	recordID := uuid.New()

	locked := &Record{ID: recordID, MaterialID: uuid.New(), CurrentStock: 50, MinimumStock: 20}

	gomock.InOrder(
		repo.EXPECT().BeginMovement(gomock.Any(), recordID).Return(mtx, nil),
		mtx.EXPECT().LockRecord(gomock.Any()).Return(locked, nil),
		mtx.EXPECT().InsertMovement(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mv *Movement) error {
				mv.ID = uuid.New()
				return nil
			}),
		mtx.EXPECT().SetStock(gomock.Any(), int64(10)).Return(nil),
		mtx.EXPECT().Commit().Return(nil),
		mtx.EXPECT().Rollback().Return(errors.New("already committed")),
	)

	r, mv, err := svc.RecordMovement(context.Background(), recordID, MovementParams{
		Type:         MovementOut,
		Quantity:     40,
		MovementDate: today,
		Reference:    "DN-118",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), mv.BalanceAfter)
	assert.Equal(t, int64(10), r.CurrentStock)
	assert.Equal(t, StockLow, r.StockStatus())
}

func TestService_RecordMovement_InsufficientStock(t *testing.T) {
	svc, repo := newService(t)
	mtx := NewMockMovementTx(gomock.NewController(t))
	recordID := uuid.New()

	gomock.InOrder(
		repo.EXPECT().BeginMovement(gomock.Any(), recordID).Return(mtx, nil),
		mtx.EXPECT().LockRecord(gomock.Any()).
			Return(&Record{ID: recordID, CurrentStock: 50, MinimumStock: 20}, nil),
		mtx.EXPECT().Rollback().Return(nil),
	)

	_, _, err := svc.RecordMovement(context.Background(), recordID, MovementParams{
		Type:         MovementOut,
		Quantity:     60,
		MovementDate: today,
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestService_RecordMovement_RollbackOnInsertFailure(t *testing.T) {
	svc, repo := newService(t)
	mtx := NewMockMovementTx(gomock.NewController(t))
	recordID := uuid.New()

	gomock.InOrder(
		repo.EXPECT().BeginMovement(gomock.Any(), recordID).Return(mtx, nil),
		mtx.EXPECT().LockRecord(gomock.Any()).
			Return(&Record{ID: recordID, CurrentStock: 50, MinimumStock: 20}, nil),
		mtx.EXPECT().InsertMovement(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		mtx.EXPECT().Rollback().Return(nil),
	)

	_, _, err := svc.RecordMovement(context.Background(), recordID, MovementParams{
		Type:         MovementIn,
		Quantity:     10,
		MovementDate: today,
	})

	assert.ErrorContains(t, err, "insert movement")
}

func TestService_Ledger(t *testing.T) {
	svc, repo := newService(t)
	recordID := uuid.New()

	rec := &Record{ID: recordID, CurrentStock: 25, MinimumStock: 20}
	movements := []Movement{
		{RecordID: recordID, Type: MovementIn, Quantity: 50, BalanceAfter: 50},
		{RecordID: recordID, Type: MovementOut, Quantity: 25, BalanceAfter: 25},
	}

	repo.EXPECT().GetRecord(gomock.Any(), recordID).Return(rec, nil)
	repo.EXPECT().ListMovements(gomock.Any(), recordID).Return(movements, nil)

	gotRec, gotMoves, err := svc.Ledger(context.Background(), recordID)

	require.NoError(t, err)
	assert.Equal(t, rec, gotRec)
	require.Len(t, gotMoves, 2)
	assert.Equal(t, gotRec.CurrentStock, gotMoves[len(gotMoves)-1].BalanceAfter)
}

func TestService_Ledger_NotFound(t *testing.T) {
	svc, repo := newService(t)
	recordID := uuid.New()

	repo.EXPECT().GetRecord(gomock.Any(), recordID).Return(nil, ErrNotFound)

	_, _, err := svc.Ledger(context.Background(), recordID)

	assert.ErrorIs(t, err, ErrNotFound)
}
