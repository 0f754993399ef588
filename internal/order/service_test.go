package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vibrantgarden/almo/internal/order"
)

func TestService_Create(t *testing.T) {
	materialID := uuid.New()

	type testCase struct {
		name      string
		params    order.CreateParams
		setupMock func(m *order.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: order.CreateParams{
				ProjectID:  uuid.New(),
				SupplierID: uuid.New(),
				OrderDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Items: []order.ItemInput{
					{MaterialID: materialID, Quantity: 10, UnitPrice: 500},
					{MaterialID: materialID, Quantity: 2, UnitPrice: 5000},
				},
			},
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						o.ID = uuid.New()
						o.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "NoItems",
			params: order.CreateParams{
				SupplierID: uuid.New(),
				OrderDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			wantErr: order.ErrValidation,
		},
		{
			name: "FutureOrderDate",
			params: order.CreateParams{
				SupplierID: uuid.New(),
				OrderDate:  time.Now().AddDate(0, 0, 2),
				Items: []order.ItemInput{
					{MaterialID: materialID, Quantity: 1, UnitPrice: 100},
				},
			},
			wantErr: order.ErrValidation,
		},
		{
			name: "MissingSupplier",
			params: order.CreateParams{
				OrderDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Items: []order.ItemInput{
					{MaterialID: materialID, Quantity: 1, UnitPrice: 100},
				},
			},
			wantErr: order.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := order.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := order.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, order.StatusDraft, got.Status)
			assert.Equal(t, int64(15000), got.TotalAmount)
		})
	}
}

func TestService_Create_Backdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil)

	svc := order.NewService(repo)

	// Backdating is explicitly allowed; only future dates are rejected.
	_, err := svc.Create(context.Background(), order.CreateParams{
		SupplierID: uuid.New(),
		OrderDate:  time.Now().AddDate(-1, 0, 0),
		Items:      []order.ItemInput{{MaterialID: uuid.New(), Quantity: 1, UnitPrice: 100}},
	})
	assert.NoError(t, err)
}

func TestService_ReplaceItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	rtx := order.NewMockReconcileTx(ctrl)
	svc := order.NewService(repo)

	orderID := uuid.New()
	keepID, dropID := uuid.New(), uuid.New()
	m1, m2 := uuid.New(), uuid.New()

	existing := &order.Order{
		ID:     orderID,
		Status: order.StatusDraft,
		Items: []order.Item{
			{ID: keepID, OrderID: orderID, MaterialID: m1, Quantity: 10, UnitPrice: 500},
			{ID: dropID, OrderID: orderID, MaterialID: m2, Quantity: 1, UnitPrice: 900},
		},
		TotalAmount: 5900,
	}

	submitted := []order.ItemInput{
		{ID: &keepID, MaterialID: m1, Quantity: 15, UnitPrice: 500},
		{MaterialID: m2, Quantity: 3, UnitPrice: 200},
	}

	wantTotal := int64(15*500 + 3*200)

	after := &order.Order{ID: orderID, TotalAmount: wantTotal}

	gomock.InOrder(
		repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(existing, nil),
		repo.EXPECT().BeginReconcile(gomock.Any(), orderID).Return(rtx, nil),
		rtx.EXPECT().DeleteItems(gomock.Any(), []uuid.UUID{dropID}).Return(nil),
		rtx.EXPECT().UpdateItems(gomock.Any(), gomock.Any()).Return(nil),
		rtx.EXPECT().CreateItems(gomock.Any(), orderID, gomock.Any()).Return(nil),
		rtx.EXPECT().SetTotal(gomock.Any(), orderID, wantTotal).Return(nil),
		rtx.EXPECT().Commit().Return(nil),
		repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(after, nil),
	)
	rtx.EXPECT().Rollback().Return(nil)

	got, err := svc.ReplaceItems(context.Background(), orderID, submitted)
	require.NoError(t, err)
	assert.Equal(t, wantTotal, got.TotalAmount)
}

func TestService_ReplaceItems_NoChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	svc := order.NewService(repo)

	orderID := uuid.New()
	itemID := uuid.New()
	m := uuid.New()

	existing := &order.Order{
		ID:          orderID,
		Items:       []order.Item{{ID: itemID, MaterialID: m, Quantity: 4, UnitPrice: 250}},
		TotalAmount: 1000,
	}

	// No transaction is opened when the plan is empty.
	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(existing, nil)

	got, err := svc.ReplaceItems(context.Background(), orderID, []order.ItemInput{
		{ID: &itemID, MaterialID: m, Quantity: 4, UnitPrice: 250},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.TotalAmount)
}

func TestService_ReplaceItems_EmptySubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	svc := order.NewService(repo)

	orderID := uuid.New()
	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(&order.Order{ID: orderID}, nil)

	_, err := svc.ReplaceItems(context.Background(), orderID, nil)
	assert.ErrorIs(t, err, order.ErrValidation)
}

func TestService_ReplaceItems_RollbackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	rtx := order.NewMockReconcileTx(ctrl)
	svc := order.NewService(repo)

	orderID := uuid.New()
	m := uuid.New()

	existing := &order.Order{ID: orderID}
	submitted := []order.ItemInput{{MaterialID: m, Quantity: 1, UnitPrice: 100}}

	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(existing, nil)
	repo.EXPECT().BeginReconcile(gomock.Any(), orderID).Return(rtx, nil)
	rtx.EXPECT().CreateItems(gomock.Any(), orderID, gomock.Any()).Return(errors.New("insert failed"))
	rtx.EXPECT().Rollback().Return(nil)

	_, err := svc.ReplaceItems(context.Background(), orderID, submitted)
	assert.Error(t, err)
}

func TestService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	svc := order.NewService(repo)

	id := uuid.New()
	repo.EXPECT().UpdateStatus(gomock.Any(), id, order.StatusApproved).Return(nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), id, order.StatusApproved))

	err := svc.UpdateStatus(context.Background(), id, order.Status("bogus"))
	assert.ErrorIs(t, err, order.ErrValidation)
}
