package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	BeginReconcile(ctx context.Context, orderID uuid.UUID) (ReconcileTx, error)
}

// ReconcileTx applies a reconciliation plan against the store. All writes
// share one database transaction so the order total can never observably
// diverge from its items.
type ReconcileTx interface {
	CreateItems(ctx context.Context, orderID uuid.UUID, items []Item) error
	UpdateItems(ctx context.Context, items []Item) error
	DeleteItems(ctx context.Context, ids []uuid.UUID) error
	SetTotal(ctx context.Context, orderID uuid.UUID, total int64) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	ProjectID  uuid.UUID
	SupplierID uuid.UUID
	OrderDate  time.Time
	Items      []ItemInput
}

type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Create opens a new draft order. The order date may be backdated but never
// lies in the future, and at least one valid line item is required.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if params.SupplierID == uuid.Nil {
		return nil, fmt.Errorf("%w: supplier is required", ErrValidation)
	}

	if futureDate(params.OrderDate, s.now()) {
		return nil, fmt.Errorf("%w: order date cannot be in the future", ErrValidation)
	}

	if len(params.Items) == 0 {
		return nil, fmt.Errorf("%w: a purchase order must have at least one line item", ErrValidation)
	}

	o := &Order{
		ProjectID:  params.ProjectID,
		SupplierID: params.SupplierID,
		OrderDate:  params.OrderDate,
		Status:     StatusDraft,
	}

	for _, in := range params.Items {
		if err := validateItemInput(in); err != nil {
			return nil, err
		}

		o.Items = append(o.Items, Item{
			MaterialID: in.MaterialID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		})
	}

	o.TotalAmount = Total(o.Items)

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes the order and its items. Invoices already raised against
// the order persist independently and keep referencing it by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOrder(ctx, id)
}

// ReplaceItems reconciles the order's item set against the submitted
// replacement and applies the resulting plan in one store transaction.
// Returns the order as it stands after the replacement.
func (s *Service) ReplaceItems(ctx context.Context, orderID uuid.UUID, submitted []ItemInput) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	plan, err := Reconcile(o.Items, submitted)
	if err != nil {
		return nil, err
	}

	if plan.Empty() {
		return o, nil
	}

	rtx, err := s.repo.BeginReconcile(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("begin reconcile: %w", err)
	}
	defer rtx.Rollback()

	if len(plan.ToDelete) > 0 {
		if err := rtx.DeleteItems(ctx, plan.ToDelete); err != nil {
			return nil, fmt.Errorf("delete items: %w", err)
		}
	}

	if len(plan.ToUpdate) > 0 {
		if err := rtx.UpdateItems(ctx, plan.ToUpdate); err != nil {
			return nil, fmt.Errorf("update items: %w", err)
		}
	}

	if len(plan.ToCreate) > 0 {
		if err := rtx.CreateItems(ctx, orderID, plan.ToCreate); err != nil {
			return nil, fmt.Errorf("create items: %w", err)
		}
	}

	if err := rtx.SetTotal(ctx, orderID, plan.NewTotal); err != nil {
		return nil, fmt.Errorf("set total: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reconcile: %w", err)
	}

	return s.repo.GetOrder(ctx, orderID)
}

// futureDate compares calendar dates only; time-of-day carries no meaning
// for order, invoice, and movement dates.
func futureDate(d, now time.Time) bool {
	return d.Format(time.DateOnly) > now.Format(time.DateOnly)
}
