package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/order"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateDocument(ctx context.Context, id uuid.UUID, documentURL string) error
	CreatePayment(ctx context.Context, p *Payment) error
}

type Service struct {
	repo   Repository
	orders *order.Service
	now    func() time.Time
}

func NewService(repo Repository, orders *order.Service) *Service {
	return &Service{repo: repo, orders: orders, now: time.Now}
}

type CreateParams struct {
	OrderID     uuid.UUID
	Number      string
	InvoiceDate time.Time
	TotalAmount int64
}

type ListFilter struct {
	Status    *Status
	OrderID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// Create raises an invoice against a purchase order. The order must be
// approved or received; the invoice number, date, and total are frozen from
// here on.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if strings.TrimSpace(params.Number) == "" {
		return nil, fmt.Errorf("%w: invoice number is required", ErrValidation)
	}

	if params.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}

	if futureDate(params.InvoiceDate, s.now()) {
		return nil, fmt.Errorf("%w: invoice date cannot be in the future", ErrValidation)
	}

	o, err := s.orders.Get(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.Invoiceable() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderNotInvoiceable, o.ID, o.Status)
	}

	inv := &Invoice{
		OrderID:     params.OrderID,
		Number:      params.Number,
		InvoiceDate: params.InvoiceDate,
		TotalAmount: params.TotalAmount,
		Status:      StatusPending,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// UpdateStatus moves the invoice between Pending, Paid, and Cancelled.
// Marking an invoice Paid while a balance remains is allowed (write-off);
// the service never second-guesses the caller here.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if !CanTransition(inv.Status, status) {
		return fmt.Errorf("%w: cannot transition from %q to %q", ErrValidation, inv.Status, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// AttachDocument links the scanned supplier invoice in the DMS.
func (s *Service) AttachDocument(ctx context.Context, id uuid.UUID, documentURL string) error {
	return s.repo.UpdateDocument(ctx, id, documentURL)
}

// AddPayment validates and records a payment. The invoice status is left
// untouched: a caller that wants Pending → Paid once the balance clears
// makes that transition explicitly.
func (s *Service) AddPayment(ctx context.Context, invoiceID uuid.UUID, params PaymentParams) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := ValidatePayment(inv, params, s.now()); err != nil {
		return nil, err
	}

	p := &Payment{
		InvoiceID:   invoiceID,
		PaymentDate: params.PaymentDate,
		Amount:      params.Amount,
		Method:      params.Method,
		Reference:   params.Reference,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	inv.Payments = append(inv.Payments, *p)

	return inv, nil
}
