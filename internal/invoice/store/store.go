package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vibrantgarden/almo/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.order_id, i.number, i.invoice_date, i.total_amount, i.status,
	i.document_url, i.created_at, i.updated_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	var docURL sql.NullString

	if err := s.Scan(
		&inv.ID, &inv.OrderID, &inv.Number, &inv.InvoiceDate, &inv.TotalAmount, &statusStr,
		&docURL, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)
	inv.DocumentURL = docURL.String

	return &inv, nil
}

// uniqueViolation is the postgres error code for a unique constraint breach;
// the invoices table has one on number.
const uniqueViolation = "23505"

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (order_id, number, invoice_date, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.OrderID,
		inv.Number,
		inv.InvoiceDate,
		inv.TotalAmount,
		inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", invoice.ErrDuplicateNumber, inv.Number)
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	payments, err := s.listPayments(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	inv.Payments = payments

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.OrderID != nil {
		query += fmt.Sprintf(" AND i.order_id = $%d", argIdx)

		args = append(args, *filter.OrderID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND i.invoice_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND i.invoice_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY i.invoice_date DESC, i.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	for _, inv := range invoices {
		payments, err := s.listPayments(ctx, inv.ID)
		if err != nil {
			return nil, err
		}

		inv.Payments = payments
	}

	return invoices, nil
}

func (s *Store) listPayments(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Payment, error) {
	query := `
		SELECT id, invoice_id, payment_date, amount, method, reference, created_at
		FROM payments
		WHERE invoice_id = $1
		ORDER BY payment_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []invoice.Payment

	for rows.Next() {
		var p invoice.Payment

		var method, reference sql.NullString

		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.Amount, &method, &reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.Method = method.String
		p.Reference = reference.String
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// UpdateStatus is the only mutation allowed on a created invoice besides the
// document link; number, date, and total have no update path at all.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating invoice status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, id uuid.UUID, documentURL string) error {
	query := `
		UPDATE invoices
		SET document_url = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, documentURL, id)
	if err != nil {
		return fmt.Errorf("updating invoice document: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

func (s *Store) CreatePayment(ctx context.Context, p *invoice.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, payment_date, amount, method, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.InvoiceID,
		p.PaymentDate,
		p.Amount,
		nullable(p.Method),
		nullable(p.Reference),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
