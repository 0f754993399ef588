package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOrderColumns = `
	o.id, o.project_id, o.supplier_id, o.order_date, o.status, o.total_amount,
	o.created_at, o.updated_at
`

func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var statusStr string

	if err := s.Scan(
		&o.ID, &o.ProjectID, &o.SupplierID, &o.OrderDate, &statusStr, &o.TotalAmount,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = order.Status(statusStr)

	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO purchase_orders (project_id, supplier_id, order_date, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		o.ProjectID,
		o.SupplierID,
		o.OrderDate,
		o.Status,
		o.TotalAmount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating purchase order: %w", err)
	}

	itemQuery := `
		INSERT INTO purchase_order_items (order_id, material_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID

		err := tx.QueryRowContext(ctx, itemQuery,
			it.OrderID, it.MaterialID, it.Quantity, it.UnitPrice,
		).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order: %w", err)
	}

	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM purchase_orders o
		WHERE o.id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting purchase order: %w", err)
	}

	items, err := s.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	o.Items = items

	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM purchase_orders o
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND o.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND o.order_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND o.order_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY o.order_date DESC, o.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	for _, o := range orders {
		items, err := s.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}

		o.Items = items
	}

	return orders, nil
}

func (s *Store) listItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	query := `
		SELECT id, order_id, material_id, quantity, unit_price, created_at, updated_at
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []order.Item

	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MaterialID, &it.Quantity, &it.UnitPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}

		items = append(items, it)
	}

	return items, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrNotFound
	}

	return nil
}

// DeleteOrder removes the order and its items in one transaction. Invoices
// are intentionally left alone: they reference the order by id only.
func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("deleting order items: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting purchase order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

type reconcileTx struct {
	tx *sql.Tx
}

// BeginReconcile opens the transaction that will apply a reconciliation plan
// and locks the order row so concurrent item edits are serialized.
func (s *Store) BeginReconcile(ctx context.Context, orderID uuid.UUID) (order.ReconcileTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning reconcile tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT id FROM purchase_orders WHERE id = $1 FOR UPDATE`, orderID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("locking purchase order: %w", err)
	}

	return &reconcileTx{tx: tx}, nil
}

func (rtx *reconcileTx) Commit() error   { return rtx.tx.Commit() }
func (rtx *reconcileTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *reconcileTx) CreateItems(ctx context.Context, orderID uuid.UUID, items []order.Item) error {
	query := `
		INSERT INTO purchase_order_items (order_id, material_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	for _, it := range items {
		if _, err := rtx.tx.ExecContext(ctx, query, orderID, it.MaterialID, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("creating order item: %w", err)
		}
	}

	return nil
}

func (rtx *reconcileTx) UpdateItems(ctx context.Context, items []order.Item) error {
	query := `
		UPDATE purchase_order_items
		SET material_id = $1, quantity = $2, unit_price = $3, updated_at = NOW()
		WHERE id = $4
	`

	for _, it := range items {
		if _, err := rtx.tx.ExecContext(ctx, query, it.MaterialID, it.Quantity, it.UnitPrice, it.ID); err != nil {
			return fmt.Errorf("updating order item: %w", err)
		}
	}

	return nil
}

func (rtx *reconcileTx) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	query := `DELETE FROM purchase_order_items WHERE id = $1`

	for _, id := range ids {
		if _, err := rtx.tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("deleting order item: %w", err)
		}
	}

	return nil
}

func (rtx *reconcileTx) SetTotal(ctx context.Context, orderID uuid.UUID, total int64) error {
	query := `
		UPDATE purchase_orders
		SET total_amount = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := rtx.tx.ExecContext(ctx, query, total, orderID); err != nil {
		return fmt.Errorf("setting order total: %w", err)
	}

	return nil
}
