package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vibrantgarden/almo/internal/inventory"
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

const selectRecordColumns = `
	r.id, r.material_id, r.current_stock, r.minimum_stock, r.maximum_stock,
	r.warehouse_location, r.created_at, r.updated_at
`

func scanRecord(s scanner) (*inventory.Record, error) {
	var r inventory.Record

	var maxStock sql.NullInt64

	var location sql.NullString

	if err := s.Scan(
		&r.ID, &r.MaterialID, &r.CurrentStock, &r.MinimumStock, &maxStock,
		&location, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if maxStock.Valid {
		r.MaximumStock = &maxStock.Int64
	}

	r.WarehouseLocation = location.String

	return &r, nil
}

// uniqueViolation is the postgres error code for a unique constraint breach;
// inventory_records has one on material_id (one active record per material).
const uniqueViolation = "23505"

func (s *Store) CreateRecord(ctx context.Context, r *inventory.Record) error {
	query := `
		INSERT INTO inventory_records (material_id, current_stock, minimum_stock, maximum_stock, warehouse_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var maxStock sql.NullInt64
	if r.MaximumStock != nil {
		maxStock = sql.NullInt64{Int64: *r.MaximumStock, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		r.MaterialID,
		r.CurrentStock,
		r.MinimumStock,
		maxStock,
		sql.NullString{String: r.WarehouseLocation, Valid: r.WarehouseLocation != ""},
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: material %s", inventory.ErrRecordExists, r.MaterialID)
		}

		return fmt.Errorf("creating inventory record: %w", err)
	}

	return nil
}

func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (*inventory.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM inventory_records r
		WHERE r.id = $1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting inventory record: %w", err)
	}

	return r, nil
}

func (s *Store) GetRecordByMaterial(ctx context.Context, materialID uuid.UUID) (*inventory.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM inventory_records r
		WHERE r.material_id = $1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, materialID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting inventory record by material: %w", err)
	}

	return r, nil
}

func (s *Store) ListRecords(ctx context.Context) ([]*inventory.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM inventory_records r
		ORDER BY r.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing inventory records: %w", err)
	}
	defer rows.Close()

	var records []*inventory.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory record: %w", err)
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *Store) ListMovements(ctx context.Context, recordID uuid.UUID) ([]inventory.Movement, error) {
	query := `
		SELECT id, record_id, type, quantity, movement_date, balance_after, reference, created_at
		FROM inventory_movements
		WHERE record_id = $1
		ORDER BY movement_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var movements []inventory.Movement

	for rows.Next() {
		var mv inventory.Movement

		var typeStr string

		var reference sql.NullString

		if err := rows.Scan(&mv.ID, &mv.RecordID, &typeStr, &mv.Quantity, &mv.MovementDate, &mv.BalanceAfter, &reference, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		mv.Type = inventory.MovementType(typeStr)
		mv.Reference = reference.String
		movements = append(movements, mv)
	}

	return movements, rows.Err()
}

type movementTx struct {
	tx       *sql.Tx
	recordID uuid.UUID
}

// BeginMovement opens the transaction for one movement application. The
// record row is locked in LockRecord, so two movements against the same
// material queue up behind each other instead of racing on the balance.
func (s *Store) BeginMovement(ctx context.Context, recordID uuid.UUID) (inventory.MovementTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning movement tx: %w", err)
	}

	return &movementTx{tx: tx, recordID: recordID}, nil
}

func (mtx *movementTx) Commit() error   { return mtx.tx.Commit() }
func (mtx *movementTx) Rollback() error { return mtx.tx.Rollback() }

func (mtx *movementTx) LockRecord(ctx context.Context) (*inventory.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM inventory_records r
		WHERE r.id = $1
		FOR UPDATE`

	r, err := scanRecord(mtx.tx.QueryRowContext(ctx, query, mtx.recordID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("locking inventory record: %w", err)
	}

	return r, nil
}

// InsertMovement appends to the ledger. There is deliberately no update or
// delete counterpart: history is immutable, corrections are new Adjustments.
func (mtx *movementTx) InsertMovement(ctx context.Context, mv *inventory.Movement) error {
	query := `
		INSERT INTO inventory_movements (record_id, type, quantity, movement_date, balance_after, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := mtx.tx.QueryRowContext(ctx, query,
		mtx.recordID,
		mv.Type,
		mv.Quantity,
		mv.MovementDate,
		mv.BalanceAfter,
		sql.NullString{String: mv.Reference, Valid: mv.Reference != ""},
	).Scan(&mv.ID, &mv.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting movement: %w", err)
	}

	mv.RecordID = mtx.recordID

	return nil
}

func (mtx *movementTx) SetStock(ctx context.Context, stock int64) error {
	query := `
		UPDATE inventory_records
		SET current_stock = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := mtx.tx.ExecContext(ctx, query, stock, mtx.recordID); err != nil {
		return fmt.Errorf("setting current stock: %w", err)
	}

	return nil
}
