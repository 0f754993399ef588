package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	GetRecordByMaterial(ctx context.Context, materialID uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context) ([]*Record, error)
	ListMovements(ctx context.Context, recordID uuid.UUID) ([]Movement, error)

	BeginMovement(ctx context.Context, recordID uuid.UUID) (MovementTx, error)
}

// MovementTx serializes one movement application against a record. The store
// locks the record row for the duration, so concurrent movements against the
// same material never interleave their read-modify-write of the balance.
type MovementTx interface {
	LockRecord(ctx context.Context) (*Record, error)
	InsertMovement(ctx context.Context, mv *Movement) error
	SetStock(ctx context.Context, stock int64) error
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

type CreateRecordParams struct {
	MaterialID        uuid.UUID
	InitialStock      int64
	MinimumStock      int64
	MaximumStock      *int64
	WarehouseLocation string
}

// CreateRecord opens the inventory record for a material. This is the only
// moment a caller sets the stock level directly; afterwards the level only
// moves through RecordMovement.
func (s *Service) CreateRecord(ctx context.Context, params CreateRecordParams) (*Record, error) {
	if params.MaterialID == uuid.Nil {
		return nil, fmt.Errorf("%w: material is required", ErrValidation)
	}

	if params.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", ErrValidation)
	}

	if params.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: minimum stock cannot be negative", ErrValidation)
	}

	if params.MaximumStock != nil && *params.MaximumStock < params.MinimumStock {
		return nil, fmt.Errorf("%w: maximum stock cannot be below minimum stock", ErrValidation)
	}

	r := &Record{
		MaterialID:        params.MaterialID,
		CurrentStock:      params.InitialStock,
		MinimumStock:      params.MinimumStock,
		MaximumStock:      params.MaximumStock,
		WarehouseLocation: params.WarehouseLocation,
	}
	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetRecord(ctx, id)
}

func (s *Service) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*Record, error) {
	return s.repo.GetRecordByMaterial(ctx, materialID)
}

func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.ListRecords(ctx)
}

// Ledger returns the record together with its full movement history in
// chronological order.
func (s *Service) Ledger(ctx context.Context, recordID uuid.UUID) (*Record, []Movement, error) {
	r, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}

	movements, err := s.repo.ListMovements(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}

	return r, movements, nil
}

// RecordMovement appends one movement to the record's ledger. The record row
// is locked, the balance computed from the locked value, and the movement
// plus the updated stock committed together, so the cached CurrentStock can
// never drift from the log under concurrency.
func (s *Service) RecordMovement(ctx context.Context, recordID uuid.UUID, params MovementParams) (*Record, *Movement, error) {
	mtx, err := s.repo.BeginMovement(ctx, recordID)
	if err != nil {
		return nil, nil, fmt.Errorf("begin movement: %w", err)
	}
	defer mtx.Rollback()

	r, err := mtx.LockRecord(ctx)
	if err != nil {
		return nil, nil, err
	}

	mv, err := ApplyMovement(r, params, s.now())
	if err != nil {
		return nil, nil, err
	}

	if err := mtx.InsertMovement(ctx, &mv); err != nil {
		return nil, nil, fmt.Errorf("insert movement: %w", err)
	}

	if err := mtx.SetStock(ctx, mv.BalanceAfter); err != nil {
		return nil, nil, fmt.Errorf("update stock: %w", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit movement: %w", err)
	}

	r.CurrentStock = mv.BalanceAfter

	return r, &mv, nil
}
