package material

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	CreateMaterial(ctx context.Context, m *Material) error
	GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error)
	ListMaterials(ctx context.Context) ([]*Material, error)
	UpdateMaterial(ctx context.Context, m *Material) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name      string
	Unit      string
	UnitPrice int64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Material, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if strings.TrimSpace(params.Unit) == "" {
		return nil, fmt.Errorf("%w: unit is required", ErrValidation)
	}

	if params.UnitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	m := &Material{
		Name:      params.Name,
		Unit:      params.Unit,
		UnitPrice: params.UnitPrice,
	}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Material, error) {
	return s.repo.GetMaterial(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Material, error) {
	return s.repo.ListMaterials(ctx)
}

// Update edits the catalog entry. Only the catalog is touched: order lines
// and stock history keep the values they captured.
func (s *Service) Update(ctx context.Context, m *Material) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if m.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	return s.repo.UpdateMaterial(ctx, m)
}
