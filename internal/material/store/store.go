package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/material"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateMaterial(ctx context.Context, m *material.Material) error {
	query := `
		INSERT INTO materials (name, unit, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.Name,
		m.Unit,
		m.UnitPrice,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating material: %w", err)
	}

	return nil
}

func (s *Store) GetMaterial(ctx context.Context, id uuid.UUID) (*material.Material, error) {
	query := `
		SELECT id, name, unit, unit_price, created_at, updated_at
		FROM materials
		WHERE id = $1
	`

	var m material.Material

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Unit, &m.UnitPrice, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, material.ErrNotFound
		}

		return nil, fmt.Errorf("getting material: %w", err)
	}

	return &m, nil
}

func (s *Store) ListMaterials(ctx context.Context) ([]*material.Material, error) {
	query := `
		SELECT id, name, unit, unit_price, created_at, updated_at
		FROM materials
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing materials: %w", err)
	}
	defer rows.Close()

	var materials []*material.Material

	for rows.Next() {
		var m material.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.UnitPrice, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning material: %w", err)
		}

		materials = append(materials, &m)
	}

	return materials, rows.Err()
}

func (s *Store) UpdateMaterial(ctx context.Context, m *material.Material) error {
	query := `
		UPDATE materials
		SET name = $1, unit = $2, unit_price = $3, updated_at = NOW()
		WHERE id = $4
	`

	res, err := s.db.ExecContext(ctx, query, m.Name, m.Unit, m.UnitPrice, m.ID)
	if err != nil {
		return fmt.Errorf("updating material: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return material.ErrNotFound
	}

	return nil
}
