package material

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/material"
)

type materialResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Unit      string     `json:"unit"`
	UnitPrice int64      `json:"unit_price"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(m *material.Material) materialResponse {
	return materialResponse{
		ID:        m.ID,
		Name:      m.Name,
		Unit:      m.Unit,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toResponseList(materials []*material.Material) []materialResponse {
	resp := make([]materialResponse, len(materials))
	for i, m := range materials {
		resp[i] = toResponse(m)
	}

	return resp
}
