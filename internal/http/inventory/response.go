package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/inventory"
)

type recordResponse struct {
	ID                uuid.UUID             `json:"id"`
	MaterialID        uuid.UUID             `json:"material_id"`
	CurrentStock      int64                 `json:"current_stock"`
	MinimumStock      int64                 `json:"minimum_stock"`
	MaximumStock      *int64                `json:"maximum_stock,omitempty"`
	WarehouseLocation string                `json:"warehouse_location,omitempty"`
	StockStatus       inventory.StockStatus `json:"stock_status"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         *time.Time            `json:"updated_at,omitempty"`
}

type movementResponse struct {
	ID           uuid.UUID              `json:"id"`
	RecordID     uuid.UUID              `json:"record_id"`
	Type         inventory.MovementType `json:"type"`
	Quantity     int64                  `json:"quantity"`
	MovementDate time.Time              `json:"movement_date"`
	BalanceAfter int64                  `json:"balance_after"`
	Reference    string                 `json:"reference,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

type ledgerResponse struct {
	Record    recordResponse     `json:"record"`
	Movements []movementResponse `json:"movements"`
}

func toRecordResponse(r *inventory.Record) recordResponse {
	return recordResponse{
		ID:                r.ID,
		MaterialID:        r.MaterialID,
		CurrentStock:      r.CurrentStock,
		MinimumStock:      r.MinimumStock,
		MaximumStock:      r.MaximumStock,
		WarehouseLocation: r.WarehouseLocation,
		StockStatus:       r.StockStatus(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toRecordResponseList(records []*inventory.Record) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, r := range records {
		resp[i] = toRecordResponse(r)
	}

	return resp
}

func toMovementResponse(mv inventory.Movement) movementResponse {
	return movementResponse{
		ID:           mv.ID,
		RecordID:     mv.RecordID,
		Type:         mv.Type,
		Quantity:     mv.Quantity,
		MovementDate: mv.MovementDate,
		BalanceAfter: mv.BalanceAfter,
		Reference:    mv.Reference,
		CreatedAt:    mv.CreatedAt,
	}
}

func toMovementResponseList(movements []inventory.Movement) []movementResponse {
	resp := make([]movementResponse, len(movements))
	for i, mv := range movements {
		resp[i] = toMovementResponse(mv)
	}

	return resp
}
