package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/order"
)

type orderResponse struct {
	ID          uuid.UUID      `json:"id"`
	ProjectID   uuid.UUID      `json:"project_id"`
	SupplierID  uuid.UUID      `json:"supplier_id"`
	OrderDate   time.Time      `json:"order_date"`
	Status      order.Status   `json:"status"`
	Items       []itemResponse `json:"items"`
	TotalAmount int64          `json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

type itemResponse struct {
	ID         uuid.UUID `json:"id"`
	MaterialID uuid.UUID `json:"material_id"`
	Quantity   int64     `json:"quantity"`
	UnitPrice  int64     `json:"unit_price"`
	LineTotal  int64     `json:"line_total"`
}

func toResponse(o *order.Order) orderResponse {
	items := make([]itemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = itemResponse{
			ID:         item.ID,
			MaterialID: item.MaterialID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal(),
		}
	}

	return orderResponse{
		ID:          o.ID,
		ProjectID:   o.ProjectID,
		SupplierID:  o.SupplierID,
		OrderDate:   o.OrderDate,
		Status:      o.Status,
		Items:       items,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toResponseList(orders []*order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o)
	}

	return resp
}
