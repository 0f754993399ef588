package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/invoice"
)

type invoiceResponse struct {
	ID          uuid.UUID         `json:"id"`
	OrderID     uuid.UUID         `json:"order_id"`
	Number      string            `json:"number"`
	InvoiceDate time.Time         `json:"invoice_date"`
	TotalAmount int64             `json:"total_amount"`
	Outstanding int64             `json:"outstanding"`
	Status      invoice.Status    `json:"status"`
	DocumentURL string            `json:"document_url,omitempty"`
	Payments    []paymentResponse `json:"payments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

type paymentResponse struct {
	ID          uuid.UUID `json:"id"`
	PaymentDate time.Time `json:"payment_date"`
	Amount      int64     `json:"amount"`
	Method      string    `json:"method,omitempty"`
	Reference   string    `json:"reference,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	payments := make([]paymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = paymentResponse{
			ID:          p.ID,
			PaymentDate: p.PaymentDate,
			Amount:      p.Amount,
			Method:      p.Method,
			Reference:   p.Reference,
		}
	}

	return invoiceResponse{
		ID:          inv.ID,
		OrderID:     inv.OrderID,
		Number:      inv.Number,
		InvoiceDate: inv.InvoiceDate,
		TotalAmount: inv.TotalAmount,
		Outstanding: inv.Outstanding(),
		Status:      inv.Status,
		DocumentURL: inv.DocumentURL,
		Payments:    payments,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
