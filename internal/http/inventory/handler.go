package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.createRecord)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/ledger", h.ledger)
	r.Post("/{id}/movements", h.recordMovement)
}

type createRecordRequest struct {
	MaterialID        uuid.UUID `json:"material_id"`
	InitialStock      int64     `json:"initial_stock"`
	MinimumStock      int64     `json:"minimum_stock"`
	MaximumStock      *int64    `json:"maximum_stock,omitempty"`
	WarehouseLocation string    `json:"warehouse_location,omitempty"`
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.CreateRecord(r.Context(), inventory.CreateRecordParams{
		MaterialID:        req.MaterialID,
		InitialStock:      req.InitialStock,
		MinimumStock:      req.MinimumStock,
		MaximumStock:      req.MaximumStock,
		WarehouseLocation: req.WarehouseLocation,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, inventory.ErrRecordExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toRecordResponse(rec)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if s := r.URL.Query().Get("material_id"); s != "" {
		materialID, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid material_id", http.StatusBadRequest)
			return
		}

		rec, err := h.svc.GetByMaterial(r.Context(), materialID)
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				http.Error(w, "inventory record not found", http.StatusNotFound)
				return
			}

			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(toRecordResponseList([]*inventory.Record{rec})); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	records, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRecordResponseList(records)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.Error(w, "inventory record not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRecordResponse(rec)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, movements, err := h.svc.Ledger(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.Error(w, "inventory record not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ledgerResponse{
		Record:    toRecordResponse(rec),
		Movements: toMovementResponseList(movements),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type recordMovementRequest struct {
	Type         inventory.MovementType `json:"type"`
	Quantity     int64                  `json:"quantity"`
	MovementDate time.Time              `json:"movement_date"`
	Reference    string                 `json:"reference,omitempty"`
}

type recordMovementResponse struct {
	Record   recordResponse   `json:"record"`
	Movement movementResponse `json:"movement"`
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req recordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, mv, err := h.svc.RecordMovement(r.Context(), id, inventory.MovementParams{
		Type:         req.Type,
		Quantity:     req.Quantity,
		MovementDate: req.MovementDate,
		Reference:    req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, inventory.ErrInsufficientStock):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, inventory.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(recordMovementResponse{
		Record:   toRecordResponse(rec),
		Movement: toMovementResponse(*mv),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
