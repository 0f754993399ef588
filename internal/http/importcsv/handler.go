package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/importer"
	"github.com/vibrantgarden/almo/internal/inventory"
	"github.com/vibrantgarden/almo/internal/material"
)

type Handler struct {
	importSvc    *importer.Service
	materialSvc  *material.Service
	inventorySvc *inventory.Service
}

func NewHandler(importSvc *importer.Service, materialSvc *material.Service, inventorySvc *inventory.Service) *Handler {
	return &Handler{
		importSvc:    importSvc,
		materialSvc:  materialSvc,
		inventorySvc: inventorySvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type movementDTO struct {
	RecordID     uuid.UUID              `json:"record_id"`
	Type         inventory.MovementType `json:"type"`
	Quantity     int64                  `json:"quantity"`
	MovementDate time.Time              `json:"movement_date"`
	Reference    string                 `json:"reference,omitempty"`
}

type unresolvedDTO struct {
	MaterialName string                 `json:"material_name"`
	Type         inventory.MovementType `json:"type"`
	Quantity     int64                  `json:"quantity"`
	MovementDate time.Time              `json:"movement_date"`
	Reference    string                 `json:"reference,omitempty"`
}

type importSuccessResponse struct {
	Applied int `json:"applied"`
}

type importConflictResponse struct {
	Resolved   []movementDTO   `json:"resolved"`
	Unresolved []unresolvedDTO `json:"unresolved"`
}

type confirmRequest struct {
	Movements []movementDTO `json:"movements"`
}

// importCSV parses the uploaded export and resolves each row's material
// against the catalogue. When every row resolves the movements are applied
// immediately; otherwise nothing is applied and the split between resolved
// and unresolved rows is returned for the client to fix up and confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		http.Error(w, "source field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resolved, unresolved, err := h.resolve(r, rows)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if len(unresolved) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(importConflictResponse{
			Resolved:   resolved,
			Unresolved: unresolved,
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	applied, err := h.apply(r, resolved)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importSuccessResponse{Applied: applied}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// confirmImport applies movements a client already resolved, typically after
// fixing the unresolved rows from a previous upload.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	applied, err := h.apply(r, req.Movements)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importSuccessResponse{Applied: applied}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// resolve maps parsed rows to inventory records by material name. Lookup is
// by exact catalogue name; rows whose material has no record stay unresolved.
func (h *Handler) resolve(r *http.Request, rows []inventory.MovementImport) ([]movementDTO, []unresolvedDTO, error) {
	materials, err := h.materialSvc.List(r.Context())
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]uuid.UUID, len(materials))
	for _, m := range materials {
		byName[m.Name] = m.ID
	}

	var (
		resolved   []movementDTO
		unresolved []unresolvedDTO
	)

	for _, row := range rows {
		materialID, ok := byName[row.MaterialName]
		if !ok {
			unresolved = append(unresolved, unresolvedDTO{
				MaterialName: row.MaterialName,
				Type:         row.Type,
				Quantity:     row.Quantity,
				MovementDate: row.MovementDate,
				Reference:    row.Reference,
			})

			continue
		}

		rec, err := h.inventorySvc.GetByMaterial(r.Context(), materialID)
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				unresolved = append(unresolved, unresolvedDTO{
					MaterialName: row.MaterialName,
					Type:         row.Type,
					Quantity:     row.Quantity,
					MovementDate: row.MovementDate,
					Reference:    row.Reference,
				})

				continue
			}

			return nil, nil, err
		}

		resolved = append(resolved, movementDTO{
			RecordID:     rec.ID,
			Type:         row.Type,
			Quantity:     row.Quantity,
			MovementDate: row.MovementDate,
			Reference:    row.Reference,
		})
	}

	return resolved, unresolved, nil
}

func (h *Handler) apply(r *http.Request, movements []movementDTO) (int, error) {
	for i, mv := range movements {
		_, _, err := h.inventorySvc.RecordMovement(r.Context(), mv.RecordID, inventory.MovementParams{
			Type:         mv.Type,
			Quantity:     mv.Quantity,
			MovementDate: mv.MovementDate,
			Reference:    mv.Reference,
		})
		if err != nil {
			return i, err
		}
	}

	return len(movements), nil
}
