package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dnipets-backend/internal/middleware"
)

// OwnerLookup expone el dueño actual de una mascota. Lo implementa el
// service de pets; acá es una interfaz para evitar el ciclo de imports
// (pets necesita borrar registros, health necesita validar dueño).
type OwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners OwnerLookup) {
	r.Route("/pets/{petID}/records", func(hr chi.Router) {
		hr.Post("/", createRecordHandler(svc, owners))
		hr.Get("/", listRecordsHandler(svc, owners))
	})

	r.Route("/records/{recordID}", func(hr chi.Router) {
		hr.Put("/", updateRecordHandler(svc, owners))
		hr.Delete("/", deleteRecordHandler(svc, owners))
	})
}

type recordPayload struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Date         string `json:"date"`          // YYYY-MM-DD opcional
	NextDueDate  string `json:"next_due_date"` // YYYY-MM-DD opcional
	Notes        string `json:"notes"`
	Veterinarian string `json:"veterinarian"`
	FileURL      string `json:"file_url"`
}

type recordResponse struct {
	ID           string     `json:"id"`
	PetID        string     `json:"pet_id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Date         *time.Time `json:"date,omitempty"`
	NextDueDate  *time.Time `json:"next_due_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Veterinarian string     `json:"veterinarian,omitempty"`
	FileURL      string     `json:"file_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func createRecordHandler(svc *Service, owners OwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if !authorizePet(w, r, owners, petID) {
			return
		}

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		rec, err := svc.Create(r.Context(), petID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func listRecordsHandler(svc *Service, owners OwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if !authorizePet(w, r, owners, petID) {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateRecordHandler(svc *Service, owners OwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := authorizeRecord(w, r, svc, owners)
		if !ok {
			return
		}

		in, okIn := decodeInput(w, r)
		if !okIn {
			return
		}

		updated, err := svc.Update(r.Context(), rec.ID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(updated))
	}
}

func deleteRecordHandler(svc *Service, owners OwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := authorizeRecord(w, r, svc, owners)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), rec.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// authorizePet exige usuario autenticado y dueño de la mascota.
func authorizePet(w http.ResponseWriter, r *http.Request, owners OwnerLookup, petID string) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}

	ownerID, err := owners.OwnerOf(r.Context(), petID)
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return false
	}
	if ownerID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func authorizeRecord(w http.ResponseWriter, r *http.Request, svc *Service, owners OwnerLookup) (HealthRecord, bool) {
	rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return HealthRecord{}, false
	}
	if !authorizePet(w, r, owners, rec.PetID) {
		return HealthRecord{}, false
	}
	return rec, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req recordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return Input{}, false
	}

	date, ok := parseDate(w, req.Date)
	if !ok {
		return Input{}, false
	}
	due, ok := parseDate(w, req.NextDueDate)
	if !ok {
		return Input{}, false
	}

	return Input{
		Title:        req.Title,
		Type:         RecordType(req.Type),
		Date:         date,
		NextDueDate:  due,
		Notes:        req.Notes,
		Veterinarian: req.Veterinarian,
		FileURL:      req.FileURL,
	}, true
}

func parseDate(w http.ResponseWriter, raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, "dates must be YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toRecordResponse(rec HealthRecord) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		PetID:        rec.PetID,
		Title:        rec.Title,
		Type:         string(rec.Type),
		Date:         rec.Date,
		NextDueDate:  rec.NextDueDate,
		Notes:        rec.Notes,
		Veterinarian: rec.Veterinarian,
		FileURL:      rec.FileURL,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
