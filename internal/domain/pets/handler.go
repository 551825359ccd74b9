package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dnipets-backend/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Route("/{petID}", func(ir chi.Router) {
			ir.Get("/", getPetHandler(svc))
			ir.Put("/", updatePetHandler(svc))
			ir.Delete("/", deletePetHandler(svc))

			ir.Post("/status", setStatusHandler(svc))
			ir.Post("/adopt", adoptHandler(svc))
			ir.Post("/simulate-adoption", simulateAdoptionHandler(svc))
		})
	})

	// Mascotas perdidas o en adopción para la vista de mapa.
	r.Get("/community/pets", communityHandler(svc))
}

type petPayload struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	Sex       string  `json:"sex"`
	BirthDate string  `json:"birth_date"` // YYYY-MM-DD opcional
	Weight    float64 `json:"weight"`
	OwnerName string  `json:"owner_name"`
	PhotoURL  string  `json:"photo_url"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes"`
	ChipID    string  `json:"chip_id"`
}

type petResponse struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	OriginalOwnerID string     `json:"original_owner_id,omitempty"`
	Name            string     `json:"name"`
	Species         string     `json:"species"`
	Breed           string     `json:"breed"`
	Sex             string     `json:"sex"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Weight          float64    `json:"weight"`
	OwnerName       string     `json:"owner_name"`
	PhotoURL        string     `json:"photo_url"`
	Status          string     `json:"status"`
	LastLat         *float64   `json:"last_lat,omitempty"`
	LastLng         *float64   `json:"last_lng,omitempty"`
	TrackingEndDate *time.Time `json:"tracking_end_date,omitempty"`
	ChipID          string     `json:"chip_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Registra una mascota del usuario autenticado
// @Tags pets
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req petPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, ok := parseBirthDate(w, req.BirthDate)
		if !ok {
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Weight:    req.Weight,
			OwnerName: req.OwnerName,
			PhotoURL:  req.PhotoURL,
			Status:    req.Status,
			Notes:     req.Notes,
			ChipID:    req.ChipID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Lista mascotas propias más las transferidas en tracking
// @Tags pets
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	// Owner o dueño original con tracking vigente.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		if p.OwnerID != claims.UserID && !p.TrackedBy(claims.UserID, time.Now()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, p, ok := requireOwner(w, r, svc)
		if !ok {
			return
		}

		var req petPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, ok := parseBirthDate(w, req.BirthDate)
		if !ok {
			return
		}

		updated, err := svc.Update(r.Context(), p.ID, UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Weight:    req.Weight,
			OwnerName: req.OwnerName,
			PhotoURL:  req.PhotoURL,
			Status:    req.Status,
			Notes:     req.Notes,
			ChipID:    req.ChipID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, p, ok := requireOwner(w, r, svc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), p.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statusRequest struct {
	Status string   `json:"status"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, p, ok := requireOwner(w, r, svc)
		if !ok {
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.SetStatus(r.Context(), p.ID, Status(req.Status), req.Lat, req.Lng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

type adoptRequest struct {
	OwnerName string `json:"owner_name"`
}

// adoptHandler: el adoptante es el usuario autenticado, no hace falta
// ser dueño actual.
func adoptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req adoptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Adopt(r.Context(), chi.URLParam(r, "petID"), claims.UserID, req.OwnerName)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func simulateAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, p, ok := requireOwner(w, r, svc)
		if !ok {
			return
		}

		updated, err := svc.SimulateExternalAdoption(r.Context(), p.ID, callerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func communityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Community(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// requireOwner resuelve claims + mascota y exige que el caller sea el
// dueño actual. Escribe la respuesta de error si algo falla.
func requireOwner(w http.ResponseWriter, r *http.Request, svc *Service) (userID string, p Pet, ok bool) {
	c, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(c.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", Pet{}, false
	}

	pet, err := svc.Get(r.Context(), chi.URLParam(r, "petID"))
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return "", Pet{}, false
	}
	if pet.OwnerID != c.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", Pet{}, false
	}
	return c.UserID, pet, true
}

func parseBirthDate(w http.ResponseWriter, raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		OriginalOwnerID: p.OriginalOwnerID,
		Name:            p.Name,
		Species:         string(p.Species),
		Breed:           p.Breed,
		Sex:             string(p.Sex),
		BirthDate:       p.BirthDate,
		Weight:          p.Weight,
		OwnerName:       p.OwnerName,
		PhotoURL:        p.PhotoURL,
		Status:          string(p.Status),
		LastLat:         p.LastLat,
		LastLng:         p.LastLng,
		TrackingEndDate: p.TrackingEndDate,
		ChipID:          p.ChipID,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// extraer un helper compartido recién vale la pena cuando se repita más.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
