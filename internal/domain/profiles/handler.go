package profiles

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dnipets-backend/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/", getProfileHandler(svc))
		pr.Put("/", saveProfileHandler(svc))
	})
}

type addressPayload struct {
	Street      string `json:"street"`
	Number      string `json:"number"`
	City        string `json:"city"`
	Province    string `json:"province"`
	CountryCode string `json:"country_code"`
}

type profilePayload struct {
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     addressPayload `json:"address"`
	SecurityPIN string         `json:"security_pin"`
	PhotoURL    string         `json:"photo_url"`
}

type profileResponse struct {
	UID         string         `json:"uid"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     addressPayload `json:"address"`
	SecurityPIN string         `json:"security_pin,omitempty"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// getProfileHandler godoc
// @Summary Perfil del usuario autenticado (vacío si todavía no existe)
// @Tags profiles
// @Router /me/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func saveProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req profilePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p := UserProfile{
			UID:       claims.UserID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address: Address{
				Street:      req.Address.Street,
				Number:      req.Address.Number,
				City:        req.Address.City,
				Province:    req.Address.Province,
				CountryCode: req.Address.CountryCode,
			},
			SecurityPIN: req.SecurityPIN,
			PhotoURL:    req.PhotoURL,
		}

		if err := svc.Save(r.Context(), p); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		saved, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(saved))
	}
}

func toProfileResponse(p UserProfile) profileResponse {
	resp := profileResponse{
		UID:       p.UID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address: addressPayload{
			Street:      p.Address.Street,
			Number:      p.Address.Number,
			City:        p.Address.City,
			Province:    p.Address.Province,
			CountryCode: p.Address.CountryCode,
		},
		SecurityPIN: p.SecurityPIN,
		PhotoURL:    p.PhotoURL,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
