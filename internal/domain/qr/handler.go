package qr

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Rutas públicas: sin auth. Una mascota no encontrada responde 200 con
// found=false (el cliente cae al entry normal, no es un error).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/public/resolve", resolveHandler(svc))
	r.Get("/public/pets/{petID}", publicPetHandler(svc))
}

type resolutionResponse struct {
	Found          bool                   `json:"found"`
	Pet            *publicProfileResponse `json:"pet,omitempty"`
	View           string                 `json:"view,omitempty"`
	ContactLink    string                 `json:"contact_link,omitempty"`
	ContactPrivate bool                   `json:"contact_private,omitempty"`
}

type publicProfileResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Breed          string `json:"breed"`
	Sex            string `json:"sex"`
	Status         string `json:"status"`
	PhotoURL       string `json:"photo_url"`
	OwnerFirstName string `json:"owner_first_name"`
	OwnerPhone     string `json:"owner_phone,omitempty"`
}

// resolveHandler godoc
// @Summary Resuelve un escaneo de QR a la ficha pública de la mascota
// @Description Acepta ?p= / ?id= directos, o ?u= con la URL escaneada completa (incluye la forma con query dentro del fragment).
// @Tags public
// @Router /public/resolve [get]
func resolveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var petID string
		if u := r.URL.Query().Get("u"); u != "" {
			petID = ExtractPetID(u)
		} else {
			petID = ExtractPetID(r.URL.String())
		}

		res, err := svc.Resolve(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResolutionResponse(res))
	}
}

func publicPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Resolve(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResolutionResponse(res))
	}
}

func toResolutionResponse(res Resolution) resolutionResponse {
	if !res.Found {
		return resolutionResponse{Found: false}
	}
	return resolutionResponse{
		Found: true,
		Pet: &publicProfileResponse{
			ID:             res.Profile.ID,
			Name:           res.Profile.Name,
			Breed:          res.Profile.Breed,
			Sex:            string(res.Profile.Sex),
			Status:         string(res.Profile.Status),
			PhotoURL:       res.Profile.PhotoURL,
			OwnerFirstName: res.Profile.OwnerFirstName,
			OwnerPhone:     res.Profile.OwnerPhone,
		},
		View:           string(res.View),
		ContactLink:    res.ContactLink,
		ContactPrivate: res.ContactPrivate,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
