package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dnipets-backend/internal/middleware"
	"dnipets-backend/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/auth/anonymous", anonymousHandler(svc))
	r.Post("/auth/login", loginHandler(svc))
	r.Get("/auth/session", sessionHandler(svc))
	r.Post("/auth/logout", logoutHandler(svc))
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
}

type authResponse struct {
	Outcome    string           `json:"outcome"`
	Registered bool             `json:"registered,omitempty"`
	Session    *sessionResponse `json:"session,omitempty"`
}

// anonymousHandler godoc
// @Summary Abre una sesión anónima (best-effort)
// @Tags auth
// @Router /auth/anonymous [post]
func anonymousHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := svc.SignInAnonymously(r.Context())
		if !ok {
			// Sin backend de auth la app corre en modo invitado local.
			writeJSON(w, http.StatusOK, map[string]any{"guest": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"guest":   false,
			"session": toSessionResponse(sess),
		})
	}
}

// loginHandler godoc
// @Summary Login-o-registro unificado por email y password
// @Tags auth
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.AuthWithEmail(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		out := authResponse{
			Outcome:    string(res.Outcome),
			Registered: res.Registered,
		}
		if res.Outcome == OutcomeSignedIn {
			sr := toSessionResponse(res.Session)
			out.Session = &sr
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func sessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r.Header.Get("Authorization"))
		claims, err := svc.CurrentUser(r.Context(), token)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":   claims.UserID,
			"email":     claims.Email,
			"anonymous": claims.Anonymous,
		})
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context(), middleware.BearerToken(r.Header.Get("Authorization")))
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "email and password are required", http.StatusBadRequest)
	case errors.Is(err, ErrWrongPassword):
		http.Error(w, "wrong password for existing account", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrNotConfigured):
		http.Error(w, "auth provider not configured", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		AccessToken: s.AccessToken,
		UserID:      s.UserID,
		Email:       s.Email,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
