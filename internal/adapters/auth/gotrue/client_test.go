package gotrue

import (
	"errors"
	"net/http"
	"testing"

	"dnipets-backend/internal/platform/httpclient"
	"dnipets-backend/internal/ports/auth"
)

func TestMapErrorTaxonomy(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://auth.example.com", AnonKey: "k"})

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"email sin confirmar", 400, `{"msg":"Email not confirmed"}`, auth.ErrEmailNotConfirmed},
		{"credenciales inválidas", 400, `{"message":"Invalid login credentials"}`, auth.ErrInvalidCredentials},
		{"invalid_grant", 400, `{"error":"invalid_grant"}`, auth.ErrInvalidCredentials},
		{"usuario existente", 422, `{"msg":"User already registered"}`, auth.ErrUserExists},
		{"token vencido", 401, `{"msg":"JWT expired"}`, auth.ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.mapError(&httpclient.HTTPError{StatusCode: tc.status, Body: tc.body})
			if !errors.Is(err, tc.want) {
				t.Fatalf("mapError(%d, %s) = %v, quiero %v", tc.status, tc.body, err, tc.want)
			}
		})
	}
}

func TestMapErrorNormalizesUnknown(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://auth.example.com", AnonKey: "k"})

	err := c.mapError(&httpclient.HTTPError{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"msg":"database unavailable"}`,
	})
	if err == nil || err.Error() != "Error 500: database unavailable" {
		t.Fatalf("err = %v", err)
	}
}

func TestMapErrorPassesThroughNetworkErrors(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://auth.example.com", AnonKey: "k"})

	netErr := errors.New("dial tcp: timeout")
	if got := c.mapError(netErr); got != netErr {
		t.Fatalf("err = %v", got)
	}
}

func TestSessionResponseShapes(t *testing.T) {
	// Sesión completa.
	full := sessionResponse{AccessToken: "tok"}
	full.User = &struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}{ID: "u1", Email: "a@b.c"}

	s := full.toSession()
	if s.AccessToken != "tok" || s.UserID != "u1" || s.Email != "a@b.c" {
		t.Fatalf("session = %+v", s)
	}

	// Registro pendiente: GoTrue devuelve el user plano sin token.
	pending := sessionResponse{ID: "u2", Email: "c@d.e"}
	s = pending.toSession()
	if s.AccessToken != "" || s.UserID != "u2" {
		t.Fatalf("session pendiente = %+v", s)
	}
}
