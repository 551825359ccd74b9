package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dnipets-backend/internal/platform/httpclient"
	"dnipets-backend/internal/ports/auth"
)

// Client habla con un servicio de auth estilo GoTrue (Supabase Auth).
// BaseURL es la URL del proyecto; los endpoints cuelgan de /auth/v1.
type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) *Client {
	return &Client{
		http:    httpclient.New(cfg.BaseURL, cfg.Timeout),
		anonKey: strings.TrimSpace(cfg.AnonKey),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.anonKey != ""
}

// sessionResponse cubre las dos formas que devuelve GoTrue: sesión
// completa (access_token + user) o solo el user cuando el registro
// queda pendiente de confirmación.
type sessionResponse struct {
	AccessToken string `json:"access_token"`
	User        *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r sessionResponse) toSession() auth.Session {
	s := auth.Session{AccessToken: r.AccessToken, UserID: r.ID, Email: r.Email}
	if r.User != nil {
		s.UserID = r.User.ID
		s.Email = r.User.Email
	}
	return s
}

func (c *Client) SignInAnonymously(ctx context.Context) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, auth.ErrNotConfigured
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/signup", c.headers(""), map[string]any{}, &out)
	if err != nil {
		return auth.Session{}, c.mapError(err)
	}
	return out.toSession(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, auth.ErrNotConfigured
	}

	in := map[string]string{"email": email, "password": password}
	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.headers(""), in, &out)
	if err != nil {
		return auth.Session{}, c.mapError(err)
	}
	return out.toSession(), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, auth.ErrNotConfigured
	}

	in := map[string]string{"email": email, "password": password}
	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/signup", c.headers(""), in, &out)
	if err != nil {
		return auth.Session{}, c.mapError(err)
	}
	return out.toSession(), nil
}

func (c *Client) UserFromToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, auth.ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var out struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user", c.headers(token), nil, &out)
	if err != nil {
		return auth.Claims{}, c.mapError(err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, errors.New("gotrue response missing user id")
	}
	return auth.Claims{UserID: out.ID, Email: out.Email, Anonymous: out.IsAnonymous}, nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	if !c.IsConfigured() {
		return auth.ErrNotConfigured
	}
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/logout", c.headers(token), nil, nil)
	if err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *Client) headers(token string) map[string]string {
	h := map[string]string{"apikey": c.anonKey}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// mapError clasifica las respuestas de error de GoTrue en los sentinels
// del port, y normaliza el resto a "Error <code>: <message>".
func (c *Client) mapError(err error) error {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	msg := errorMessage(httpErr)

	switch {
	case strings.Contains(msg, "Email not confirmed"):
		return fmt.Errorf("%w: %s", auth.ErrEmailNotConfirmed, msg)
	case strings.Contains(msg, "Invalid login credentials"),
		strings.Contains(msg, "invalid_grant"):
		return fmt.Errorf("%w: %s", auth.ErrInvalidCredentials, msg)
	case strings.Contains(msg, "User already registered"),
		strings.Contains(msg, "already has been registered"):
		return fmt.Errorf("%w: %s", auth.ErrUserExists, msg)
	case httpErr.StatusCode == http.StatusUnauthorized,
		httpErr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", auth.ErrUnauthorized, msg)
	}

	return fmt.Errorf("Error %d: %s", httpErr.StatusCode, msg)
}

// errorMessage extrae el mensaje humano del body de error. GoTrue usa
// distintas formas según versión: {msg}, {message}, {error_description}.
func errorMessage(httpErr *httpclient.HTTPError) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error"`
	}
	if err := json.Unmarshal([]byte(httpErr.Body), &body); err == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.ErrorCode} {
			if strings.TrimSpace(m) != "" {
				return m
			}
		}
	}
	if strings.TrimSpace(httpErr.Body) != "" {
		return httpErr.Body
	}
	return httpErr.Error()
}
