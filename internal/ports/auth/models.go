package auth

import "errors"

// Claims representa la identidad extraída de un access token.
type Claims struct {
	UserID    string
	Email     string
	Anonymous bool
}

// Session es la sesión emitida por el servicio de auth hosteado.
// AccessToken vacío con UserID presente significa registro pendiente
// de confirmación por email.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

// Errores distinguidos del proveedor. Cada uno dispara un flujo de UI
// distinto, así que se preservan como sentinels en vez de strings.
var (
	ErrNotConfigured      = errors.New("auth provider not configured")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserExists         = errors.New("user already registered")
	ErrUnauthorized       = errors.New("unauthorized")
)
