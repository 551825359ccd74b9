package accounts

import (
	"context"
	"errors"
	"strings"

	"dnipets-backend/internal/domain/profiles"
	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/auth"
)

var ErrInvalidInput = errors.New("invalid input")

// ErrWrongPassword es el diagnóstico final del flujo de email: el mail
// ya tiene cuenta y el password no coincide.
var ErrWrongPassword = errors.New("wrong password for existing account")

// Outcome resume cómo terminó el flujo de auth con email.
type Outcome string

const (
	// OutcomeSignedIn: sesión activa emitida (login o registro directo).
	OutcomeSignedIn Outcome = "signed_in"
	// OutcomeConfirmEmail: el proveedor mandó el mail de confirmación y
	// todavía no hay sesión.
	OutcomeConfirmEmail Outcome = "confirm_email_sent"
)

type AuthResult struct {
	Outcome Outcome
	Session auth.Session
	// Registered marca que el flujo terminó creando una cuenta nueva.
	Registered bool
}

type Service struct {
	provider auth.Provider
	profiles *profiles.Service
	log      logger.Logger
}

func NewService(provider auth.Provider, profileSvc *profiles.Service, log logger.Logger) *Service {
	return &Service{
		provider: provider,
		profiles: profileSvc,
		log:      log.With(map[string]any{"module": "accounts"}),
	}
}

// SignInAnonymously intenta una sesión anónima. Es best-effort: si el
// proveedor no está configurado o falla, devuelve ok=false sin error y
// la app sigue en modo invitado local.
func (s *Service) SignInAnonymously(ctx context.Context) (auth.Session, bool) {
	if s.provider == nil {
		return auth.Session{}, false
	}

	sess, err := s.provider.SignInAnonymously(ctx)
	if err != nil {
		s.log.Warn("anonymous sign-in failed", map[string]any{"error": err.Error()})
		return auth.Session{}, false
	}
	return sess, true
}

// AuthWithEmail es el flujo unificado login-o-registro:
//
//  1. Intenta password login.
//  2. Email sin confirmar => el proveedor reenvía el mail; se reporta
//     confirm_email_sent, no un error.
//  3. Credenciales inválidas => se asume cuenta inexistente y se intenta
//     sign-up. Si el sign-up responde "ya registrado", el diagnóstico
//     real es password incorrecto.
//  4. Sign-up sin access token => registro pendiente de confirmación.
//  5. Sign-up con sesión => se siembra el perfil vacío del usuario.
func (s *Service) AuthWithEmail(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if s.provider == nil {
		return AuthResult{}, auth.ErrNotConfigured
	}

	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err == nil {
		return AuthResult{Outcome: OutcomeSignedIn, Session: sess}, nil
	}

	switch {
	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return AuthResult{Outcome: OutcomeConfirmEmail}, nil
	case errors.Is(err, auth.ErrInvalidCredentials):
		return s.register(ctx, email, password)
	default:
		return AuthResult{}, err
	}
}

func (s *Service) register(ctx context.Context, email, password string) (AuthResult, error) {
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return AuthResult{}, ErrWrongPassword
		}
		return AuthResult{}, err
	}

	if sess.AccessToken == "" {
		// Confirmación por email habilitada: hay usuario pero no sesión.
		return AuthResult{Outcome: OutcomeConfirmEmail, Registered: true}, nil
	}

	// Siembra lazy del perfil. Si falla, la cuenta igual quedó creada;
	// el perfil se completa en la primera edición.
	p := profiles.Empty(sess.UserID)
	p.Email = sess.Email
	if err := s.profiles.Save(ctx, p); err != nil {
		s.log.Warn("profile seed failed after sign-up", map[string]any{
			"uid":   sess.UserID,
			"error": err.Error(),
		})
	}

	return AuthResult{Outcome: OutcomeSignedIn, Session: sess, Registered: true}, nil
}

// CurrentUser resuelve los claims del token de la sesión activa.
func (s *Service) CurrentUser(ctx context.Context, token string) (auth.Claims, error) {
	if s.provider == nil {
		return auth.Claims{}, auth.ErrNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	return s.provider.UserFromToken(ctx, token)
}

// Logout revoca el token en el proveedor. Un fallo de revocación se
// loguea y se absorbe: para el cliente la sesión local ya murió.
func (s *Service) Logout(ctx context.Context, token string) {
	if s.provider == nil || strings.TrimSpace(token) == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		s.log.Warn("sign-out failed", map[string]any{"error": err.Error()})
	}
}
