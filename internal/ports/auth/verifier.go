package auth

import "context"

// AuthVerifier verifica un access token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider expone las operaciones de cuenta del servicio de auth
// hosteado. Lo consume el módulo accounts; el resto del sistema solo
// ve AuthVerifier.
type Provider interface {
	SignInAnonymously(ctx context.Context) (Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	UserFromToken(ctx context.Context, token string) (Claims, error)
	SignOut(ctx context.Context, token string) error
}
