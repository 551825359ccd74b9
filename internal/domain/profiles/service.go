package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Get devuelve el perfil del uid, o el perfil vacío default si todavía
// no existe fila (no es un error: el perfil se crea lazy).
func (s *Service) Get(ctx context.Context, uid string) (UserProfile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return UserProfile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Empty(uid), nil
		}
		return UserProfile{}, err
	}
	return p, nil
}

// Save hace upsert del perfil completo keyed por uid.
func (s *Service) Save(ctx context.Context, p UserProfile) error {
	p.UID = strings.TrimSpace(p.UID)
	if p.UID == "" {
		return ErrInvalidInput
	}
	p.UpdatedAt = s.now()
	return s.repo.Upsert(ctx, p)
}

// PublicOwner devuelve la vista pública del dueño para la ficha QR.
// Si la fila no se puede leer, sustituye un placeholder redactado: la
// falta de dueño nunca es una falla de resolución.
func (s *Service) PublicOwner(ctx context.Context, uid string) UserProfile {
	p, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return UserProfile{
			UID:       "hidden",
			FirstName: "Dueño",
			LastName:  "(Privado)",
		}
	}

	// El PIN jamás sale por la vista pública.
	p.SecurityPIN = ""
	return p
}
