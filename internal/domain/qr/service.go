package qr

import (
	"context"
	"strings"

	"dnipets-backend/internal/domain/pets"
	"dnipets-backend/internal/domain/profiles"
)

// PetReader y OwnerReader son los services de pets/profiles vistos
// desde la resolución pública.
type PetReader interface {
	Get(ctx context.Context, id string) (pets.Pet, error)
}

type OwnerReader interface {
	PublicOwner(ctx context.Context, uid string) profiles.UserProfile
}

type Service struct {
	pets   PetReader
	owners OwnerReader
}

func NewService(petReader PetReader, ownerReader OwnerReader) *Service {
	return &Service{
		pets:   petReader,
		owners: ownerReader,
	}
}

// PublicProfile es el payload del share link público.
type PublicProfile struct {
	ID       string
	Name     string
	Breed    string
	Sex      pets.Sex
	Status   pets.Status
	PhotoURL string

	OwnerFirstName string
	OwnerPhone     string // solo dígitos; "" = contacto privado
}

// Resolution es el resultado de resolver un escaneo de QR.
// Found=false significa "no es una visita por QR", nunca un error: el
// cliente cae al entry normal de la app.
type Resolution struct {
	Found bool

	Profile        PublicProfile
	View           View
	ContactLink    string
	ContactPrivate bool
}

// Resolve busca la ficha pública de petID. Una mascota inexistente no
// es error; un dueño ilegible se sustituye por el placeholder
// redactado.
func (s *Service) Resolve(ctx context.Context, petID string) (Resolution, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Resolution{}, nil
	}

	p, err := s.pets.Get(ctx, petID)
	if err != nil {
		return Resolution{}, nil
	}

	owner := s.owners.PublicOwner(ctx, p.OwnerID)

	phone := digitsOnly(owner.Phone)
	link := ContactLink(p.Name, owner.Phone)

	return Resolution{
		Found: true,
		Profile: PublicProfile{
			ID:             p.ID,
			Name:           p.Name,
			Breed:          p.Breed,
			Sex:            p.Sex,
			Status:         p.Status,
			PhotoURL:       p.PhotoURL,
			OwnerFirstName: owner.FirstName,
			OwnerPhone:     phone,
		},
		View:           ViewFor(p.Status),
		ContactLink:    link,
		ContactPrivate: link == "",
	}, nil
}

// ResolveURL resuelve a partir de la URL escaneada cruda.
func (s *Service) ResolveURL(ctx context.Context, rawURL string) (Resolution, error) {
	return s.Resolve(ctx, ExtractPetID(rawURL))
}
