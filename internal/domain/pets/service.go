package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dnipets-backend/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrSchemaMismatch: el store rechazó columnas que el schema viejo
	// no tiene. Dispara los fallbacks de listado y adopción.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// RecordPurger borra los registros de salud de una mascota. Lo
// implementa el módulo health; acá es una interfaz para no acoplar.
type RecordPurger interface {
	DeleteByPet(ctx context.Context, petID string) error
}

type Service struct {
	repo    Repository
	records RecordPurger
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, records RecordPurger, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		records: records,
		log:     log,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Weight    float64
	OwnerName string
	PhotoURL  string
	Status    string
	Notes     string
	ChipID    string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	sp := Species(strings.TrimSpace(in.Species))
	if sp != SpeciesDog && sp != SpeciesCat {
		return Pet{}, ErrInvalidInput
	}

	st := Status(strings.TrimSpace(in.Status))
	if st == "" {
		st = StatusSafe
	}
	if !ValidStatus(st) {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Species:   sp,
		Breed:     strings.TrimSpace(in.Breed),
		Sex:       NormalizeSex(in.Sex),
		BirthDate: in.BirthDate,
		Weight:    in.Weight,
		OwnerName: strings.TrimSpace(in.OwnerName),
		PhotoURL:  strings.TrimSpace(in.PhotoURL),
		Status:    st,
		Notes:     strings.TrimSpace(in.Notes),
		ChipID:    strings.TrimSpace(in.ChipID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	return normalized(p), nil
}

// OwnerOf expone el dueño actual de una mascota. Lo usan otros módulos
// (health, qr) para chequeos de pertenencia sin acoplarse al modelo.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}

// List devuelve las mascotas visibles para userID: las propias más las
// que transfirió y siguen dentro de la ventana de tracking.
//
// Query primario: owner OR original_owner. Si el schema no tiene las
// columnas de tracking, degrada en silencio a solo-dueño (se pierde la
// visibilidad de tracking, no el listado entero).
func (s *Service) List(ctx context.Context, userID string) ([]Pet, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListVisibleTo(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrSchemaMismatch) {
			return nil, err
		}
		s.log.Warn("pet listing fell back to owner-only query", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		items, err = s.repo.ListByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	out := make([]Pet, 0, len(items))
	for _, p := range items {
		if p.OwnerID != userID && !p.TrackedBy(userID, now) {
			continue
		}
		out = append(out, normalized(p))
	}
	return out, nil
}

type UpdateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Weight    float64
	OwnerName string
	PhotoURL  string
	Status    string
	Notes     string
	ChipID    string
}

// Update sobreescribe los atributos descriptivos. No toca dueño,
// coordenadas ni campos de tracking; esas transiciones pasan por
// SetStatus / Adopt.
func (s *Service) Update(ctx context.Context, petID string, in UpdateInput) (Pet, error) {
	current, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	sp := Species(strings.TrimSpace(in.Species))
	if sp != SpeciesDog && sp != SpeciesCat {
		return Pet{}, ErrInvalidInput
	}
	st := Status(strings.TrimSpace(in.Status))
	if st == "" {
		st = current.Status
	}
	if !ValidStatus(st) {
		return Pet{}, ErrInvalidInput
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Species = sp
	current.Breed = strings.TrimSpace(in.Breed)
	current.Sex = NormalizeSex(in.Sex)
	current.BirthDate = in.BirthDate
	current.Weight = in.Weight
	current.OwnerName = strings.TrimSpace(in.OwnerName)
	current.PhotoURL = strings.TrimSpace(in.PhotoURL)
	current.Status = st
	current.Notes = strings.TrimSpace(in.Notes)
	current.ChipID = strings.TrimSpace(in.ChipID)
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return normalized(current), nil
}

// SetStatus sobreescribe el estado. Al entrar en lost persiste las
// coordenadas recibidas; cualquier otro estado escribe NULL explícito
// para no dejar una última ubicación vieja colgada.
func (s *Service) SetStatus(ctx context.Context, petID string, st Status, lat, lng *float64) (Pet, error) {
	if !ValidStatus(st) {
		return Pet{}, ErrInvalidInput
	}
	if st != StatusLost {
		lat, lng = nil, nil
	}

	if err := s.repo.UpdateStatus(ctx, petID, st, lat, lng); err != nil {
		return Pet{}, err
	}
	return s.Get(ctx, petID)
}

// Adopt transfiere la mascota a newOwnerID y abre la ventana de
// tracking de 30 días para el dueño anterior.
//
// Si el payload extendido falla (schema viejo sin columnas de
// tracking), reintenta con el payload reducido: el traspaso se
// preserva sacrificando solo la visibilidad de tracking. Únicamente la
// falla del segundo intento llega al caller.
func (s *Service) Adopt(ctx context.Context, petID, newOwnerID, newOwnerName string) (Pet, error) {
	if strings.TrimSpace(newOwnerID) == "" {
		return Pet{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	t := Transfer{
		OwnerID:         newOwnerID,
		OwnerName:       strings.TrimSpace(newOwnerName),
		OriginalOwnerID: current.OwnerID,
		TrackingEndDate: s.now().Add(TrackingWindow),
	}

	if err := s.repo.Transfer(ctx, petID, t); err != nil {
		s.log.Warn("extended adoption payload rejected, retrying simple transfer", map[string]any{
			"pet_id": petID,
			"error":  err.Error(),
		})
		if err := s.repo.TransferBasic(ctx, petID, t); err != nil {
			return Pet{}, err
		}
	}
	return s.Get(ctx, petID)
}

// SimulateExternalAdoption transfiere la mascota al dueño fantasma de
// prueba dejando al caller como dueño original, para poder ver la UI
// de tracking sobre una mascota que ya no le pertenece.
func (s *Service) SimulateExternalAdoption(ctx context.Context, petID, callerID string) (Pet, error) {
	if strings.TrimSpace(callerID) == "" {
		return Pet{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return Pet{}, err
	}

	t := Transfer{
		OwnerID:         GhostOwnerID,
		OwnerName:       "Adoptante de Prueba",
		OriginalOwnerID: callerID,
		TrackingEndDate: s.now().Add(TrackingWindow),
	}
	if err := s.repo.Transfer(ctx, petID, t); err != nil {
		return Pet{}, err
	}
	return s.Get(ctx, petID)
}

// Community lista las mascotas perdidas o en adopción (vista de mapa).
func (s *Service) Community(ctx context.Context) ([]Pet, error) {
	items, err := s.repo.ListByStatus(ctx, []Status{StatusLost, StatusAdoption})
	if err != nil {
		return nil, err
	}
	out := make([]Pet, 0, len(items))
	for _, p := range items {
		out = append(out, normalized(p))
	}
	return out, nil
}

// Delete borra la mascota con sus registros de salud. El borrado de
// registros es cleanup best-effort: si falla se loguea y se sigue; la
// falla del borrado principal sí se reporta.
func (s *Service) Delete(ctx context.Context, petID string) error {
	if s.records != nil {
		if err := s.records.DeleteByPet(ctx, petID); err != nil {
			s.log.Error("failed to delete health records before pet", map[string]any{
				"pet_id": petID,
				"error":  err.Error(),
			})
		}
	}
	return s.repo.Delete(ctx, petID)
}

// normalized aplica las reglas de lectura (sex) a una fila cruda.
func normalized(p Pet) Pet {
	p.Sex = NormalizeSex(string(p.Sex))
	return p
}
