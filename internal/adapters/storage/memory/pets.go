// Package memory implementa los repositorios sobre mapas en memoria.
// Es el backend default sin DB_DSN (desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"dnipets-backend/internal/domain/pets"
)

type PetRepo struct {
	mu sync.RWMutex
	// legacy simula un schema sin columnas de tracking: los queries y
	// writes extendidos fallan con ErrSchemaMismatch.
	legacy bool
	rows   map[string]pets.Pet
}

func NewPetRepo() *PetRepo {
	return &PetRepo{rows: map[string]pets.Pet{}}
}

// NewLegacyPetRepo arma un repo en modo schema viejo, para ejercitar
// los fallbacks de listado y adopción.
func NewLegacyPetRepo() *PetRepo {
	return &PetRepo{rows: map[string]pets.Pet{}, legacy: true}
}

func (r *PetRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = p
	return nil
}

func (r *PetRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *PetRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.rows[p.ID] = p
	return nil
}

func (r *PetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *PetRepo) UpdateStatus(ctx context.Context, id string, st pets.Status, lat, lng *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.Status = st
	p.LastLat = lat
	p.LastLng = lng
	r.rows[id] = p
	return nil
}

func (r *PetRepo) Transfer(ctx context.Context, id string, t pets.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.legacy {
		return pets.ErrSchemaMismatch
	}

	p, ok := r.rows[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.OwnerID = t.OwnerID
	p.OwnerName = t.OwnerName
	p.OriginalOwnerID = t.OriginalOwnerID
	end := t.TrackingEndDate
	p.TrackingEndDate = &end
	p.Status = pets.StatusSafe
	p.LastLat = nil
	p.LastLng = nil
	r.rows[id] = p
	return nil
}

func (r *PetRepo) TransferBasic(ctx context.Context, id string, t pets.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.OwnerID = t.OwnerID
	p.OwnerName = t.OwnerName
	p.Status = pets.StatusSafe
	p.LastLat = nil
	p.LastLng = nil
	r.rows[id] = p
	return nil
}

func (r *PetRepo) ListVisibleTo(ctx context.Context, userID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.legacy {
		return nil, pets.ErrSchemaMismatch
	}

	var out []pets.Pet
	for _, p := range r.rows {
		if p.OwnerID == userID || p.OriginalOwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, userID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pets.Pet
	for _, p := range r.rows {
		if p.OwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PetRepo) ListByStatus(ctx context.Context, statuses []pets.Status) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := map[pets.Status]bool{}
	for _, st := range statuses {
		want[st] = true
	}

	var out []pets.Pet
	for _, p := range r.rows {
		if want[p.Status] {
			out = append(out, p)
		}
	}
	return out, nil
}
