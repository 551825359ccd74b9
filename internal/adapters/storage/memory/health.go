package memory

import (
	"context"
	"sync"

	"dnipets-backend/internal/domain/health"
)

type HealthRepo struct {
	mu   sync.RWMutex
	rows map[string]health.HealthRecord
}

func NewHealthRepo() *HealthRepo {
	return &HealthRepo{rows: map[string]health.HealthRecord{}}
}

func (r *HealthRepo) Create(ctx context.Context, rec health.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rec.ID] = rec
	return nil
}

func (r *HealthRepo) GetByID(ctx context.Context, id string) (health.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rows[id]
	if !ok {
		return health.HealthRecord{}, health.ErrNotFound
	}
	return rec, nil
}

func (r *HealthRepo) Update(ctx context.Context, rec health.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[rec.ID]; !ok {
		return health.ErrNotFound
	}
	r.rows[rec.ID] = rec
	return nil
}

func (r *HealthRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return health.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *HealthRepo) ListByPet(ctx context.Context, petID string) ([]health.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []health.HealthRecord
	for _, rec := range r.rows {
		if rec.PetID == petID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *HealthRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.rows {
		if rec.PetID == petID {
			delete(r.rows, id)
		}
	}
	return nil
}
