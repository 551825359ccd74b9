package memory

import (
	"context"
	"sync"

	"dnipets-backend/internal/domain/profiles"
)

type ProfileRepo struct {
	mu   sync.RWMutex
	rows map[string]profiles.UserProfile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{rows: map[string]profiles.UserProfile{}}
}

func (r *ProfileRepo) GetByUID(ctx context.Context, uid string) (profiles.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[uid]
	if !ok {
		return profiles.UserProfile{}, profiles.ErrNotFound
	}
	return p, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p profiles.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.UID] = p
	return nil
}
