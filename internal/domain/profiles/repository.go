package profiles

import "context"

type Repository interface {
	GetByUID(ctx context.Context, uid string) (UserProfile, error)

	// Upsert escribe el perfil completo, con conflicto por uid.
	Upsert(ctx context.Context, p UserProfile) error
}
