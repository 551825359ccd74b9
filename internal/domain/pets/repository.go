package pets

import (
	"context"
	"time"
)

// Transfer es el payload de un traspaso de dueño por adopción.
type Transfer struct {
	OwnerID         string
	OwnerName       string
	OriginalOwnerID string
	TrackingEndDate time.Time
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error

	// UpdateStatus sobreescribe status y coordenadas. lat/lng nil
	// escriben NULL explícito (nunca dejan coordenadas viejas).
	UpdateStatus(ctx context.Context, id string, st Status, lat, lng *float64) error

	// Transfer aplica el payload extendido (con columnas de tracking).
	// En schemas viejos sin esas columnas devuelve ErrSchemaMismatch.
	Transfer(ctx context.Context, id string, t Transfer) error

	// TransferBasic aplica el payload reducido: solo dueño, nombre,
	// status=safe y coordenadas en NULL.
	TransferBasic(ctx context.Context, id string, t Transfer) error

	// ListVisibleTo trae mascotas donde userID es dueño actual U
	// original. En schemas viejos devuelve ErrSchemaMismatch.
	ListVisibleTo(ctx context.Context, userID string) ([]Pet, error)

	// ListByOwner es el query de fallback: solo dueño actual, columnas
	// legacy.
	ListByOwner(ctx context.Context, userID string) ([]Pet, error)

	ListByStatus(ctx context.Context, statuses []Status) ([]Pet, error)
}
