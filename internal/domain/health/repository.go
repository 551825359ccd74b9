package health

import "context"

type Repository interface {
	Create(ctx context.Context, rec HealthRecord) error
	GetByID(ctx context.Context, id string) (HealthRecord, error)
	Update(ctx context.Context, rec HealthRecord) error
	Delete(ctx context.Context, id string) error
	ListByPet(ctx context.Context, petID string) ([]HealthRecord, error)

	// DeleteByPet borra todos los registros de la mascota (cascada al
	// borrar la mascota).
	DeleteByPet(ctx context.Context, petID string) error
}
