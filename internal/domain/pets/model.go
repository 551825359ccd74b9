package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex usa los valores históricos de la app ("Macho" / "Hembra").
// Filas viejas pueden traer cualquier casing o "female"; ver NormalizeSex.
type Sex string

const (
	SexMale   Sex = "Macho"
	SexFemale Sex = "Hembra"
)

// Status es el estado del ciclo de vida de la mascota.
// @Enum safe, lost, adoption
type Status string

const (
	StatusSafe     Status = "safe"
	StatusLost     Status = "lost"
	StatusAdoption Status = "adoption"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusSafe, StatusLost, StatusAdoption:
		return true
	}
	return false
}

// GhostOwnerID es el dueño sentinel para adopciones simuladas por
// fuera del sistema.
const GhostOwnerID = "00000000-0000-0000-0000-000000000000"

// TrackingWindow es la ventana de visibilidad que conserva el dueño
// anterior después de una adopción.
const TrackingWindow = 30 * 24 * time.Hour

// Pet es el perfil de una mascota registrada.
//
// OriginalOwnerID y TrackingEndDate solo están presentes mientras corre
// la ventana de tracking post-adopción. LastLat/LastLng solo tienen
// sentido con Status == lost y deben limpiarse al salir de ese estado.
type Pet struct {
	ID              string
	OwnerID         string
	OriginalOwnerID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Weight    float64

	OwnerName string
	PhotoURL  string

	Status  Status
	LastLat *float64
	LastLng *float64

	TrackingEndDate *time.Time

	ChipID string
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackedBy dice si userID conserva visibilidad de tracking sobre p en
// el instante now (fue dueño original y la ventana no venció).
func (p Pet) TrackedBy(userID string, now time.Time) bool {
	if p.OriginalOwnerID == "" || p.OriginalOwnerID != userID {
		return false
	}
	if p.TrackingEndDate == nil {
		return true
	}
	return now.Before(*p.TrackingEndDate)
}
