package health

import "time"

// RecordType define los tipos de registro de salud.
// @Enum vaccine, vet_visit, certificate
type RecordType string

const (
	TypeVaccine     RecordType = "vaccine"
	TypeVetVisit    RecordType = "vet_visit"
	TypeCertificate RecordType = "certificate"
)

func ValidType(t RecordType) bool {
	switch t {
	case TypeVaccine, TypeVetVisit, TypeCertificate:
		return true
	}
	return false
}

// HealthRecord pertenece a exactamente una mascota. NextDueDate aplica
// a items recurrentes (vacunas).
type HealthRecord struct {
	ID    string
	PetID string

	Title string
	Type  RecordType

	Date        *time.Time
	NextDueDate *time.Time

	Notes        string
	Veterinarian string
	FileURL      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
