package pets

import "strings"

// NormalizeSex mapea cualquier input a exactamente "Hembra" o "Macho".
// Filas históricas guardan casings inconsistentes ("hembra", "FEMALE"),
// así que se aplica en cada lectura, no solo al escribir.
func NormalizeSex(raw string) Sex {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hembra", "female":
		return SexFemale
	default:
		return SexMale
	}
}
