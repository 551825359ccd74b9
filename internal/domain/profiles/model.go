package profiles

import "time"

type Address struct {
	Street      string
	Number      string
	City        string
	Province    string
	CountryCode string
}

// UserProfile es el perfil del dueño, keyed por el subject del servicio
// de auth (UID).
type UserProfile struct {
	UID string

	FirstName string
	LastName  string
	Email     string
	Phone     string

	Address Address

	SecurityPIN string
	PhotoURL    string

	UpdatedAt time.Time
}

// Empty es el perfil default que se devuelve cuando el UID todavía no
// tiene fila (creación lazy en el primer sign-up / primera lectura).
func Empty(uid string) UserProfile {
	return UserProfile{
		UID:     uid,
		Address: Address{CountryCode: "+54"},
	}
}
