package qr

import (
	"net/url"
	"strings"

	"dnipets-backend/internal/domain/pets"
)

// View decide qué layout renderiza el cliente para la ficha pública.
type View string

const (
	// ViewReassurance: mascota segura, layout de identidad verificada.
	ViewReassurance View = "reassurance"
	// ViewUrgent: mascota perdida, banner de alerta con contacto.
	ViewUrgent View = "urgent_alert"
	// ViewSoliciting: mascota en adopción, layout con contacto.
	ViewSoliciting View = "soliciting"
)

func ViewFor(st pets.Status) View {
	switch st {
	case pets.StatusLost:
		return ViewUrgent
	case pets.StatusAdoption:
		return ViewSoliciting
	default:
		return ViewReassurance
	}
}

// ContactLink arma el deep link de WhatsApp hacia el dueño. El teléfono
// se normaliza a solo dígitos; sin dígitos no hay link ("contacto
// privado", el área de acción se renderiza igual).
func ContactLink(petName, phone string) string {
	digits := digitsOnly(phone)
	if digits == "" {
		return ""
	}
	text := url.QueryEscape("Hola, escaneé el código QR de " + petName + ".")
	return "https://wa.me/" + digits + "?text=" + text
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
