package qr

import (
	"net/url"
	"strings"
)

// ExtractPetID saca el identificador de mascota de una URL escaneada.
//
// El orden es un shim de compatibilidad deliberado: la app nativa emite
// `p`, el flujo web viejo emitía `id`, y algunos deep links encierran
// el query dentro del fragment. Devuelve "" si no hay match.
func ExtractPetID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	q := u.Query()
	if v := q.Get("p"); v != "" {
		return v
	}
	if v := q.Get("id"); v != "" {
		return v
	}

	// Forma deep-link: el fragment trae su propio query string.
	if i := strings.Index(u.Fragment, "?"); i >= 0 {
		hq, err := url.ParseQuery(u.Fragment[i+1:])
		if err == nil {
			if v := hq.Get("p"); v != "" {
				return v
			}
			if v := hq.Get("id"); v != "" {
				return v
			}
		}
	}

	return ""
}
