package qr

import "testing"

func TestExtractPetID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"query p", "https://dnipets.app/?p=abc-123", "abc-123"},
		{"query id", "https://dnipets.app/?id=abc-123", "abc-123"},
		{"p gana sobre id", "https://dnipets.app/?id=viejo&p=nuevo", "nuevo"},
		{"fragment con p", "https://dnipets.app/#/scan?p=abc-123", "abc-123"},
		{"fragment con id", "https://dnipets.app/#/public?id=abc-123", "abc-123"},
		{"fragment sin query", "https://dnipets.app/#/home", ""},
		{"sin parámetros", "https://dnipets.app/", ""},
		{"vacío", "", ""},
		{"espacios", "   ", ""},
		{"query relativo", "/resolve?p=abc-123", "abc-123"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExtractPetID(c.raw); got != c.want {
				t.Fatalf("ExtractPetID(%q) = %q, quiero %q", c.raw, got, c.want)
			}
		})
	}
}
