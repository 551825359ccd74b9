package pets

import "testing"

func TestNormalizeSex(t *testing.T) {
	cases := []struct {
		in   string
		want Sex
	}{
		{"Hembra", SexFemale},
		{"hembra", SexFemale},
		{"HEMBRA", SexFemale},
		{"female", SexFemale},
		{"FEMALE", SexFemale},
		{"Macho", SexMale},
		{"macho", SexMale},
		{"male", SexMale},
		{"", SexMale},
		{"  hembra  ", SexFemale},
		{"desconocido", SexMale},
	}

	for _, c := range cases {
		if got := NormalizeSex(c.in); got != c.want {
			t.Errorf("NormalizeSex(%q) = %q, quiero %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeSexIdempotent(t *testing.T) {
	for _, s := range []Sex{SexMale, SexFemale} {
		if got := NormalizeSex(string(s)); got != s {
			t.Errorf("NormalizeSex(%q) = %q", s, got)
		}
	}
}
