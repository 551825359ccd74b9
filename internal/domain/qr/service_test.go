package qr

import (
	"context"
	"strings"
	"testing"

	"dnipets-backend/internal/domain/pets"
	"dnipets-backend/internal/domain/profiles"
)

type fakePets struct {
	rows map[string]pets.Pet
}

func (f *fakePets) Get(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := f.rows[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

type fakeOwners struct {
	rows map[string]profiles.UserProfile
}

func (f *fakeOwners) PublicOwner(ctx context.Context, uid string) profiles.UserProfile {
	p, ok := f.rows[uid]
	if !ok {
		return profiles.UserProfile{UID: "hidden", FirstName: "Dueño", LastName: "(Privado)"}
	}
	p.SecurityPIN = ""
	return p
}

func newTestQR() (*Service, *fakePets, *fakeOwners) {
	fp := &fakePets{rows: map[string]pets.Pet{}}
	fo := &fakeOwners{rows: map[string]profiles.UserProfile{}}
	return NewService(fp, fo), fp, fo
}

func TestResolveLostPet(t *testing.T) {
	svc, fp, fo := newTestQR()

	fp.rows["p1"] = pets.Pet{
		ID: "p1", OwnerID: "u1", Name: "Firulais",
		Breed: "Beagle", Sex: pets.SexMale, Status: pets.StatusLost,
	}
	fo.rows["u1"] = profiles.UserProfile{
		UID: "u1", FirstName: "Ana", Phone: "+54 9 11 2345 6789",
	}

	res, err := svc.Resolve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found {
		t.Fatal("found = false")
	}
	if res.View != ViewUrgent {
		t.Fatalf("view = %q, quiero urgent_alert", res.View)
	}
	if res.ContactPrivate {
		t.Fatal("con teléfono no hay contacto privado")
	}
	if !strings.HasPrefix(res.ContactLink, "https://wa.me/5491123456789?text=") {
		t.Fatalf("contact link = %q", res.ContactLink)
	}
	if !strings.Contains(res.ContactLink, "Firulais") {
		t.Fatalf("el mensaje debe nombrar a la mascota: %q", res.ContactLink)
	}
	if res.Profile.OwnerFirstName != "Ana" {
		t.Fatalf("owner = %q", res.Profile.OwnerFirstName)
	}
}

func TestResolveViews(t *testing.T) {
	svc, fp, _ := newTestQR()

	cases := []struct {
		status pets.Status
		want   View
	}{
		{pets.StatusSafe, ViewReassurance},
		{pets.StatusLost, ViewUrgent},
		{pets.StatusAdoption, ViewSoliciting},
	}
	for _, c := range cases {
		fp.rows["p1"] = pets.Pet{ID: "p1", OwnerID: "u1", Name: "X", Status: c.status}
		res, err := svc.Resolve(context.Background(), "p1")
		if err != nil {
			t.Fatalf("Resolve(%s): %v", c.status, err)
		}
		if res.View != c.want {
			t.Fatalf("view(%s) = %q, quiero %q", c.status, res.View, c.want)
		}
	}
}

func TestResolveMissingPetIsNotAnError(t *testing.T) {
	svc, _, _ := newTestQR()

	res, err := svc.Resolve(context.Background(), "inexistente")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Found {
		t.Fatal("found debe ser false")
	}

	res, err = svc.Resolve(context.Background(), "")
	if err != nil || res.Found {
		t.Fatalf("id vacío: res=%+v err=%v", res, err)
	}
}

func TestResolveRedactedOwner(t *testing.T) {
	svc, fp, _ := newTestQR()

	fp.rows["p1"] = pets.Pet{ID: "p1", OwnerID: "desconocido", Name: "X", Status: pets.StatusLost}

	res, err := svc.Resolve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found {
		t.Fatal("un dueño ilegible no tumba la resolución")
	}
	if res.Profile.OwnerFirstName != "Dueño" {
		t.Fatalf("owner = %q", res.Profile.OwnerFirstName)
	}
	if !res.ContactPrivate || res.ContactLink != "" {
		t.Fatalf("sin teléfono el contacto es privado: %+v", res)
	}
}

func TestResolveURL(t *testing.T) {
	svc, fp, _ := newTestQR()
	fp.rows["abc"] = pets.Pet{ID: "abc", OwnerID: "u1", Name: "X", Status: pets.StatusSafe}

	res, err := svc.ResolveURL(context.Background(), "https://dnipets.app/#/scan?p=abc")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if !res.Found || res.Profile.ID != "abc" {
		t.Fatalf("res = %+v", res)
	}
}

func TestContactLink(t *testing.T) {
	link := ContactLink("Firulais", "+54 (11) 2345-6789")
	if !strings.HasPrefix(link, "https://wa.me/541123456789?text=") {
		t.Fatalf("link = %q", link)
	}
	if ContactLink("Firulais", "sin numero") != "" {
		t.Fatal("teléfono sin dígitos no genera link")
	}
}
