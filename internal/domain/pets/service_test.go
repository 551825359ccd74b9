package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRepo implementa Repository sobre un map, con perillas para forzar
// schema viejo y fallas puntuales.
type fakeRepo struct {
	rows map[string]Pet

	legacySchema bool
	transferErr  error
	basicErr     error

	transferCalls int
	basicCalls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]Pet{}}
}

func (f *fakeRepo) Create(ctx context.Context, p Pet) error {
	f.rows[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := f.rows[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := f.rows[p.ID]; !ok {
		return ErrNotFound
	}
	f.rows[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, st Status, lat, lng *float64) error {
	p, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = st
	p.LastLat = lat
	p.LastLng = lng
	f.rows[id] = p
	return nil
}

func (f *fakeRepo) Transfer(ctx context.Context, id string, t Transfer) error {
	f.transferCalls++
	if f.legacySchema {
		return ErrSchemaMismatch
	}
	if f.transferErr != nil {
		return f.transferErr
	}

	p, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	p.OwnerID = t.OwnerID
	p.OwnerName = t.OwnerName
	p.OriginalOwnerID = t.OriginalOwnerID
	end := t.TrackingEndDate
	p.TrackingEndDate = &end
	p.Status = StatusSafe
	p.LastLat = nil
	p.LastLng = nil
	f.rows[id] = p
	return nil
}

func (f *fakeRepo) TransferBasic(ctx context.Context, id string, t Transfer) error {
	f.basicCalls++
	if f.basicErr != nil {
		return f.basicErr
	}

	p, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	p.OwnerID = t.OwnerID
	p.OwnerName = t.OwnerName
	p.Status = StatusSafe
	p.LastLat = nil
	p.LastLng = nil
	f.rows[id] = p
	return nil
}

func (f *fakeRepo) ListVisibleTo(ctx context.Context, userID string) ([]Pet, error) {
	if f.legacySchema {
		return nil, ErrSchemaMismatch
	}
	var out []Pet
	for _, p := range f.rows {
		if p.OwnerID == userID || p.OriginalOwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, userID string) ([]Pet, error) {
	var out []Pet
	for _, p := range f.rows {
		if p.OwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, statuses []Status) ([]Pet, error) {
	want := map[Status]bool{}
	for _, st := range statuses {
		want[st] = true
	}
	var out []Pet
	for _, p := range f.rows {
		if want[p.Status] {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateDefaultsToSafe(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:    "Firulais",
		Species: "dog",
		Sex:     "female",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != StatusSafe {
		t.Fatalf("status = %q", p.Status)
	}
	if p.Sex != SexFemale {
		t.Fatalf("sex = %q, quiero Hembra", p.Sex)
	}
	if p.ID == "" {
		t.Fatal("id vacío")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	cases := []CreateInput{
		{Name: "", Species: "dog"},
		{Name: "Michi", Species: "hamster"},
		{Name: "Michi", Species: "cat", Status: "flying"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), "user-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("caso %d: err = %v", i, err)
		}
	}
}

func TestSetStatusClearsCoordsOutsideLost(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lat, lng := -34.6, -58.4
	repo.rows["p1"] = Pet{ID: "p1", OwnerID: "user-1", Name: "Firulais", Species: SpeciesDog}

	p, err := svc.SetStatus(context.Background(), "p1", StatusLost, &lat, &lng)
	if err != nil {
		t.Fatalf("SetStatus lost: %v", err)
	}
	if p.LastLat == nil || *p.LastLat != lat {
		t.Fatalf("lat = %v", p.LastLat)
	}

	// Volver a safe limpia las coordenadas aunque el caller las mande.
	p, err = svc.SetStatus(context.Background(), "p1", StatusSafe, &lat, &lng)
	if err != nil {
		t.Fatalf("SetStatus safe: %v", err)
	}
	if p.LastLat != nil || p.LastLng != nil {
		t.Fatalf("coords deben quedar en nil: %v %v", p.LastLat, p.LastLng)
	}
}

func TestAdoptExtendedPayload(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lat := -34.6
	repo.rows["p1"] = Pet{
		ID: "p1", OwnerID: "seller", Name: "Firulais",
		Species: SpeciesDog, Status: StatusAdoption, LastLat: &lat,
	}

	p, err := svc.Adopt(context.Background(), "p1", "buyer", "Ana")
	if err != nil {
		t.Fatalf("Adopt: %v", err)
	}

	if p.OwnerID != "buyer" || p.OwnerName != "Ana" {
		t.Fatalf("dueño = %q / %q", p.OwnerID, p.OwnerName)
	}
	if p.OriginalOwnerID != "seller" {
		t.Fatalf("original owner = %q", p.OriginalOwnerID)
	}
	if p.Status != StatusSafe {
		t.Fatalf("status = %q", p.Status)
	}
	if p.LastLat != nil {
		t.Fatal("coords deben limpiarse en el traspaso")
	}

	wantEnd := svc.now().Add(TrackingWindow)
	if p.TrackingEndDate == nil || !p.TrackingEndDate.Equal(wantEnd) {
		t.Fatalf("tracking end = %v, quiero %v", p.TrackingEndDate, wantEnd)
	}
}

func TestAdoptFallsBackOnOldSchema(t *testing.T) {
	repo := newFakeRepo()
	repo.legacySchema = true
	svc := newTestService(repo)

	repo.rows["p1"] = Pet{ID: "p1", OwnerID: "seller", Name: "Firulais", Species: SpeciesDog}

	p, err := svc.Adopt(context.Background(), "p1", "buyer", "Ana")
	if err != nil {
		t.Fatalf("Adopt con fallback: %v", err)
	}
	if repo.transferCalls != 1 || repo.basicCalls != 1 {
		t.Fatalf("calls = %d/%d, quiero exactamente un intento de cada", repo.transferCalls, repo.basicCalls)
	}
	if p.OwnerID != "buyer" {
		t.Fatalf("dueño = %q", p.OwnerID)
	}
	// El payload reducido no escribe tracking.
	if p.TrackingEndDate != nil || p.OriginalOwnerID != "" {
		t.Fatal("el fallback no debe escribir campos de tracking")
	}
}

func TestAdoptReportsOnlySecondFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.transferErr = errors.New("write denied")
	repo.basicErr = errors.New("still denied")
	svc := newTestService(repo)

	repo.rows["p1"] = Pet{ID: "p1", OwnerID: "seller", Name: "Firulais", Species: SpeciesDog}

	_, err := svc.Adopt(context.Background(), "p1", "buyer", "Ana")
	if err == nil || err.Error() != "still denied" {
		t.Fatalf("err = %v, quiero la falla del segundo intento", err)
	}
}

func TestSimulateExternalAdoption(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	repo.rows["p1"] = Pet{ID: "p1", OwnerID: "user-1", Name: "Firulais", Species: SpeciesDog}

	p, err := svc.SimulateExternalAdoption(context.Background(), "p1", "user-1")
	if err != nil {
		t.Fatalf("SimulateExternalAdoption: %v", err)
	}
	if p.OwnerID != GhostOwnerID {
		t.Fatalf("dueño = %q, quiero el fantasma", p.OwnerID)
	}
	if p.OwnerName != "Adoptante de Prueba" {
		t.Fatalf("owner name = %q", p.OwnerName)
	}
	if p.OriginalOwnerID != "user-1" {
		t.Fatalf("original owner = %q", p.OriginalOwnerID)
	}
}

func TestListIncludesTrackedPets(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	now := svc.now()

	active := now.Add(24 * time.Hour)
	expired := now.Add(-24 * time.Hour)

	repo.rows["own"] = Pet{ID: "own", OwnerID: "user-1", Name: "A", Species: SpeciesDog}
	repo.rows["tracked"] = Pet{
		ID: "tracked", OwnerID: "other", OriginalOwnerID: "user-1",
		Name: "B", Species: SpeciesCat, TrackingEndDate: &active,
	}
	repo.rows["vencida"] = Pet{
		ID: "vencida", OwnerID: "other", OriginalOwnerID: "user-1",
		Name: "C", Species: SpeciesCat, TrackingEndDate: &expired,
	}
	repo.rows["ajena"] = Pet{ID: "ajena", OwnerID: "other", Name: "D", Species: SpeciesDog}

	items, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got := map[string]bool{}
	for _, p := range items {
		got[p.ID] = true
	}
	if len(got) != 2 || !got["own"] || !got["tracked"] {
		t.Fatalf("ids visibles = %v, quiero own + tracked", got)
	}
}

func TestListFallsBackOnOldSchema(t *testing.T) {
	repo := newFakeRepo()
	repo.legacySchema = true
	svc := newTestService(repo)

	repo.rows["own"] = Pet{ID: "own", OwnerID: "user-1", Name: "A", Species: SpeciesDog}
	repo.rows["tracked"] = Pet{ID: "tracked", OwnerID: "other", OriginalOwnerID: "user-1", Name: "B", Species: SpeciesCat}

	items, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List con fallback: %v", err)
	}
	if len(items) != 1 || items[0].ID != "own" {
		t.Fatalf("el fallback lista solo las propias: %v", items)
	}
}

type failingPurger struct{ calls int }

func (f *failingPurger) DeleteByPet(ctx context.Context, petID string) error {
	f.calls++
	return errors.New("records table locked")
}

func TestDeleteSurvivesRecordPurgeFailure(t *testing.T) {
	repo := newFakeRepo()
	purger := &failingPurger{}
	svc := NewService(repo, purger, nil)

	repo.rows["p1"] = Pet{ID: "p1", OwnerID: "user-1", Name: "Firulais", Species: SpeciesDog}

	if err := svc.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if purger.calls != 1 {
		t.Fatalf("purge calls = %d", purger.calls)
	}
	if _, ok := repo.rows["p1"]; ok {
		t.Fatal("la mascota debe borrarse aunque falle el purge de registros")
	}
}
