package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"dnipets-backend/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

// Columnas completas del schema actual. Los queries legacy (fallbacks)
// usan solo el subset previo a la migración de tracking.
const petColumns = `
	id, owner_id, original_owner_id,
	name, species, breed, sex,
	birth_date, weight,
	owner_name, photo_url,
	status, lost_lat, lost_lng,
	tracking_end_date,
	chip_id, notes,
	created_at, updated_at`

const petColumnsLegacy = `
	id, owner_id,
	name, species, breed, sex,
	birth_date, weight,
	owner_name, photo_url,
	status, lost_lat, lost_lng,
	chip_id, notes,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_id, original_owner_id,
			name, species, breed, sex,
			birth_date, weight,
			owner_name, photo_url,
			status, lost_lat, lost_lng,
			tracking_end_date,
			chip_id, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		p.ID,
		p.OwnerID,
		nullString(p.OriginalOwnerID),
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullTime(p.BirthDate),
		p.Weight,
		p.OwnerName,
		p.PhotoURL,
		p.Status,
		toNullFloat(p.LastLat),
		toNullFloat(p.LastLng),
		toNullTime(p.TrackingEndDate),
		p.ChipID,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapError(err)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, mapError(err)
	}
	return p, nil
}

// Update solo toca los campos descriptivos del perfil. Dueño, status,
// coordenadas y tracking tienen sus propias operaciones.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			birth_date = $6,
			weight = $7,
			owner_name = $8,
			photo_url = $9,
			chip_id = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullTime(p.BirthDate),
		p.Weight,
		p.OwnerName,
		p.PhotoURL,
		p.ChipID,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) UpdateStatus(ctx context.Context, id string, st pets.Status, lat, lng *float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET status = $2, lost_lat = $3, lost_lng = $4, updated_at = now()
		WHERE id = $1
	`, id, st, toNullFloat(lat), toNullFloat(lng))
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Transfer(ctx context.Context, id string, t pets.Transfer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			owner_id = $2,
			owner_name = $3,
			original_owner_id = $4,
			tracking_end_date = $5,
			status = $6,
			lost_lat = NULL,
			lost_lng = NULL,
			updated_at = now()
		WHERE id = $1
	`, id, t.OwnerID, t.OwnerName, t.OriginalOwnerID, t.TrackingEndDate, pets.StatusSafe)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) TransferBasic(ctx context.Context, id string, t pets.Transfer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			owner_id = $2,
			owner_name = $3,
			status = $4,
			lost_lat = NULL,
			lost_lng = NULL,
			updated_at = now()
		WHERE id = $1
	`, id, t.OwnerID, t.OwnerName, pets.StatusSafe)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) ListVisibleTo(ctx context.Context, userID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1 OR original_owner_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectPets(rows, scanPet)
}

// ListByOwner es el query de fallback para schemas sin las columnas de
// tracking: solo dueño actual y columnas legacy.
func (r *PetsRepo) ListByOwner(ctx context.Context, userID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumnsLegacy+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectPets(rows, scanPetLegacy)
}

func (r *PetsRepo) ListByStatus(ctx context.Context, statuses []pets.Status) ([]pets.Pet, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(statuses))
	placeholders := make([]string, 0, len(statuses))
	for i, st := range statuses {
		args = append(args, st)
		placeholders = append(placeholders, "$"+strconv.Itoa(i+1))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE status IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY updated_at DESC
	`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectPets(rows, scanPet)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p        pets.Pet
		origID   sql.NullString
		birth    sql.NullTime
		lat, lng sql.NullFloat64
		trackEnd sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &origID,
		&p.Name, &p.Species, &p.Breed, &p.Sex,
		&birth, &p.Weight,
		&p.OwnerName, &p.PhotoURL,
		&p.Status, &lat, &lng,
		&trackEnd,
		&p.ChipID, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}

	p.OriginalOwnerID = origID.String
	p.BirthDate = fromNullTime(birth)
	p.LastLat = fromNullFloat(lat)
	p.LastLng = fromNullFloat(lng)
	p.TrackingEndDate = fromNullTime(trackEnd)
	return p, nil
}

func scanPetLegacy(row rowScanner) (pets.Pet, error) {
	var (
		p        pets.Pet
		birth    sql.NullTime
		lat, lng sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.OwnerID,
		&p.Name, &p.Species, &p.Breed, &p.Sex,
		&birth, &p.Weight,
		&p.OwnerName, &p.PhotoURL,
		&p.Status, &lat, &lng,
		&p.ChipID, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}

	p.BirthDate = fromNullTime(birth)
	p.LastLat = fromNullFloat(lat)
	p.LastLng = fromNullFloat(lng)
	return p, nil
}

func collectPets(rows *sql.Rows, scan func(rowScanner) (pets.Pet, error)) ([]pets.Pet, error) {
	var out []pets.Pet
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
