package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dnipets-backend/internal/domain/health"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

func (r *HealthRepo) Create(ctx context.Context, rec health.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (
			id, pet_id, title, type,
			date, next_due_date,
			notes, veterinarian, file_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		rec.ID, rec.PetID, rec.Title, rec.Type,
		toNullTime(rec.Date), toNullTime(rec.NextDueDate),
		rec.Notes, rec.Veterinarian, rec.FileURL,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return mapError(err)
}

func (r *HealthRepo) GetByID(ctx context.Context, id string) (health.HealthRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return health.HealthRecord{}, health.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, title, type,
			date, next_due_date,
			notes, veterinarian, file_url,
			created_at, updated_at
		FROM health_records
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return health.HealthRecord{}, health.ErrNotFound
		}
		return health.HealthRecord{}, mapError(err)
	}
	return rec, nil
}

func (r *HealthRepo) Update(ctx context.Context, rec health.HealthRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE health_records
		SET
			title = $2,
			type = $3,
			date = $4,
			next_due_date = $5,
			notes = $6,
			veterinarian = $7,
			file_url = $8,
			updated_at = $9
		WHERE id = $1
	`,
		rec.ID, rec.Title, rec.Type,
		toNullTime(rec.Date), toNullTime(rec.NextDueDate),
		rec.Notes, rec.Veterinarian, rec.FileURL,
		rec.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return health.ErrNotFound
	}
	return nil
}

func (r *HealthRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return health.ErrNotFound
	}
	return nil
}

func (r *HealthRepo) ListByPet(ctx context.Context, petID string) ([]health.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, title, type,
			date, next_due_date,
			notes, veterinarian, file_url,
			created_at, updated_at
		FROM health_records
		WHERE pet_id = $1
		ORDER BY date DESC NULLS LAST, created_at DESC
	`, petID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []health.HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *HealthRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE pet_id = $1`, petID)
	return mapError(err)
}

func scanRecord(row rowScanner) (health.HealthRecord, error) {
	var (
		rec       health.HealthRecord
		date, due sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.PetID, &rec.Title, &rec.Type,
		&date, &due,
		&rec.Notes, &rec.Veterinarian, &rec.FileURL,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return health.HealthRecord{}, err
	}

	rec.Date = fromNullTime(date)
	rec.NextDueDate = fromNullTime(due)
	return rec, nil
}
