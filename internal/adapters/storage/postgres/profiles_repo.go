package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dnipets-backend/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) GetByUID(ctx context.Context, uid string) (profiles.UserProfile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return profiles.UserProfile{}, profiles.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			uid, first_name, last_name, email, phone,
			address_street, address_number, address_city,
			address_province, address_country_code,
			security_pin, photo_url, updated_at
		FROM user_profiles
		WHERE uid = $1
	`, uid)

	var p profiles.UserProfile
	err := row.Scan(
		&p.UID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Address.Street, &p.Address.Number, &p.Address.City,
		&p.Address.Province, &p.Address.CountryCode,
		&p.SecurityPIN, &p.PhotoURL, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return profiles.UserProfile{}, profiles.ErrNotFound
		}
		return profiles.UserProfile{}, mapError(err)
	}
	return p, nil
}

func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (
			uid, first_name, last_name, email, phone,
			address_street, address_number, address_city,
			address_province, address_country_code,
			security_pin, photo_url, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (uid) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address_street = EXCLUDED.address_street,
			address_number = EXCLUDED.address_number,
			address_city = EXCLUDED.address_city,
			address_province = EXCLUDED.address_province,
			address_country_code = EXCLUDED.address_country_code,
			security_pin = EXCLUDED.security_pin,
			photo_url = EXCLUDED.photo_url,
			updated_at = EXCLUDED.updated_at
	`,
		p.UID, p.FirstName, p.LastName, p.Email, p.Phone,
		p.Address.Street, p.Address.Number, p.Address.City,
		p.Address.Province, p.Address.CountryCode,
		p.SecurityPIN, p.PhotoURL, p.UpdatedAt,
	)
	return mapError(err)
}
