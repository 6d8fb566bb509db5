// Package repository persists external user profiles.
package repository

import (
	"context"
	"errors"
	"time"

	"ulok_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileNotFoundMsg = "profile not found"

const (
	profileColumns = `id, email, full_name, phone, company, address, created_at, updated_at`

	// xmax = 0 only for rows this statement inserted.
	upsertProfileQuery = `
		INSERT INTO external_users (id, email, full_name, phone, company, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET email = COALESCE(EXCLUDED.email, external_users.email)
		RETURNING ` + profileColumns + `, (xmax = 0) AS inserted`

	getProfileQuery = `SELECT ` + profileColumns + ` FROM external_users WHERE id = $1`

	updateProfileQuery = `
		UPDATE external_users SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			company = COALESCE($4, company),
			address = COALESCE($5, address),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	profileExistsQuery = `SELECT EXISTS(SELECT 1 FROM external_users WHERE id = $1)`
)

// Profile is a row of the external user directory.
type Profile struct {
	ID        uuid.UUID
	Email     *string
	FullName  string
	Phone     *string
	Company   *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	ID       uuid.UUID
	Email    *string
	FullName string
	Phone    *string
	Company  *string
	Address  *string
}

// UpdateParams carries optional changes; nil keeps the stored value.
type UpdateParams struct {
	FullName *string
	Phone    *string
	Company  *string
	Address  *string
}

type Repository interface {
	Upsert(ctx context.Context, p CreateParams) (Profile, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Profile, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Upsert registers id. A second call keeps the stored profile and reports
// inserted=false.
func (r *Repo) Upsert(ctx context.Context, p CreateParams) (Profile, bool, error) {
	var (
		profile  Profile
		inserted bool
	)
	err := r.pool.QueryRow(ctx, upsertProfileQuery, p.ID, p.Email, p.FullName, p.Phone, p.Company, p.Address).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Phone, &profile.Company, &profile.Address,
		&profile.CreatedAt, &profile.UpdatedAt, &inserted,
	)
	if err != nil {
		return Profile{}, false, err
	}
	return profile, inserted, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, getProfileQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, apperr.NotFound(profileNotFoundMsg)
	}
	return profile, err
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, updateProfileQuery, id, p.FullName, p.Phone, p.Company, p.Address))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, apperr.NotFound(profileNotFoundMsg)
	}
	return profile, err
}

func (r *Repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, profileExistsQuery, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Company, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
