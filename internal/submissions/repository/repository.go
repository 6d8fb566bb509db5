package repository

import (
	"context"
	"errors"
	"fmt"

	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionNotFoundMessage = "submission not found"

const submissionColumns = `id, owner_id, province, regency, district, village, address,
	latitude, longitude, object_type, land_title, floor_count,
	frontage_width, depth, area, rent_price, owner_name, owner_phone,
	photo_path, status, branch_id, reviewer_id, approved_at, created_at, updated_at`

const (
	listSubmissionsQuery = `
		SELECT ` + submissionColumns + `
		FROM ulok
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	countSubmissionsQuery = `SELECT COUNT(*) FROM ulok WHERE owner_id = $1`

	getSubmissionQuery = `
		SELECT ` + submissionColumns + `
		FROM ulok
		WHERE id = $1 AND owner_id = $2`

	insertSubmissionQuery = `
		INSERT INTO ulok (
			id, owner_id, province, regency, district, village, address,
			latitude, longitude, object_type, land_title, floor_count,
			frontage_width, depth, area, rent_price, owner_name, owner_phone,
			photo_path, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + submissionColumns

	updateSubmissionQuery = `
		WITH prev AS (
			SELECT id AS prev_id, photo_path AS prev_photo_path
			FROM ulok
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE
		)
		UPDATE ulok
		SET province = COALESCE($3, province),
			regency = COALESCE($4, regency),
			district = COALESCE($5, district),
			village = COALESCE($6, village),
			address = COALESCE($7, address),
			latitude = COALESCE($8, latitude),
			longitude = COALESCE($9, longitude),
			object_type = COALESCE($10, object_type),
			land_title = COALESCE($11, land_title),
			floor_count = COALESCE($12, floor_count),
			frontage_width = COALESCE($13, frontage_width),
			depth = COALESCE($14, depth),
			area = COALESCE($15, area),
			rent_price = COALESCE($16, rent_price),
			owner_name = COALESCE($17, owner_name),
			owner_phone = COALESCE($18, owner_phone),
			photo_path = COALESCE($19, photo_path),
			updated_at = GREATEST(now(), created_at)
		FROM prev
		WHERE id = prev.prev_id AND owner_id = $2
		RETURNING ` + submissionColumns + `, prev.prev_photo_path`

	deleteSubmissionQuery = `DELETE FROM ulok WHERE id = $1 AND owner_id = $2`

	currentPhotoPathsQuery = `SELECT id, COALESCE(photo_path, '') FROM ulok WHERE id = ANY($1)`
)

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new submissions repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns one page of the owner's submissions, newest first, and the
// owner's total count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, countSubmissionsQuery, params.OwnerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSubmissionsQuery, params.OwnerID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}
	return items, total, nil
}

// GetByID returns a submission only when it belongs to ownerID.
func (r *Repo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx, getSubmissionQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Submission{}, apperr.NotFound(submissionNotFoundMessage)
		}
		return domain.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return s, nil
}

// Create inserts a submission.
func (r *Repo) Create(ctx context.Context, s domain.Submission) (domain.Submission, error) {
	created, err := scanSubmission(r.pool.QueryRow(ctx, insertSubmissionQuery,
		s.ID, s.OwnerID, s.Province, s.Regency, s.District, s.Village, s.Address,
		s.Latitude, s.Longitude, s.ObjectType, s.LandTitle, s.FloorCount,
		s.FrontageWidth, s.Depth, s.Area, s.RentPrice, s.OwnerName, s.OwnerPhone,
		s.PhotoPath, string(s.Status),
	))
	if err != nil {
		return domain.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

// Update patches supplied fields and bumps updated_at. The row is locked
// before the write, so PreviousPhotoPath is the value this statement
// actually overwrote rather than whatever the caller read earlier.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (UpdateResult, error) {
	f := params.Fields
	var res UpdateResult
	updated, err := scanSubmission(r.pool.QueryRow(ctx, updateSubmissionQuery,
		params.ID, params.OwnerID,
		f.Province, f.Regency, f.District, f.Village, f.Address,
		f.Latitude, f.Longitude, f.ObjectType, f.LandTitle, f.FloorCount,
		f.FrontageWidth, f.Depth, f.Area, f.RentPrice, f.OwnerName, f.OwnerPhone,
		params.PhotoPath,
	), &res.PreviousPhotoPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UpdateResult{}, apperr.NotFound(submissionNotFoundMessage)
		}
		return UpdateResult{}, fmt.Errorf("update submission: %w", err)
	}
	res.Submission = updated
	return res, nil
}

// Delete removes a submission owned by ownerID.
func (r *Repo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, deleteSubmissionQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(submissionNotFoundMessage)
	}
	return nil
}

// CurrentPhotoPaths returns the stored photo path of every id that still has
// a row. Rows without a photo map to "".
func (r *Repo) CurrentPhotoPaths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	found := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.pool.Query(ctx, currentPhotoPathsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("current photo paths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("scan photo path: %w", err)
		}
		found[id] = path
	}
	return found, rows.Err()
}

func scanSubmission(row pgx.Row, extra ...any) (domain.Submission, error) {
	var s domain.Submission
	var status string
	dest := []any{
		&s.ID, &s.OwnerID, &s.Province, &s.Regency, &s.District, &s.Village, &s.Address,
		&s.Latitude, &s.Longitude, &s.ObjectType, &s.LandTitle, &s.FloorCount,
		&s.FrontageWidth, &s.Depth, &s.Area, &s.RentPrice, &s.OwnerName, &s.OwnerPhone,
		&s.PhotoPath, &status, &s.BranchID, &s.ReviewerID, &s.ApprovedAt, &s.CreatedAt, &s.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return domain.Submission{}, err
	}
	s.Status = domain.Status(status)
	return s, nil
}
