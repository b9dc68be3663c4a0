package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

const markerColumns = `id, latitude, longitude, title, description, image_url`

// MarkerRepo implements ports.MarkerRepository with pgx.
type MarkerRepo struct {
	db *DB
}

// NewMarkerRepo creates a new MarkerRepo.
func NewMarkerRepo(db *DB) *MarkerRepo {
	return &MarkerRepo{db: db}
}

func scanMarker(row pgx.Row) (*domain.Marker, error) {
	var m domain.Marker
	if err := row.Scan(&m.ID, &m.Latitude, &m.Longitude, &m.Title, &m.Description, &m.ImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns every marker ordered by id.
func (r *MarkerRepo) List(ctx context.Context) ([]domain.Marker, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+markerColumns+` FROM markers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	var markers []domain.Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, err
		}
		markers = append(markers, *m)
	}
	return markers, rows.Err()
}

// GetByID returns a marker or domain.ErrNotFound.
func (r *MarkerRepo) GetByID(ctx context.Context, id int64) (*domain.Marker, error) {
	return scanMarker(r.db.Pool.QueryRow(ctx,
		`SELECT `+markerColumns+` FROM markers WHERE id = $1`, id))
}

// Create inserts m and sets its id.
func (r *MarkerRepo) Create(ctx context.Context, m *domain.Marker) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO markers (latitude, longitude, title, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.Latitude, m.Longitude, m.Title, m.Description, m.ImageURL).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of u.
func (r *MarkerRepo) Update(ctx context.Context, id int64, u domain.MarkerUpdate) (*domain.Marker, error) {
	return scanMarker(r.db.Pool.QueryRow(ctx, `
		UPDATE markers
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    image_url   = COALESCE($4, image_url)
		WHERE id = $1
		RETURNING `+markerColumns,
		id, u.Title, u.Description, u.ImageURL))
}

// Delete removes a marker or returns domain.ErrNotFound.
func (r *MarkerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM markers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored markers.
func (r *MarkerRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM markers`).Scan(&n)
	return n, err
}
