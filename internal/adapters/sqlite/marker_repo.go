package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

const markerColumns = `id, latitude, longitude, title, description, image_url`

// MarkerRepo implements ports.MarkerRepository on sqlite.
type MarkerRepo struct {
	db *DB
}

// NewMarkerRepo creates a new MarkerRepo.
func NewMarkerRepo(db *DB) *MarkerRepo {
	return &MarkerRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMarker(row scanner) (*domain.Marker, error) {
	var m domain.Marker
	var desc, img sql.NullString
	if err := row.Scan(&m.ID, &m.Latitude, &m.Longitude, &m.Title, &desc, &img); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		m.Description = &desc.String
	}
	if img.Valid {
		m.ImageURL = &img.String
	}
	return &m, nil
}

// List returns every marker ordered by id.
func (r *MarkerRepo) List(ctx context.Context) ([]domain.Marker, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT `+markerColumns+` FROM markers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

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
	return scanMarker(r.db.SQL.QueryRowContext(ctx,
		`SELECT `+markerColumns+` FROM markers WHERE id = ?`, id))
}

// Create inserts m and sets its id.
func (r *MarkerRepo) Create(ctx context.Context, m *domain.Marker) error {
	res, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO markers (latitude, longitude, title, description, image_url) VALUES (?, ?, ?, ?, ?)`,
		m.Latitude, m.Longitude, m.Title, nullString(m.Description), nullString(m.ImageURL))
	if err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert marker id: %w", err)
	}
	m.ID = id
	return nil
}

// Update applies the non-nil fields of u.
func (r *MarkerRepo) Update(ctx context.Context, id int64, u domain.MarkerUpdate) (*domain.Marker, error) {
	return scanMarker(r.db.SQL.QueryRowContext(ctx, `
		UPDATE markers
		SET title       = COALESCE(?, title),
		    description = COALESCE(?, description),
		    image_url   = COALESCE(?, image_url)
		WHERE id = ?
		RETURNING `+markerColumns,
		nullString(u.Title), nullString(u.Description), nullString(u.ImageURL), id))
}

// Delete removes a marker or returns domain.ErrNotFound.
func (r *MarkerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.SQL.ExecContext(ctx, `DELETE FROM markers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored markers.
func (r *MarkerRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.SQL.QueryRowContext(ctx, `SELECT count(*) FROM markers`).Scan(&n)
	return n, err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
