package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/mapboard/internal/adapters/store/codec"
	"github.com/samirrijal/mapboard/internal/core/domain"
)

// PolygonRepo implements ports.PolygonRepository with pgx.
type PolygonRepo struct {
	db *DB
}

// NewPolygonRepo creates a new PolygonRepo.
func NewPolygonRepo(db *DB) *PolygonRepo {
	return &PolygonRepo{db: db}
}

// ReplaceCurrent deletes all polygons and inserts p in one transaction.
// The table lock serialises concurrent replacements so exactly one row remains.
func (r *PolygonRepo) ReplaceCurrent(ctx context.Context, p *domain.Polygon) error {
	blob, err := codec.EncodeCoordinates(p.Coordinates)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE polygons IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock polygons: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM polygons`); err != nil {
			return fmt.Errorf("clear polygons: %w", err)
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO polygons (coordinates, name, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`, blob, p.Name, p.Description).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert polygon: %w", err)
		}
		return nil
	})
}

// List returns the stored polygons with decoded coordinates.
func (r *PolygonRepo) List(ctx context.Context) ([]domain.Polygon, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, coordinates, name, description FROM polygons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query polygons: %w", err)
	}
	defer rows.Close()

	var polygons []domain.Polygon
	for rows.Next() {
		var p domain.Polygon
		var blob string
		if err := rows.Scan(&p.ID, &blob, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		if p.Coordinates, err = codec.DecodeCoordinates(blob); err != nil {
			return nil, fmt.Errorf("polygon %d: %w", p.ID, err)
		}
		polygons = append(polygons, p)
	}
	return polygons, rows.Err()
}
