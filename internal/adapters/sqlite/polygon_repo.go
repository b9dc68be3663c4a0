package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samirrijal/mapboard/internal/adapters/store/codec"
	"github.com/samirrijal/mapboard/internal/core/domain"
)

// PolygonRepo implements ports.PolygonRepository on sqlite.
type PolygonRepo struct {
	db *DB
}

// NewPolygonRepo creates a new PolygonRepo.
func NewPolygonRepo(db *DB) *PolygonRepo {
	return &PolygonRepo{db: db}
}

// ReplaceCurrent deletes all polygons and inserts p in one transaction.
func (r *PolygonRepo) ReplaceCurrent(ctx context.Context, p *domain.Polygon) error {
	blob, err := codec.EncodeCoordinates(p.Coordinates)
	if err != nil {
		return err
	}

	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM polygons`); err != nil {
		return fmt.Errorf("clear polygons: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO polygons (coordinates, name, description) VALUES (?, ?, ?)`,
		blob, p.Name, nullString(p.Description))
	if err != nil {
		return fmt.Errorf("insert polygon: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert polygon id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.ID = id
	return nil
}

// List returns the stored polygons with decoded coordinates.
func (r *PolygonRepo) List(ctx context.Context) ([]domain.Polygon, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT id, coordinates, name, description FROM polygons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query polygons: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var polygons []domain.Polygon
	for rows.Next() {
		var p domain.Polygon
		var blob string
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &blob, &p.Name, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			p.Description = &desc.String
		}
		if p.Coordinates, err = codec.DecodeCoordinates(blob); err != nil {
			return nil, fmt.Errorf("polygon %d: %w", p.ID, err)
		}
		polygons = append(polygons, p)
	}
	return polygons, rows.Err()
}
