// Package store opens the configured SQL backend and hands back its
// repositories.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/mapboard/internal/adapters/postgres"
	"github.com/samirrijal/mapboard/internal/adapters/sqlite"
	"github.com/samirrijal/mapboard/internal/core/ports"
	"github.com/samirrijal/mapboard/internal/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store groups the repositories of one backend.
type Store struct {
	Driver   string
	Markers  ports.MarkerRepository
	Polygons ports.PolygonRepository
	Pinger   ports.Pinger

	stats func() (open, inUse, idle int)
	close func()
}

// Stats reports connection pool usage.
func (s *Store) Stats() (open, inUse, idle int) {
	return s.stats()
}

// Close releases the backend.
func (s *Store) Close() {
	s.close()
}

// Open connects to the backend selected by cfg.Driver and makes sure the
// schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		db, err := postgres.New(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		applied, err := db.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		slog.Info("migrations applied", "files", applied)
		return &Store{
			Driver:   DriverPostgres,
			Markers:  postgres.NewMarkerRepo(db),
			Polygons: postgres.NewPolygonRepo(db),
			Pinger:   db,
			stats:    db.Stats,
			close:    db.Close,
		}, nil

	case DriverSQLite, "":
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   DriverSQLite,
			Markers:  sqlite.NewMarkerRepo(db),
			Polygons: sqlite.NewPolygonRepo(db),
			Pinger:   db,
			stats:    db.Stats,
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
