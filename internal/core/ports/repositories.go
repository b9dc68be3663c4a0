package ports

import (
	"context"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

// MarkerRepository persists markers.
type MarkerRepository interface {
	List(ctx context.Context) ([]domain.Marker, error)
	GetByID(ctx context.Context, id int64) (*domain.Marker, error)
	// Create stores m and sets m.ID.
	Create(ctx context.Context, m *domain.Marker) error
	// Update applies the non-nil fields and returns the stored row.
	Update(ctx context.Context, id int64, u domain.MarkerUpdate) (*domain.Marker, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// PolygonRepository persists the single current polygon.
type PolygonRepository interface {
	// ReplaceCurrent deletes every stored polygon and inserts p, setting p.ID.
	ReplaceCurrent(ctx context.Context, p *domain.Polygon) error
	List(ctx context.Context) ([]domain.Polygon, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
