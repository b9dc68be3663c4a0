package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/core/ports"
	"github.com/samirrijal/mapboard/internal/pkg/metrics"
	"github.com/samirrijal/mapboard/internal/pkg/telemetry"
)

// PolygonService manages the single current polygon.
type PolygonService struct {
	polygons  ports.PolygonRepository
	publisher ports.EventPublisher
}

// NewPolygonService creates a new PolygonService. publisher may be nil.
func NewPolygonService(polygons ports.PolygonRepository, publisher ports.EventPublisher) *PolygonService {
	return &PolygonService{polygons: polygons, publisher: publisher}
}

// ReplaceCurrent validates p and stores it as the only polygon.
// Previously stored polygons are deleted.
func (s *PolygonService) ReplaceCurrent(ctx context.Context, p *domain.Polygon) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "PolygonService.ReplaceCurrent",
		attribute.Int("polygon.coordinates", len(p.Coordinates)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := domain.ValidateCoordinates(p.Coordinates); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	if err := s.polygons.ReplaceCurrent(ctx, p); err != nil {
		return fmt.Errorf("replace polygon: %w", err)
	}
	metrics.PolygonReplacements.Inc()

	stored := *p
	publishEvent(ctx, s.publisher, &domain.MapEvent{Kind: domain.PolygonReplaced, Polygon: &stored})
	return nil
}

// List returns the stored polygons (at most one).
func (s *PolygonService) List(ctx context.Context) ([]domain.Polygon, error) {
	polygons, err := s.polygons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list polygons: %w", err)
	}
	if polygons == nil {
		polygons = []domain.Polygon{}
	}
	return polygons, nil
}
