package usecases

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/core/ports"
	"github.com/samirrijal/mapboard/internal/pkg/logging"
	"github.com/samirrijal/mapboard/internal/pkg/metrics"
	"github.com/samirrijal/mapboard/internal/pkg/telemetry"
)

// MarkerService handles marker business logic.
type MarkerService struct {
	markers   ports.MarkerRepository
	files     ports.FileStore
	publisher ports.EventPublisher
}

// NewMarkerService creates a new MarkerService. publisher may be nil.
func NewMarkerService(markers ports.MarkerRepository, files ports.FileStore, publisher ports.EventPublisher) *MarkerService {
	return &MarkerService{markers: markers, files: files, publisher: publisher}
}

// List returns all markers.
func (s *MarkerService) List(ctx context.Context) ([]domain.Marker, error) {
	ctx, span := telemetry.StartSpan(ctx, "MarkerService.List")
	markers, err := s.markers.List(ctx)
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	if markers == nil {
		markers = []domain.Marker{}
	}
	return markers, nil
}

// Count returns the number of stored markers.
func (s *MarkerService) Count(ctx context.Context) (int, error) {
	n, err := s.markers.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count markers: %w", err)
	}
	return n, nil
}

// GetByID returns a single marker.
func (s *MarkerService) GetByID(ctx context.Context, id int64) (*domain.Marker, error) {
	return s.markers.GetByID(ctx, id)
}

// Create stores a new marker. When img is set the file is saved first and
// its URL replaces any client supplied image URL. The file is removed again
// if the insert fails.
func (s *MarkerService) Create(ctx context.Context, m *domain.Marker, img *domain.ImageUpload) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "MarkerService.Create")
	defer func() { telemetry.EndSpan(span, err) }()

	if img != nil {
		if s.files == nil {
			return fmt.Errorf("image upload: no file store configured")
		}
		url, err := s.files.Save(ctx, img.Filename, img.Content)
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		m.ImageURL = &url
		metrics.UploadsTotal.Inc()
		if img.Size > 0 {
			metrics.UploadBytes.Observe(float64(img.Size))
		}
	}

	if err := s.markers.Create(ctx, m); err != nil {
		if img != nil {
			s.discardImage(ctx, *m.ImageURL)
		}
		return fmt.Errorf("create marker: %w", err)
	}
	span.SetAttributes(attribute.Int64("marker.id", m.ID))
	metrics.MarkerWrites.WithLabelValues("create").Inc()

	created := *m
	s.publish(ctx, &domain.MapEvent{Kind: domain.MarkerCreated, MarkerID: m.ID, Marker: &created})
	return nil
}

// Update applies a partial update.
func (s *MarkerService) Update(ctx context.Context, id int64, u domain.MarkerUpdate) (m *domain.Marker, err error) {
	ctx, span := telemetry.StartSpan(ctx, "MarkerService.Update", attribute.Int64("marker.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	if u.Empty() {
		// Nothing to write, but an unknown id is still a 404.
		return s.markers.GetByID(ctx, id)
	}

	m, err = s.markers.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	metrics.MarkerWrites.WithLabelValues("update").Inc()

	updated := *m
	s.publish(ctx, &domain.MapEvent{Kind: domain.MarkerUpdated, MarkerID: id, Marker: &updated})
	return m, nil
}

// Delete removes a marker.
func (s *MarkerService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "MarkerService.Delete", attribute.Int64("marker.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.markers.Delete(ctx, id); err != nil {
		return err
	}
	metrics.MarkerWrites.WithLabelValues("delete").Inc()

	s.publish(ctx, &domain.MapEvent{Kind: domain.MarkerDeleted, MarkerID: id})
	return nil
}

// discardImage removes an upload whose marker was never stored.
func (s *MarkerService) discardImage(ctx context.Context, url string) {
	if err := s.files.Remove(context.WithoutCancel(ctx), url); err != nil {
		logging.FromContext(ctx).Warn("remove orphaned upload failed", "image_url", url, "error", err)
	}
}

func (s *MarkerService) publish(ctx context.Context, ev *domain.MapEvent) {
	publishEvent(ctx, s.publisher, ev)
}

// publishEvent is best effort: a broker outage must not fail a committed write.
func publishEvent(ctx context.Context, p ports.EventPublisher, ev *domain.MapEvent) {
	if p == nil {
		return
	}
	ev.Time = time.Now().UTC()
	result := "ok"
	if err := p.PublishMapEvent(ctx, ev); err != nil {
		result = "error"
		logging.FromContext(ctx).Warn("publish map event failed", "kind", ev.Kind, "error", err)
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Kind), result).Inc()
}
