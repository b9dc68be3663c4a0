package ports

import (
	"context"
	"io"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

// EventPublisher publishes map changes to a message broker.
type EventPublisher interface {
	PublishMapEvent(ctx context.Context, event *domain.MapEvent) error
}

// FileStore keeps uploaded files and returns the URL they are served from.
type FileStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	// Remove deletes the file behind a URL returned by Save.
	Remove(ctx context.Context, url string) error
}
