package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

const (
	// StreamName is the JetStream stream holding map change events.
	StreamName = "MAP_EVENTS"
	// SubjectAll matches every map event subject.
	SubjectAll = "map.>"
	// SubjectMarkers matches marker events only.
	SubjectMarkers = "map.markers.>"
	// SubjectPolygons matches polygon events only.
	SubjectPolygons = "map.polygons.>"
)

// Subject returns the subject an event of the given kind is published on.
func Subject(kind domain.MapEventKind) (string, error) {
	switch kind {
	case domain.MarkerCreated:
		return "map.markers.created", nil
	case domain.MarkerUpdated:
		return "map.markers.updated", nil
	case domain.MarkerDeleted:
		return "map.markers.deleted", nil
	case domain.PolygonReplaced:
		return "map.polygons.replaced", nil
	default:
		return "", fmt.Errorf("unknown map event kind %q", kind)
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the map event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishMapEvent stores the event in the stream.
func (p *Publisher) PublishMapEvent(ctx context.Context, event *domain.MapEvent) error {
	subject, err := Subject(event.Kind)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for core subscriptions.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("mapboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
