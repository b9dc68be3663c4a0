package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/core/ports"
	"github.com/samirrijal/mapboard/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Markers   *usecases.MarkerService
	Polygons  *usecases.PolygonService
	MapConfig domain.MapConfig

	// UploadDir is served under /uploads.
	UploadDir string

	DB   ports.Pinger
	NATS *nats.Conn // optional, enables /ws relay
	// Cache backs the rate limiter when set and is pinged by /ready.
	Cache LimiterStorage

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LimiterStorage is a fiber.Storage that can report its health.
type LimiterStorage interface {
	fiber.Storage
	ports.Pinger
}
