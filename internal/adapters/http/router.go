package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/mapboard/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers the page, REST, legacy, GraphQL and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting per IP, shared through Valkey when configured
	limit := deps.RateLimitMax
	if limit <= 0 {
		limit = 120
	}
	window := deps.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	limiterCfg := limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		// Probes and scrapes are not client traffic.
		Next: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/health", "/ready", "/metrics":
				return true
			}
			return false
		},
	}
	if deps.Cache != nil {
		limiterCfg.Storage = deps.Cache
	}
	app.Use(limiter.New(limiterCfg))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/health", HealthHandler())
	app.Get("/ready", ReadyHandler(deps))

	// Page and uploaded images
	SetupStatic(app, deps.UploadDir)

	app.Get("/api/map-config", MapConfigHandler(deps))

	app.Get("/markers", withTimeout(ListMarkersHandler(deps)))
	app.Post("/markers", withTimeout(CreateMarkerHandler(deps)))
	app.Get("/markers/:id", withTimeout(GetMarkerHandler(deps)))
	app.Put("/markers/:id", withTimeout(UpdateMarkerHandler(deps)))
	app.Delete("/markers/:id", withTimeout(DeleteMarkerHandler(deps)))

	app.Get("/polygons", withTimeout(ListPolygonsHandler(deps)))
	app.Post("/polygons", withTimeout(CreatePolygonHandler(deps)))

	// Routes of the first map page
	app.Use(DeprecationMiddleware(LegacyRoutes))
	app.Get("/get_keys", LegacyKeysHandler(deps))
	app.Get("/get_markers", withTimeout(LegacyListMarkersHandler(deps)))
	app.Post("/add_marker", withTimeout(LegacyAddMarkerHandler(deps)))
	app.Delete("/delete_marker/:id", withTimeout(LegacyDeleteMarkerHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}
