package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mapboard/internal/adapters/http"
	natsadapter "github.com/samirrijal/mapboard/internal/adapters/nats"
	"github.com/samirrijal/mapboard/internal/adapters/store"
	"github.com/samirrijal/mapboard/internal/adapters/uploads"
	"github.com/samirrijal/mapboard/internal/adapters/valkey"
	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/core/ports"
	"github.com/samirrijal/mapboard/internal/core/usecases"
	"github.com/samirrijal/mapboard/internal/pkg/config"
	"github.com/samirrijal/mapboard/internal/pkg/logging"
	"github.com/samirrijal/mapboard/internal/pkg/metrics"
	"github.com/samirrijal/mapboard/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("mapboard-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	slog.Info("database ready", "driver", db.Driver)

	go observePool(ctx, db)

	// Valkey-backed rate limiter storage
	var limiterStore http.LimiterStorage
	if cfg.Valkey.Enabled {
		vs, err := valkey.New(cfg.Valkey.Addr, "mapboard:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory rate limiter", "error", err)
		} else {
			defer func() { _ = vs.Close() }()
			limiterStore = vs
		}
	}

	// NATS: JetStream publisher plus a plain connection for the WebSocket relay
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		p, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, live updates disabled", "error", err)
		} else {
			defer p.Close()
			publisher = p
			natsConn = p.Conn()
		}
	}

	// Use cases
	files := uploads.NewStore(cfg.Uploads.Dir)
	markerSvc := usecases.NewMarkerService(db.Markers, files, publisher)
	polygonSvc := usecases.NewPolygonService(db.Polygons, publisher)

	deps := &http.Dependencies{
		Markers:  markerSvc,
		Polygons: polygonSvc,
		MapConfig: domain.MapConfig{
			Key:            cfg.AMap.Key,
			SecurityJSCode: cfg.AMap.SecurityCode,
		},
		UploadDir:       files.Dir(),
		DB:              db.Pinger,
		NATS:            natsConn,
		Cache:           limiterStore,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}
	if cfg.AMap.Key == "" {
		slog.Warn("amap.key is empty, the map page will not load tiles")
	}

	// Fiber
	app := http.NewApp(http.AppConfig{
		Name:         "mapboard API",
		BodyLimitMB:  cfg.Server.BodyLimitMB,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Server.Debug}))
	if cfg.Server.Debug {
		app.Use(logger.New())
	}
	if cfg.Server.CORSEnabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ","),
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept",
			AllowCredentials: false,
			MaxAge:           3600,
		}))
	}

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := cfg.Server.Addr()
		slog.Info("API server starting", "addr", addr, "uploads", files.Dir())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// observePool exports connection pool gauges every 15s until ctx is done.
func observePool(ctx context.Context, db *store.Store) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.ObserveDBPool(db.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
