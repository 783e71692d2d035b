package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/geolabel/geolabel/internal/adapters/http"
	"github.com/geolabel/geolabel/internal/adapters/memory"
	natsadapter "github.com/geolabel/geolabel/internal/adapters/nats"
	"github.com/geolabel/geolabel/internal/adapters/valkey"
	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/ports"
	"github.com/geolabel/geolabel/internal/core/usecases"
	"github.com/geolabel/geolabel/internal/pkg/config"
	"github.com/geolabel/geolabel/internal/pkg/logging"
	"github.com/geolabel/geolabel/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geolabel-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Chip grid
	grid, err := chipgrid.New(cfg.ChipSpec(),
		chipgrid.WithMaxChips(cfg.Grid.MaxChips),
		chipgrid.WithMaxLatitude(cfg.Grid.MaxLatitude),
	)
	if err != nil {
		log.Fatalf("chip grid: %v", err)
	}

	// Cache
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// NATS
	var events ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			events = publisher
			defer publisher.Close()
		}

		// Raw NATS connection for WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		}
	}

	// Store and use cases
	store := memory.NewLabelStore()

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	gridSvc := usecases.NewGridService(grid, cacheSvc)
	labelSvc := usecases.NewLabelService(store, grid, events)

	deps := &http.Dependencies{
		Grid:   gridSvc,
		Labels: labelSvc,
		NATS:   natsConn,
		Cache:  cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // label sets for dense projects get large
		AppName:      "GeoLabel API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
