package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/geolabel/geolabel/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 240 requests per minute per IP. Labeling is a
	// click-heavy workload, so the budget is generous.
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	// Grid geometry
	v1.Get("/grid/spec", timeout.NewWithContext(ChipSpecHandler(deps), 15*time.Second))
	v1.Get("/grid/snap", timeout.NewWithContext(SnapHandler(deps), 15*time.Second))
	v1.Get("/grid/chip", timeout.NewWithContext(ChipAtHandler(deps), 15*time.Second))
	v1.Get("/grid/centers", timeout.NewWithContext(CentersHandler(deps), 15*time.Second))
	v1.Post("/grid/coverage", timeout.NewWithContext(CoverageHandler(deps), 15*time.Second))

	// Project labeling
	v1.Get("/projects/:id/labels", timeout.NewWithContext(GetLabelsHandler(deps), 15*time.Second))
	v1.Put("/projects/:id/labels", timeout.NewWithContext(SaveLabelsHandler(deps), 15*time.Second))
	v1.Delete("/projects/:id/labels", timeout.NewWithContext(ClearLabelsHandler(deps), 15*time.Second))
	v1.Post("/projects/:id/chips", timeout.NewWithContext(PlaceChipHandler(deps), 15*time.Second))
	v1.Delete("/projects/:id/chips/:chipID", timeout.NewWithContext(DeleteChipHandler(deps), 15*time.Second))
	v1.Post("/projects/:id/chips/:chipID/polygons", timeout.NewWithContext(AddPolygonHandler(deps), 15*time.Second))
	v1.Delete("/projects/:id/polygons/:polygonID", timeout.NewWithContext(DeletePolygonHandler(deps), 15*time.Second))
	v1.Get("/projects/:id/features", timeout.NewWithContext(FeaturesHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
