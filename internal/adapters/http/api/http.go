// Package api serves the host's admin and spectator HTTP surface.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/okian/posefight/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the game service.
type Dependencies interface {
	StatsProvider
	MatchView
	Feed
}

// Server wires HTTP routes for the host.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	feedHandler    *FeedHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		feedHandler:    NewFeedHandler(deps, logger.Get().Named("feed")),
	}
}

// App builds a fiber app with every route registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "posefight host",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s.Register(app)
	return app
}

// Register attaches all HTTP routes to app.
func (s *Server) Register(app *fiber.App) {
	app.Use(recover.New())
	app.Use(MetricsMiddleware)

	app.Get("/healthz", s.healthHandler.HandleHealth)
	app.Get("/metrics", s.healthHandler.HandleMetrics)
	app.Get("/stats", s.statsHandler.HandleStats)
	app.Get("/players", s.playersHandler.HandlePlayers)
	app.Post("/match/reset", s.playersHandler.HandleReset)

	ws := app.Group("/ws", s.feedHandler.RequireUpgrade)
	ws.Get("/ticks", s.feedHandler.HandleTicks())
}
