// Package web serves the rendered dashboard.
package web

import (
	"bytes"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/dashboard"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/metrics"
)

// HealthChecker reports whether the feed API is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Server struct {
	renderer *dashboard.Renderer
	health   HealthChecker
	title    string
}

func New(renderer *dashboard.Renderer, health HealthChecker, title string) *Server {
	return &Server{renderer: renderer, health: health, title: title}
}

func (s *Server) Register(app *fiber.App) {
	app.Get("/", s.handleDashboard)
	app.Get("/healthz", s.handleHealthz)
	app.Get("/metrics", metrics.Handler())
}

// handleDashboard runs a full render cycle per request. Failed sections
// keep their placeholders; the page is always served.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	page := dashboard.NewPage(s.title)
	cycle := s.renderer.Render(c.UserContext(), page)

	var buf bytes.Buffer
	if err := page.Render(&buf, cycle); err != nil {
		log.Error().Err(err).Msg("page render failed")
		return c.Status(fiber.StatusInternalServerError).SendString("render failed")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	status := "online"
	if err := s.health.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("feed api unreachable")
		status = "offline"
	}
	return c.JSON(fiber.Map{"status": status})
}
