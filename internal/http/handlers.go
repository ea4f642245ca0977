package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/metrics"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/service"
)

// Refresher triggers a run of the analytics pipeline.
type Refresher interface {
	InvokeAnalyticsAsync(ctx context.Context, date string) error
}

var routes = map[string]domain.Feed{
	"predictions": domain.FeedPredictions,
	"schedule":    domain.FeedSchedule,
	"ranking":     domain.FeedRanking,
}

// Register mounts the feed API. refresher may be nil when cloud services
// are disabled.
func Register(app *fiber.App, svcs *service.Services, refresher Refresher) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	g := app.Group("/api", countRequests)
	for name, feed := range routes {
		g.Get(name, feedHandler(svcs.Feeds, feed))
	}
	g.Get("kpi", func(c *fiber.Ctx) error {
		payload, err := svcs.Feeds.KPI(c.UserContext())
		if errors.Is(err, domain.ErrFeedNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "kpi not available"})
		}
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		c.Type("json")
		return c.Send(payload)
	})
	g.Get("anomalies", func(c *fiber.Ctx) error {
		out, err := svcs.Feeds.Anomalies(c.UserContext())
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return c.JSON(out)
	})
	g.Post("refresh", func(c *fiber.Ctx) error {
		if refresher == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cloud services disabled"})
		}
		date := c.Query("date", time.Now().UTC().Format(time.DateOnly))
		if err := refresher.InvokeAnalyticsAsync(c.UserContext(), date); err != nil {
			return fail(c, fiber.StatusBadGateway, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted", "date": date})
	})
}

func feedHandler(feeds *service.FeedService, feed domain.Feed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := feeds.Payload(c.UserContext(), feed)
		if errors.Is(err, domain.ErrFeedNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": string(feed) + " not available"})
		}
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		c.Type("json")
		return c.Send(payload)
	}
}

func fail(c *fiber.Ctx, status int, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func countRequests(c *fiber.Ctx) error {
	err := c.Next()
	metrics.FeedRequests.WithLabelValues(c.Route().Path, strconv.Itoa(c.Response().StatusCode())).Inc()
	return err
}
