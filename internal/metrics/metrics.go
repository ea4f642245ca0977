// Package metrics holds the Prometheus collectors shared by the binaries.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoutineOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_routine_total",
		Help: "Dashboard render routines by final state.",
	}, []string{"routine", "state"})

	RoutineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_routine_duration_seconds",
		Help:    "Time from fetch start to final state per render routine.",
		Buckets: prometheus.DefBuckets,
	}, []string{"routine"})

	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_api_requests_total",
		Help: "Feed API requests by endpoint and status code.",
	}, []string{"endpoint", "code"})

	FeedIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_ingest_total",
		Help: "Feed documents received over MQTT by outcome.",
	}, []string{"feed", "outcome"})
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
