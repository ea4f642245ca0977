package http

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/repository"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/service"
)

type fakeRefresher struct {
	date string
	err  error
}

func (f *fakeRefresher) InvokeAnalyticsAsync(_ context.Context, date string) error {
	f.date = date
	return f.err
}

func newApp(t *testing.T, refresher Refresher, feeds map[domain.Feed]string) *fiber.App {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repos := repository.New(db)
	ctx := context.Background()
	require.NoError(t, repos.EnsureSchema(ctx))
	for feed, payload := range feeds {
		require.NoError(t, repos.PutFeed(ctx, domain.FeedDocument{Feed: feed, Payload: []byte(payload), UpdatedAt: time.Now()}))
	}

	app := fiber.New()
	Register(app, service.New(repos, "onea/analytics"), refresher)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	app := newApp(t, nil, nil)

	code, body := do(t, app, fiber.MethodGet, "/health")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestFeedServedVerbatim(t *testing.T) {
	kpi := `{"total_energy_kwh":4521.75,"total_cost_fcfa":1234567.5,"top_station_name":"Station Paspanga"}`
	app := newApp(t, nil, map[domain.Feed]string{
		domain.FeedKPI:     kpi,
		domain.FeedRanking: `{"by_energy_consumption":[]}`,
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/kpi", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, kpi, string(body))

	code, body2 := do(t, app, fiber.MethodGet, "/api/ranking")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"by_energy_consumption":[]}`, body2)
}

func TestFeedMissing(t *testing.T) {
	app := newApp(t, nil, nil)

	for _, path := range []string{"/api/kpi", "/api/predictions", "/api/schedule", "/api/ranking"} {
		code, body := do(t, app, fiber.MethodGet, path)
		assert.Equal(t, fiber.StatusNotFound, code, path)
		assert.Contains(t, body, `"error"`, path)
	}
}

func TestAnomaliesEndpoint(t *testing.T) {
	app := newApp(t, nil, map[domain.Feed]string{
		domain.FeedAnomalies: `[{"severity":"CRITIQUE","alerts":["DEBIT_FAIBLE"]}]`,
	})

	code, body := do(t, app, fiber.MethodGet, "/api/anomalies")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{
		"rule_based": [{"severity":"CRITIQUE","alerts":["DEBIT_FAIBLE"]}],
		"ml_based": [],
		"stats": {},
		"total": 1
	}`, body)
}

func TestAnomaliesEndpointCorrupt(t *testing.T) {
	app := newApp(t, nil, map[domain.Feed]string{domain.FeedAnomalies: `{"not":"a list"}`})

	code, body := do(t, app, fiber.MethodGet, "/api/anomalies")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body, `"error"`)
}

func TestRefresh(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app := newApp(t, nil, nil)
		code, _ := do(t, app, fiber.MethodPost, "/api/refresh")
		assert.Equal(t, fiber.StatusServiceUnavailable, code)
	})

	t.Run("accepted", func(t *testing.T) {
		r := &fakeRefresher{}
		app := newApp(t, r, nil)
		code, body := do(t, app, fiber.MethodPost, "/api/refresh?date=2026-01-15")
		assert.Equal(t, fiber.StatusAccepted, code)
		assert.JSONEq(t, `{"status":"accepted","date":"2026-01-15"}`, body)
		assert.Equal(t, "2026-01-15", r.date)
	})

	t.Run("upstream failure", func(t *testing.T) {
		app := newApp(t, &fakeRefresher{err: errors.New("throttled")}, nil)
		code, body := do(t, app, fiber.MethodPost, "/api/refresh")
		assert.Equal(t, fiber.StatusBadGateway, code)
		assert.Contains(t, body, "throttled")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t, nil, nil)
	do(t, app, fiber.MethodGet, "/api/kpi")

	code, body := do(t, app, fiber.MethodGet, "/metrics")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "feed_api_requests_total")
}

func TestKPIDerivedFromPipelineFeeds(t *testing.T) {
	app := newApp(t, nil, map[domain.Feed]string{
		domain.FeedSchedule:    `[{"hour":0,"energy_used":100.5,"cost_fcfa":8040},{"hour":1,"energy_used":50.25,"cost_fcfa":4020}]`,
		domain.FeedAnomalies:   `[{"severity":"CRITIQUE","alerts":["DEBIT_FAIBLE"]},{"severity":"FAIBLE","alerts":[]}]`,
		domain.FeedMLAnomalies: `[{"subtype":"ML_ANOMALY"}]`,
		domain.FeedRanking:     `{"by_energy_consumption":[{"station_name":"Station Paspanga","total_energy_kwh":1820.4,"category":"TRES_ENERGIVORE"}]}`,
	})

	code, body := do(t, app, fiber.MethodGet, "/api/kpi")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{
		"total_energy_kwh": 150.75,
		"total_cost_fcfa": 12060,
		"total_anomalies": 3,
		"critical_anomalies": 1,
		"top_station_name": "Station Paspanga",
		"top_station_energy": 1820.4
	}`, body)
}

func TestKPIMalformedSource(t *testing.T) {
	app := newApp(t, nil, map[domain.Feed]string{
		domain.FeedSchedule:  `[{"hour":0}]`,
		domain.FeedAnomalies: `[]`,
		domain.FeedRanking:   `{"by_energy_consumption":[{"station_name":"A","total_energy_kwh":1}]}`,
	})

	code, body := do(t, app, fiber.MethodGet, "/api/kpi")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body, "malformed feed")
}
