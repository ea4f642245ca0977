package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second)
}

func TestClientDecodesFeeds(t *testing.T) {
	bodies := map[string]string{
		PathKPI:         `{"total_energy_kwh": 10.5, "total_cost_fcfa": 2000, "top_station_name": "Ouaga 1"}`,
		PathPredictions: `[{"hour": 1, "energy_predicted": 2.5}]`,
		PathSchedule:    `[{"hour": 1, "pump_rate": 70, "cost_fcfa": 300}]`,
		PathAnomalies:   `{"rule_based": [], "ml_based": [], "stats": {}, "total": 0}`,
		PathRanking:     `{"by_energy_consumption": [{"station_name": "A", "total_energy_kwh": 5, "category": "NORMAL"}]}`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	ctx := context.Background()

	kpi, err := c.KPI(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.5, *kpi.TotalEnergyKWh)
	assert.Equal(t, "Ouaga 1", *kpi.TopStationName)
	assert.Nil(t, kpi.TotalAnomalies)

	preds, err := c.Predictions(ctx)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 1, *preds[0].Hour)

	slots, err := c.Schedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, *slots[0].CostFCFA)

	feed, err := c.Anomalies(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed.RuleBased)
	assert.Equal(t, 0, *feed.Total)

	ranking, err := c.Ranking(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NORMAL", ranking.ByEnergyConsumption[0].Category)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathKPI:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		case PathPredictions:
			_, _ = w.Write([]byte(`{"not": "a list"}`))
		case PathSchedule:
			_, _ = w.Write([]byte(`<html>`))
		}
	})
	ctx := context.Background()

	_, err := c.KPI(ctx)
	assert.ErrorIs(t, err, ErrNetwork)

	_, err = c.Predictions(ctx)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Schedule(ctx)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)

	_, err := c.Ranking(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, c.Health(context.Background()), ErrNetwork)
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	assert.NoError(t, c.Health(context.Background()))
}
