package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

var (
	// ErrNetwork covers transport failures and non-2xx answers.
	ErrNetwork = errors.New("network failure")
	// ErrMalformed covers bodies that do not decode into the expected shape.
	ErrMalformed = errors.New("malformed response")
)

// Endpoint paths of the feed API.
const (
	PathKPI         = "/api/kpi"
	PathPredictions = "/api/predictions"
	PathSchedule    = "/api/schedule"
	PathAnomalies   = "/api/anomalies"
	PathRanking     = "/api/ranking"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the feed API. A zero timeout means none.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health: %s", ErrNetwork, resp.Status)
	}
	return nil
}

func (c *Client) KPI(ctx context.Context) (*domain.KPISnapshot, error) {
	var out domain.KPISnapshot
	if err := c.getJSON(ctx, PathKPI, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Predictions(ctx context.Context) ([]domain.PredictionPoint, error) {
	var out []domain.PredictionPoint
	if err := c.getJSON(ctx, PathPredictions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Schedule(ctx context.Context) ([]domain.ScheduleSlot, error) {
	var out []domain.ScheduleSlot
	if err := c.getJSON(ctx, PathSchedule, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Anomalies(ctx context.Context) (*domain.AnomalyFeed, error) {
	var out domain.AnomalyFeed
	if err := c.getJSON(ctx, PathAnomalies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Ranking(ctx context.Context) (*domain.StationRanking, error) {
	var out domain.StationRanking
	if err := c.getJSON(ctx, PathRanking, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s: %s", ErrNetwork, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrMalformed, path, err)
	}
	return nil
}
