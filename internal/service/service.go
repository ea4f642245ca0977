package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// FeedStore persists feed documents. Implemented by repository.Repos
// (Postgres) and cloud.DynamoDBClient.
type FeedStore interface {
	PutFeed(ctx context.Context, doc domain.FeedDocument) error
	GetFeed(ctx context.Context, feed domain.Feed) (*domain.FeedDocument, error)
	ListFeeds(ctx context.Context) ([]domain.FeedDocument, error)
}

type Services struct {
	Feeds  *FeedService
	Ingest *IngestService
}

func New(store FeedStore, topicPrefix string) *Services {
	return &Services{
		Feeds:  &FeedService{store: store},
		Ingest: &IngestService{store: store, prefix: topicPrefix, now: time.Now},
	}
}

// FeedService answers the feed API from stored documents.
type FeedService struct {
	store FeedStore
}

// Payload returns the stored document of a feed verbatim.
func (s *FeedService) Payload(ctx context.Context, feed domain.Feed) (json.RawMessage, error) {
	doc, err := s.store.GetFeed(ctx, feed)
	if err != nil {
		return nil, err
	}
	return doc.Payload, nil
}

// AnomalyResponse is the combined rule + ML anomaly document.
type AnomalyResponse struct {
	RuleBased []json.RawMessage `json:"rule_based"`
	MLBased   []json.RawMessage `json:"ml_based"`
	Stats     json.RawMessage   `json:"stats"`
	Total     int               `json:"total"`
}

// Anomalies merges the rule-based list, the ML list and their stats. Each
// part is optional and defaults to empty.
func (s *FeedService) Anomalies(ctx context.Context) (*AnomalyResponse, error) {
	out := &AnomalyResponse{
		RuleBased: []json.RawMessage{},
		MLBased:   []json.RawMessage{},
		Stats:     json.RawMessage(`{}`),
	}

	if err := s.optionalList(ctx, domain.FeedAnomalies, &out.RuleBased); err != nil {
		return nil, err
	}
	if err := s.optionalList(ctx, domain.FeedMLAnomalies, &out.MLBased); err != nil {
		return nil, err
	}

	stats, err := s.store.GetFeed(ctx, domain.FeedAnomalyStats)
	switch {
	case errors.Is(err, domain.ErrFeedNotFound):
	case err != nil:
		return nil, err
	default:
		out.Stats = stats.Payload
	}

	out.Total = len(out.RuleBased) + len(out.MLBased)
	return out, nil
}

func (s *FeedService) optionalList(ctx context.Context, feed domain.Feed, dst *[]json.RawMessage) error {
	doc, err := s.store.GetFeed(ctx, feed)
	if errors.Is(err, domain.ErrFeedNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(doc.Payload, &items); err != nil {
		return fmt.Errorf("feed %s is not a list: %w", feed, err)
	}
	if items != nil {
		*dst = items
	}
	return nil
}

// MissingFeeds lists required feeds that have never been stored.
func (s *FeedService) MissingFeeds(ctx context.Context) ([]domain.Feed, error) {
	docs, err := s.store.ListFeeds(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[domain.Feed]bool, len(docs))
	for _, d := range docs {
		have[d.Feed] = true
	}
	var missing []domain.Feed
	for _, f := range domain.Feeds {
		if f.Required() && !have[f] {
			missing = append(missing, f)
		}
	}
	return missing, nil
}
