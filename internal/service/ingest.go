package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

var (
	ErrUnknownFeed = errors.New("unknown feed")
	ErrInvalidJSON = errors.New("payload is not valid JSON")
)

// FeedTopic is the MQTT topic a feed is published on.
func FeedTopic(prefix string, feed domain.Feed) string {
	return strings.TrimRight(prefix, "/") + "/" + string(feed)
}

// SubscriptionTopic matches every feed under prefix.
func SubscriptionTopic(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/+"
}

// IngestService stores feed documents published by the analytics pipeline.
type IngestService struct {
	store  FeedStore
	prefix string
	now    func() time.Time
}

// FromMQTT stores the payload under the feed named by the topic's last segment.
func (s *IngestService) FromMQTT(ctx context.Context, topic string, payload []byte) (domain.Feed, error) {
	base := strings.TrimRight(s.prefix, "/") + "/"
	name, ok := strings.CutPrefix(topic, base)
	if !ok || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: topic %q", ErrUnknownFeed, topic)
	}
	feed, ok := domain.ParseFeed(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeed, name)
	}
	if !json.Valid(payload) {
		return feed, fmt.Errorf("%w: feed %s", ErrInvalidJSON, feed)
	}

	doc := domain.FeedDocument{Feed: feed, Payload: payload, UpdatedAt: s.now().UTC()}
	if err := s.store.PutFeed(ctx, doc); err != nil {
		return feed, err
	}
	return feed, nil
}

// LoadFeedFiles reads the pipeline output files found in dir. Feeds whose
// file is absent are returned in missing.
func LoadFeedFiles(dir string) (docs []domain.FeedDocument, missing []domain.Feed, err error) {
	for _, feed := range domain.Feeds {
		path := filepath.Join(dir, feed.File())
		b, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, feed)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		if !json.Valid(b) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidJSON, path)
		}
		docs = append(docs, domain.FeedDocument{Feed: feed, Payload: b})
	}
	return docs, missing, nil
}
