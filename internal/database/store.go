package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/cloud"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/repository"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/service"
)

// OpenFeedStore returns the store selected by FEED_STORE and a func that
// releases it.
func OpenFeedStore(ctx context.Context) (service.FeedStore, func(), error) {
	switch kind := config.FeedStore(); kind {
	case "postgres":
		db, err := Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		repos := repository.New(db)
		if err := repos.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Str("store", kind).Msg("feed store ready")
		return repos, func() { _ = db.Close() }, nil

	case "dynamodb":
		client, err := cloud.NewDynamoDBClient(ctx, config.AWSRegion(), config.DynamoDBTable())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("store", kind).Str("table", config.DynamoDBTable()).Msg("feed store ready")
		return client, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown FEED_STORE %q", kind)
	}
}
