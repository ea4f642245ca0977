package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS analytics_feeds (
	feed       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// Repos stores feed documents in SQL. Queries are written with ? and
// rebound for the driver, so the same statements run on Postgres and SQLite.
type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

type feedRow struct {
	Feed      string `db:"feed"`
	Payload   string `db:"payload"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r feedRow) document() domain.FeedDocument {
	return domain.FeedDocument{
		Feed:      domain.Feed(r.Feed),
		Payload:   []byte(r.Payload),
		UpdatedAt: time.Unix(r.UpdatedAt, 0).UTC(),
	}
}

func (r *Repos) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create analytics_feeds: %w", err)
	}
	return nil
}

// PutFeed inserts or replaces the stored document of a feed.
func (r *Repos) PutFeed(ctx context.Context, doc domain.FeedDocument) error {
	q := r.db.Rebind(`INSERT INTO analytics_feeds (feed, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (feed) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, q, string(doc.Feed), string(doc.Payload), doc.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert feed %s: %w", doc.Feed, err)
	}
	return nil
}

func (r *Repos) GetFeed(ctx context.Context, feed domain.Feed) (*domain.FeedDocument, error) {
	var row feedRow
	q := r.db.Rebind(`SELECT feed, payload, updated_at FROM analytics_feeds WHERE feed = ?`)
	err := r.db.GetContext(ctx, &row, q, string(feed))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, feed)
	}
	if err != nil {
		return nil, fmt.Errorf("select feed %s: %w", feed, err)
	}
	doc := row.document()
	return &doc, nil
}

func (r *Repos) ListFeeds(ctx context.Context) ([]domain.FeedDocument, error) {
	var rows []feedRow
	err := r.db.SelectContext(ctx, &rows, `SELECT feed, payload, updated_at FROM analytics_feeds ORDER BY feed`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	out := make([]domain.FeedDocument, len(rows))
	for i, row := range rows {
		out[i] = row.document()
	}
	return out, nil
}
