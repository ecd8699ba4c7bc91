package cache

import (
	"database/sql"
	"fmt"
)

// FeedRepository handles cache operations for feed identities
type FeedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// UpsertFeed registers the feed URL with its current title.
func (r *FeedRepository) UpsertFeed(url, title string) error {
	_, err := r.db.Exec(`
		INSERT INTO feeds (url, title, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			updated_at = CURRENT_TIMESTAMP
	`, url, title)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

// GetFeedTitle returns the cached title for a feed URL, or "" when the feed
// has never been cached.
func (r *FeedRepository) GetFeedTitle(url string) (string, error) {
	var title string
	err := r.db.QueryRow("SELECT title FROM feeds WHERE url = ?", url).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get feed title: %w", err)
	}

	return title, nil
}

// ListFeeds returns all cached feeds ordered by title.
func (r *FeedRepository) ListFeeds() ([]Feed, error) {
	rows, err := r.db.Query("SELECT url, title, updated_at FROM feeds ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		var feed Feed
		if err := rows.Scan(&feed.URL, &feed.Title, &feed.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeedCount returns the number of cached feeds.
func (r *FeedRepository) GetFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}
