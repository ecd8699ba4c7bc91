package cache

import "time"

// Feed is one row of the feeds table: the identity under which records are
// cached.
type Feed struct {
	URL       string
	Title     string
	UpdatedAt time.Time
}

// CachedRecord is one persisted record payload together with its cache key
// columns.
type CachedRecord struct {
	FeedURL      string
	ItemURL      string
	PublishedDay string
	PublishedAt  time.Time
	Payload      []byte
}
