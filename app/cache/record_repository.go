package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/rss-scout/app/feed"
)

// dayFormat matches the --date argument format.
const dayFormat = "20060102"

// RecordRepository handles cache operations for normalized records
type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// StoreRecord persists the structured form of a record under its feed URL
// and publication day. A record already cached for the same feed and item
// URL is overwritten.
func (r *RecordRepository) StoreRecord(feedURL string, publishedAt time.Time, record feed.StructuredRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO records (feed_url, item_url, published_day, published_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (feed_url, item_url) DO UPDATE SET
			published_day = excluded.published_day,
			published_at = excluded.published_at,
			payload = excluded.payload
	`, feedURL, record.URL, publishedAt.Format(dayFormat), publishedAt, string(payload))
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}

	return nil
}

// GetRecords returns the cached payloads for a feed, newest first. An empty
// day returns all cached records for the feed; otherwise only records
// published on that day (YYYYMMDD) are returned.
func (r *RecordRepository) GetRecords(feedURL, day string) ([]CachedRecord, error) {
	query := `
		SELECT feed_url, item_url, published_day, published_at, payload
		FROM records
		WHERE feed_url = ?`
	args := []interface{}{feedURL}

	if day != "" {
		query += " AND published_day = ?"
		args = append(args, day)
	}
	query += " ORDER BY published_at DESC, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	var records []CachedRecord
	for rows.Next() {
		var record CachedRecord
		var payload string
		err := rows.Scan(&record.FeedURL, &record.ItemURL, &record.PublishedDay,
			&record.PublishedAt, &payload)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		record.Payload = []byte(payload)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

// GetRecordCount returns the number of cached records for a feed.
func (r *RecordRepository) GetRecordCount(feedURL string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM records WHERE feed_url = ?", feedURL).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get record count: %w", err)
	}
	return count, nil
}
