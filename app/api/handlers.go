package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-scout/app/cache"
)

type Handler struct {
	feedRepo   *cache.FeedRepository
	recordRepo *cache.RecordRepository
	version    string
}

func NewHandler(feedRepo *cache.FeedRepository, recordRepo *cache.RecordRepository, version string) *Handler {
	return &Handler{
		feedRepo:   feedRepo,
		recordRepo: recordRepo,
		version:    version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds()
	if err != nil {
		slog.Error("Cache error", "operation", "list_feeds", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	list := make([]map[string]interface{}, 0, len(feeds))
	for _, feed := range feeds {
		info := map[string]interface{}{
			"url":        feed.URL,
			"title":      feed.Title,
			"updated_at": feed.UpdatedAt.Format(time.RFC3339),
		}
		if count, err := h.recordRepo.GetRecordCount(feed.URL); err == nil {
			info["record_count"] = count
		}
		list = append(list, info)
	}

	c.JSON(http.StatusOK, gin.H{"feeds": list})
}

// GetRecords returns cached structured records for a feed, optionally
// restricted to one publication day.
func (h *Handler) GetRecords(c *gin.Context) {
	feedURL := c.Query("url")
	if feedURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	day := c.Query("date")
	if day != "" {
		if _, err := time.Parse("20060102", day); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must match the format YYYYMMDD"})
			return
		}
	}

	cached, err := h.recordRepo.GetRecords(feedURL, day)
	if err != nil {
		slog.Error("Cache error", "operation", "get_records", "feed", feedURL, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	records := make([]json.RawMessage, 0, len(cached))
	for _, record := range cached {
		records = append(records, json.RawMessage(record.Payload))
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":    feedURL,
		"records": records,
	})
}
