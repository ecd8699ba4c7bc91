package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-scout/app/api"
	"github.com/lysyi3m/rss-scout/app/cache"
	"github.com/lysyi3m/rss-scout/app/cfg"
	"github.com/lysyi3m/rss-scout/app/config"
	"github.com/lysyi3m/rss-scout/app/feed"
	"github.com/lysyi3m/rss-scout/app/fetch"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	db, err := cache.NewConnection(appCfg.CachePath)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer db.Close()

	feedRepo := cache.NewFeedRepository(db)
	recordRepo := cache.NewRecordRepository(db)

	if appCfg.Serve {
		runServer(appCfg, feedRepo, recordRepo)
		return
	}

	// A configured feed alias can stand in for the URL.
	feedURL := appCfg.URL
	timeout := appCfg.Timeout
	extractContent := appCfg.ExtractContent
	if configs, err := config.NewLoader(appCfg.FeedsDir).LoadAll(); err != nil {
		log.Fatalf("Failed to load feed aliases: %v", err)
	} else if feedConfig, ok := configs[appCfg.URL]; ok {
		slog.Debug("Resolved feed alias", "name", appCfg.URL, "url", feedConfig.Feed.URL)
		feedURL = feedConfig.Feed.URL
		timeout = feedConfig.Settings.Timeout
		extractContent = extractContent || feedConfig.Settings.ExtractContent
	}

	client := fetch.NewClient(time.Duration(timeout)*time.Second, appCfg.UserAgent)
	normalizer := feed.NewNormalizer(feed.NewTypeResolver(client))

	ctx := context.Background()

	var records []*feed.Record
	if appCfg.Date != "" {
		records = loadCached(normalizer, feedRepo, recordRepo, feedURL, appCfg.Date)
	} else {
		records = fetchLive(ctx, client, normalizer, feedRepo, recordRepo, feedURL, extractContent)
	}

	if appCfg.Limit > 0 && len(records) > appCfg.Limit {
		records = records[:appCfg.Limit]
	}

	if appCfg.JSON {
		printJSON(records)
		return
	}

	renderer := feed.NewRenderer(appCfg.Colorize)
	for _, record := range records {
		fmt.Println(renderer.Run(record))
		fmt.Println()
	}
}

// fetchLive fetches the feed document, normalizes every item and caches
// each resulting record. Malformed items are skipped; the feed continues.
func fetchLive(ctx context.Context, client *fetch.Client, normalizer *feed.Normalizer,
	feedRepo *cache.FeedRepository, recordRepo *cache.RecordRepository,
	feedURL string, extractContent bool) []*feed.Record {

	data, err := client.Get(ctx, feedURL)
	if err != nil {
		log.Fatalf("An error occurred while fetching the specified URL. Check the URL and your internet connection: %v", err)
	}

	feedTitle, fragments, err := feed.NewSource().Run(data)
	if err != nil {
		log.Fatalf("Specified URL does not contain a valid RSS/Atom feed: %v", err)
	}
	slog.Debug("Feed parsed", "title", feedTitle, "items", len(fragments))

	if err := feedRepo.UpsertFeed(feedURL, feedTitle); err != nil {
		slog.Warn("Failed to register feed in cache", "url", feedURL, "error", err)
	}

	extractor := feed.NewContentExtractor()

	var records []*feed.Record
	for _, fragment := range fragments {
		record, err := normalizer.FromRaw(ctx, feedTitle, fragment)
		if err != nil {
			slog.Warn("Skipping malformed item", "title", fragment.Title, "error", err)
			continue
		}

		if extractContent {
			record.Content = extractArticle(ctx, client, extractor, record.URL)
		}

		if err := recordRepo.StoreRecord(feedURL, record.Date, record.ToStructured()); err != nil {
			slog.Warn("Failed to cache item", "url", record.URL, "error", err)
		}

		records = append(records, record)
	}

	return records
}

// loadCached rebuilds records for one publication day from the cache,
// skipping corrupted payloads.
func loadCached(normalizer *feed.Normalizer, feedRepo *cache.FeedRepository,
	recordRepo *cache.RecordRepository, feedURL, day string) []*feed.Record {

	feedTitle, err := feedRepo.GetFeedTitle(feedURL)
	if err != nil {
		log.Fatalf("Failed to read cache: %v", err)
	}
	if feedTitle == "" {
		log.Fatalf("No cached data found for %s. Fetch the feed at least once before using --date", feedURL)
	}

	cached, err := recordRepo.GetRecords(feedURL, day)
	if err != nil {
		log.Fatalf("Failed to read cache: %v", err)
	}
	if len(cached) == 0 {
		log.Fatalf("No cached items found for %s on %s", feedURL, day)
	}

	var records []*feed.Record
	for _, item := range cached {
		record, err := normalizer.FromCached(feedTitle, item.Payload)
		if err != nil {
			slog.Warn("Skipping unreadable cached item", "url", item.ItemURL, "error", err)
			continue
		}
		records = append(records, record)
	}

	return records
}

func extractArticle(ctx context.Context, client *fetch.Client, extractor *feed.ContentExtractor, url string) string {
	data, err := client.Get(ctx, url)
	if err != nil {
		slog.Warn("Failed to fetch article", "url", url, "error", err)
		return ""
	}

	content, err := extractor.Run(data)
	if err != nil {
		slog.Warn("Failed to extract article content", "url", url, "error", err)
		return ""
	}

	return content
}

func printJSON(records []*feed.Record) {
	structured := make([]feed.StructuredRecord, 0, len(records))
	for _, record := range records {
		structured = append(structured, record.ToStructured())
	}

	data, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal records: %v", err)
	}

	fmt.Println(string(data))
}

// runServer exposes the cache over HTTP until interrupted.
func runServer(appCfg *cfg.Cfg, feedRepo *cache.FeedRepository, recordRepo *cache.RecordRepository) {
	handler := api.NewHandler(feedRepo, recordRepo, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  List feeds:    http://localhost:%s/feeds", appCfg.Port)
		log.Printf("  Records:       http://localhost:%s/records?url=<feed-url>&date=<YYYYMMDD>", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}
}
