package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	Limit          *int   `long:"limit" env:"LIMIT" description:"Print at most N feed items"`
	Date           string `long:"date" env:"DATE" description:"Render cached items published on the given day (YYYYMMDD) instead of fetching"`
	JSON           bool   `long:"json" env:"JSON" description:"Print items as JSON instead of text"`
	Colorize       bool   `long:"colorize" env:"COLORIZE" description:"Colorize text output with ANSI escape codes"`
	ExtractContent bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Fetch each item link and attach readable article text"`
	Verbose        bool   `long:"verbose" env:"VERBOSE" description:"Enable debug logging"`

	CachePath string `long:"cache-path" env:"CACHE_PATH" default:"rss-scout.db" description:"Path to the local cache database"`
	FeedsDir  string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed alias files"`
	Timeout   int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Scout/1.0" description:"User agent string for HTTP requests"`

	Serve bool   `long:"serve" env:"SERVE" description:"Serve cached records over HTTP instead of a one-shot run"`
	Port  string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for serve mode"`

	Args struct {
		URL string `positional-arg-name:"URL" description:"RSS/Atom feed URL, or a feed alias from the feeds directory"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		URL:            raw.Args.URL,
		Date:           raw.Date,
		JSON:           raw.JSON,
		Colorize:       raw.Colorize,
		ExtractContent: raw.ExtractContent,
		Verbose:        raw.Verbose,
		CachePath:      raw.CachePath,
		FeedsDir:       raw.FeedsDir,
		Timeout:        raw.Timeout,
		UserAgent:      raw.UserAgent,
		Serve:          raw.Serve,
		Port:           raw.Port,
		Version:        GetVersion(),
	}

	if raw.Limit != nil {
		if *raw.Limit <= 0 {
			return nil, fmt.Errorf("the limit argument must be greater than zero (%d was passed)", *raw.Limit)
		}
		cfg.Limit = *raw.Limit
	}

	if cfg.Date != "" {
		if _, err := time.Parse("20060102", cfg.Date); err != nil {
			return nil, fmt.Errorf("invalid date %q: the specified date does not match the format YYYYMMDD", cfg.Date)
		}
	}

	if !cfg.Serve && cfg.URL == "" {
		return nil, fmt.Errorf("source URL not specified")
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
