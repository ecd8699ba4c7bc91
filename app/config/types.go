package config

// FeedConfig is one feed alias file: a named feed URL with per-feed
// settings overriding the process defaults.
type FeedConfig struct {
	Feed struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"feed"`
	Settings struct {
		Timeout        int  `yaml:"timeout"` // seconds
		ExtractContent bool `yaml:"extract_content"`
	} `yaml:"settings"`
}
