package cfg

type Cfg struct {
	// Source selection
	URL   string
	Limit int // 0 means all items
	Date  string

	// Output
	JSON     bool
	Colorize bool

	// Behavior
	ExtractContent bool
	Verbose        bool

	// Plumbing
	CachePath string
	FeedsDir  string
	Timeout   int // seconds
	UserAgent string

	// Serve mode
	Serve bool
	Port  string

	Version string
}
