package cfg

import "time"

type Cfg struct {
	// Positional arguments
	FeedPath        string
	CredentialsPath string

	// Migration behaviour
	Assume      string
	LogFile     string
	Footer      string
	PlatformTag string
	DryRun      bool

	// Destination API
	APIURL    string
	Timeout   int // seconds
	UserAgent string

	// Optional outputs
	HistoryDB   string
	MetricsFile string

	// Application metadata
	Debug       bool
	ShowVersion bool
	Version     string
}

// GetTimeout returns the API timeout as time.Duration
func (c *Cfg) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}
