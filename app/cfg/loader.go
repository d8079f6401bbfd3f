package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

const DefaultFooter = `<p><font color="#757575">(Imported from <a href="{soup_link}">soup.io</a>)</font></p>`

// ErrUsage is returned when required positional arguments are missing.
var ErrUsage = errors.New("usage: soublr [OPTIONS] <soup_export.rss> <tumblr_credentials.json>")

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const defaultEnvFile = ".env"

// envFileOpt is parsed ahead of rawCfg: the env file has to be loaded before
// the env-backed options are read.
type envFileOpt struct {
	EnvFile string `long:"env-file" env:"SOUBLR_ENV_FILE" default:".env" description:"Env file loaded before options are read (optional)"`
}

type rawCfg struct {
	Args struct {
		FeedPath        string `positional-arg-name:"soup_export.rss" description:"soup.io RSS export"`
		CredentialsPath string `positional-arg-name:"tumblr_credentials.json" description:"Tumblr API credentials (JSON or YAML)"`
	} `positional-args:"yes"`

	// Migration behaviour
	Assume      string `long:"assume" env:"SOUBLR_ASSUME" description:"Answer for the missing log prompt in non-interactive runs (yes or no)"`
	LogFile     string `long:"log-file" env:"SOUBLR_LOG_FILE" description:"Processed posts log (default: program name with .log extension)"`
	Footer      string `long:"footer" env:"SOUBLR_FOOTER" description:"Footer appended to every post, {soup_link} is replaced by the original link"`
	PlatformTag string `long:"platform-tag" env:"SOUBLR_PLATFORM_TAG" default:"soup.io" description:"Tag added to every post"`
	DryRun      bool   `long:"dry-run" env:"SOUBLR_DRY_RUN" description:"Map items without submitting them"`

	// Destination API
	APIURL    string `long:"api-url" env:"SOUBLR_API_URL" default:"https://api.tumblr.com" description:"Tumblr API base URL"`
	Timeout   int    `long:"timeout" env:"SOUBLR_TIMEOUT" default:"30" description:"Tumblr API request timeout in seconds"`
	UserAgent string `long:"user-agent" env:"SOUBLR_USER_AGENT" default:"soublr/1.0" description:"User agent string for HTTP requests"`

	// Optional outputs
	HistoryDB   string `long:"history-db" env:"SOUBLR_HISTORY_DB" description:"SQLite database recording every submission attempt (optional)"`
	MetricsFile string `long:"metrics-file" env:"SOUBLR_METRICS_FILE" description:"Write run metrics in Prometheus text format to this file (optional)"`

	// Application metadata
	EnvFile     string `long:"env-file" env:"SOUBLR_ENV_FILE" default:".env" description:"Env file loaded before options are read (optional)"`
	Debug       bool   `long:"debug" env:"SOUBLR_DEBUG" description:"Enable debug logging"`
	ShowVersion bool   `long:"version" description:"Show version"`
}

// Load parses command-line arguments and environment variables. It returns
// a nil config without error when help was requested.
func Load(args []string) (*Cfg, error) {
	var envOpt envFileOpt
	if _, err := flags.NewParser(&envOpt, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := loadEnvFile(envOpt.EnvFile); err != nil {
		return nil, err
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.Name = "soublr"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedPath:        raw.Args.FeedPath,
		CredentialsPath: raw.Args.CredentialsPath,
		Assume:          strings.ToLower(strings.TrimSpace(raw.Assume)),
		LogFile:         raw.LogFile,
		Footer:          cmp.Or(raw.Footer, DefaultFooter),
		PlatformTag:     raw.PlatformTag,
		DryRun:          raw.DryRun,
		APIURL:          strings.TrimRight(raw.APIURL, "/"),
		Timeout:         raw.Timeout,
		UserAgent:       raw.UserAgent,
		HistoryDB:       raw.HistoryDB,
		MetricsFile:     raw.MetricsFile,
		Debug:           raw.Debug,
		ShowVersion:     raw.ShowVersion,
		Version:         GetVersion(),
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.FeedPath == "" || cfg.CredentialsPath == "" || len(rest) > 0 {
		return nil, ErrUsage
	}

	switch cfg.Assume {
	case "", "yes", "no":
	case "y":
		cfg.Assume = "yes"
	case "n":
		cfg.Assume = "no"
	default:
		return nil, fmt.Errorf("invalid --assume value %q: expected yes or no", raw.Assume)
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be non-negative")
	}

	if cfg.LogFile == "" && len(os.Args) > 0 {
		cfg.LogFile = DeriveLogPath(os.Args[0])
	}

	return cfg, nil
}

// DeriveLogPath replaces the extension of the program path with .log
func DeriveLogPath(program string) string {
	return strings.TrimSuffix(program, filepath.Ext(program)) + ".log"
}

// loadEnvFile loads path into the environment. Only the default file may be
// missing.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultEnvFile {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
