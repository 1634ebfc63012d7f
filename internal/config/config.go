package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name, used for XDG directory paths.
	AppName = "sitegraph"

	// DefaultTimeout is the per-request HTTP timeout. 30 seconds is
	// generous for ordinary websites while keeping a stuck crawl bounded.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages caps how many pages a single crawl fetches. The cap
	// stops runaway crawls on sites that generate pages endlessly; 0 would
	// mean no cap. Override with --max-pages.
	DefaultMaxPages = 1000

	// DefaultBatchSize is the number of concurrent crawls when several
	// root URLs are given. Each crawl is sequential internally, so this
	// only spreads independent sites across goroutines.
	DefaultBatchSize = 4

	// DefaultOutput is the node-link document written after a single-root
	// crawl when no output path is given.
	DefaultOutput = "sitegraph.json"

	// DefaultTopN is how many rows the report's ranked tables carry.
	DefaultTopN = 10
)

// Config holds all options for a crawl run. It is populated from CLI flags
// and the optional config file, then passed down by dependency injection.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Roots are the URLs to crawl, one graph per root.
	Roots []string

	// Timeout is the HTTP timeout for each page fetch.
	Timeout time.Duration

	// MaxPages caps the number of pages fetched per crawl. 0 = unlimited.
	MaxPages int

	// UserAgent is the User-Agent header sent with each request.
	// Empty means the fetcher's default.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 means the fetcher's default.
	MaxBodySize int64

	// Output is the node-link document path. Only meaningful with a
	// single root; with several roots each file is named after its host.
	Output string

	// BatchSize is the number of concurrent crawls for multiple roots.
	BatchSize int

	// Archive enables recording the crawl in the SQLite archive.
	Archive bool

	// DataDir is the directory holding the archive database.
	// Defaults to the XDG data directory.
	DataDir string

	// Report enables writing a Markdown summary next to each document.
	Report bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file path. Empty means search
	// for .sitegraph in the working directory and then the home directory.
	ConfigFilePath string

	// Sites holds per-site overrides loaded from the config file.
	Sites *File
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. It also documents what the defaults
// are in one place.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		MaxPages:  DefaultMaxPages,
		BatchSize: DefaultBatchSize,
		Output:    DefaultOutput,
		DataDir:   XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for sitegraph.
// On Linux: ~/.local/share/sitegraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Called once after flag parsing, before any crawling begins.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoot
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if len(c.Roots) > 1 && c.Output != "" && c.Output != DefaultOutput {
		return ErrOutputWithManyRoots
	}
	return nil
}

// SiteOverrides returns the per-site settings for host, merged with the
// config file defaults. Returns a zero value when no config file is loaded.
func (c *Config) SiteOverrides(host string) SiteConfig {
	if c.Sites == nil {
		return SiteConfig{}
	}
	return c.Sites.SiteConfig(host)
}
