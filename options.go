package seriedex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string // "file" or "redis"
	cacheDir string
	addrs    []string
	password string

	baseURL    string
	requestGap time.Duration
	userAgent  string

	maxAge  time.Duration
	offline bool
	records []Record

	logger *zap.Logger
}

// WithCacheDir sets the directory for the file-backed catalog snapshot.
// Defaults to the user cache directory.
func WithCacheDir(dir string) Option {
	return func(c *clientConfig) {
		c.driver = "file"
		c.cacheDir = dir
	}
}

// WithRedis stores the catalog snapshot in a Redis instance instead of a
// local file, so several processes share one download.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithBaseURL overrides the BCRP API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithRequestGap sets the minimum delay between upstream requests.
// Default: 500ms.
func WithRequestGap(gap time.Duration) Option {
	return func(c *clientConfig) {
		c.requestGap = gap
	}
}

// WithUserAgent overrides the User-Agent sent to the upstream.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithMaxAge sets the snapshot age after which the catalog is considered
// stale. Default: 7 days.
func WithMaxAge(age time.Duration) Option {
	return func(c *clientConfig) {
		c.maxAge = age
	}
}

// WithOffline disables upstream catalog downloads. New then fails unless a
// snapshot already exists in the store.
func WithOffline() Option {
	return func(c *clientConfig) {
		c.offline = true
	}
}

// WithRecords builds the catalog from a fixed record set instead of the BCRP
// metadata download. No snapshot store is used.
func WithRecords(records []Record) Option {
	return func(c *clientConfig) {
		c.records = records
	}
}

// WithLogger enables structured logging for client operations.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
