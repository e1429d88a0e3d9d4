// Package config loads daemon configuration from the environment with
// logged defaults. Precedence is ENV > defaults; there is no config file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultInstances is the built-in rotation of public Invidious mirrors,
// used when MIRU_INSTANCES is not set.
var DefaultInstances = []string{
	"https://yewtu.be",
	"https://invidious.private.coffee",
	"https://invidious.projectsegfau.lt",
	"https://invidious.f5.si",
	"https://inv.nadeko.net",
	"https://invidious.nerdvpn.de",
	"https://invidious.tiekoetter.com",
	"https://lekker.gay",
	"https://iv.ggtyler.dev",
	"https://iv.melmac.space",
	"https://invidious.perennialte.ch",
	"https://rust.oskamp.nl",
	"https://invidious.fdn.fr",
	"https://inv.vern.cc",
}

// Config holds the full daemon configuration.
type Config struct {
	Listen        string // API listen address
	MetricsListen string // Prometheus listen address ("" disables)
	DataDir       string // directory for the sqlite database

	// Upstream provider pool
	Instances      []string      // provider base URLs, probed in rotation
	ProbeTimeout   time.Duration // per-instance liveness probe budget
	RequestTimeout time.Duration // metadata request budget per provider call

	// Distinguished sources
	TrendingURL     string        // bulk trending source (first tier)
	TrendingTimeout time.Duration // budget for the bulk trending call
	StreamOrigin    string        // custom streaming origin base URL
	StreamTimeout   time.Duration // connect budget for the custom stream tier

	// Locale bias forwarded to providers
	Region string
	Locale string

	// Logging
	LogLevel   string
	LogService string

	// API rate limiting
	RateLimitEnabled bool
	RateLimitRPM     int // requests per minute per client IP
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Listen:        ParseString("MIRU_LISTEN", ":8080"),
		MetricsListen: ParseString("MIRU_METRICS_LISTEN", ":9090"),
		DataDir:       ParseString("MIRU_DATA", "/var/lib/miru"),

		Instances:      ParseStringSlice("MIRU_INSTANCES", DefaultInstances),
		ProbeTimeout:   ParseDuration("MIRU_PROBE_TIMEOUT", 3*time.Second),
		RequestTimeout: ParseDuration("MIRU_REQUEST_TIMEOUT", 10*time.Second),

		TrendingURL:     ParseString("MIRU_TRENDING_URL", "https://siawaseok.duckdns.org/api/trend"),
		TrendingTimeout: ParseDuration("MIRU_TRENDING_TIMEOUT", 15*time.Second),
		StreamOrigin:    ParseString("MIRU_STREAM_ORIGIN", "https://siawaseok.duckdns.org"),
		StreamTimeout:   ParseDuration("MIRU_STREAM_TIMEOUT", 5*time.Second),

		Region: ParseString("MIRU_REGION", "JP"),
		Locale: ParseString("MIRU_LOCALE", "ja"),

		LogLevel:   ParseString("MIRU_LOG_LEVEL", "info"),
		LogService: ParseString("LOG_SERVICE", "miru"),

		RateLimitEnabled: ParseBool("MIRU_RATE_LIMIT_ENABLED", true),
		RateLimitRPM:     ParseInt("MIRU_RATE_LIMIT_RPM", 300),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if len(c.Instances) == 0 {
		return fmt.Errorf("config: at least one provider instance is required")
	}
	for _, inst := range c.Instances {
		if err := validateBaseURL(inst); err != nil {
			return fmt.Errorf("config: instance %q: %w", inst, err)
		}
	}
	if c.StreamOrigin != "" {
		if err := validateBaseURL(c.StreamOrigin); err != nil {
			return fmt.Errorf("config: stream origin %q: %w", c.StreamOrigin, err)
		}
	}
	if c.TrendingURL != "" {
		if _, err := url.ParseRequestURI(c.TrendingURL); err != nil {
			return fmt.Errorf("config: trending URL %q: %w", c.TrendingURL, err)
		}
	}
	if c.ProbeTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}
	if c.RateLimitEnabled && c.RateLimitRPM <= 0 {
		return fmt.Errorf("config: rate limit RPM must be positive when enabled")
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	if strings.HasSuffix(u.Path, "/") && u.Path != "/" {
		return fmt.Errorf("base URL must not end with a slash")
	}
	return nil
}
