package aisafety

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Default configuration values.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxPages = 100
	DefaultParallel = 1
	MaxRetries      = 5
)

// Config holds run-wide settings. Zero values mean "use the default".
type Config struct {
	// OutputDir is where output files are written.
	OutputDir string `yaml:"output_dir"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// Delay overrides every publisher's politeness delay when positive.
	Delay time.Duration `yaml:"delay"`

	// MaxPages caps listing pagination.
	MaxPages int `yaml:"max_pages"`

	// Parallel is the number of publishers crawled concurrently.
	// Requests within one publisher are always sequential.
	Parallel int `yaml:"parallel"`

	// Retries is the number of extra attempts for a failed request.
	Retries int `yaml:"retries"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Publishers overrides per-publisher settings by identifier.
	Publishers map[string]PublisherConfig `yaml:"publishers"`
}

// PublisherConfig holds per-publisher overrides.
type PublisherConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir: ".",
		Timeout:   DefaultTimeout,
		MaxPages:  DefaultMaxPages,
		Parallel:  DefaultParallel,
		LogLevel:  "info",
	}
}

// DelayFor returns the politeness delay for a publisher, falling back to
// fallback when neither a per-publisher nor a global override is set.
func (c *Config) DelayFor(publisher string, fallback time.Duration) time.Duration {
	if p, ok := c.Publishers[publisher]; ok && p.Delay > 0 {
		return p.Delay
	}
	if c.Delay > 0 {
		return c.Delay
	}
	return fallback
}

// Validate returns every invalid field as a combined error.
func (c *Config) Validate() error {
	var err error

	if c.Timeout < 0 {
		err = multierror.Append(err, Errorf(EINVALID, "timeout must not be negative"))
	}

	if c.Delay < 0 {
		err = multierror.Append(err, Errorf(EINVALID, "delay must not be negative"))
	}

	if c.MaxPages < 0 {
		err = multierror.Append(err, Errorf(EINVALID, "max pages must not be negative"))
	}

	if c.Parallel < 0 {
		err = multierror.Append(err, Errorf(EINVALID, "parallel must not be negative"))
	}

	if c.Retries < 0 || c.Retries > MaxRetries {
		err = multierror.Append(err, Errorf(EINVALID, "retries must be between 0 and %d", MaxRetries))
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		err = multierror.Append(err, Errorf(EINVALID, "unknown log level %q", c.LogLevel))
	}

	for name, p := range c.Publishers {
		if p.Delay < 0 {
			err = multierror.Append(err, Errorf(EINVALID, "publisher %q delay must not be negative", name))
		}
	}

	return err
}
