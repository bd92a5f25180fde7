package client

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/relq/dialect/sql"
)

// Environment variables overriding the configuration file.
const (
	EnvDialect       = "RELQ_DIALECT"
	EnvDSN           = "RELQ_DSN"
	EnvDebug         = "RELQ_DEBUG"
	EnvSlowThreshold = "RELQ_SLOW_THRESHOLD"
)

// Config is the file form of the client configuration.
//
//	dialect: sqlite
//	dsn: file:blog.db?_pragma=foreign_keys(1)
//	debug: true
//	slow_threshold: 250ms
type Config struct {
	// Dialect is the database/sql driver name: sqlite, postgres or mysql.
	Dialect string `yaml:"dialect"`
	// DSN is the data source name passed to the driver.
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
	// SlowThreshold enables statement statistics when set. Statements
	// slower than it are logged.
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

// LoadConfig reads the configuration at path and applies the environment
// overrides. An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("relq: reading config: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("relq: parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDialect); ok {
		c.Dialect = v
	}
	if v, ok := lookup(EnvDSN); ok {
		c.DSN = v
	}
	if v, ok := lookup(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("relq: invalid %s: %w", EnvDebug, err)
		}
		c.Debug = b
	}
	if v, ok := lookup(EnvSlowThreshold); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("relq: invalid %s: %w", EnvSlowThreshold, err)
		}
		c.SlowThreshold = d
	}
	return nil
}

// Validate reports missing or invalid settings.
func (c *Config) Validate() error {
	switch {
	case c.Dialect == "":
		return errors.New("relq: config: dialect is required")
	case c.DSN == "":
		return errors.New("relq: config: dsn is required")
	case c.SlowThreshold < 0:
		return fmt.Errorf("relq: config: slow_threshold must be >= 0, got %s", c.SlowThreshold)
	}
	return nil
}

// Options returns the client options the configuration implies.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Debug {
		opts = append(opts, Debug())
	}
	if c.SlowThreshold > 0 {
		opts = append(opts, WithStats(sql.WithSlowThreshold(c.SlowThreshold)))
	}
	return opts
}

// OpenConfig opens a client from cfg. The database/sql driver of the
// dialect must be registered by the caller, e.g. with a blank import.
func OpenConfig(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Open(cfg.Dialect, cfg.DSN, append(cfg.Options(), opts...)...)
}
