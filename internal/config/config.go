package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config is parsed from flags and HABITGRID_* environment variables.
type Config struct {
	Port            string        `help:"HTTP listen port." env:"HABITGRID_PORT" default:"8080"`
	DBPath          string        `help:"SQLite database path." env:"HABITGRID_DB_PATH" default:"habitgrid.db" name:"db-path"`
	LogLevel        string        `help:"Log level (debug, info, warn, error)." env:"HABITGRID_LOG_LEVEL" default:"info"`
	LogFormat       string        `help:"Log format (text, json)." env:"HABITGRID_LOG_FORMAT" default:"text" enum:"text,json"`
	Timezone        string        `help:"IANA timezone used to decide what day it is." env:"HABITGRID_TIMEZONE" default:"Local"`
	SessionTTL      time.Duration `help:"Lifetime of a login session." env:"HABITGRID_SESSION_TTL" default:"720h" name:"session-ttl"`
	SecureCookies   bool          `help:"Mark session cookies Secure." env:"HABITGRID_SECURE_COOKIES"`
	ViewCacheSize   int           `help:"Maximum number of calendar views kept in memory." env:"HABITGRID_VIEW_CACHE_SIZE" default:"1024"`
	ViewCacheTTL    time.Duration `help:"How long an unused calendar view is kept." env:"HABITGRID_VIEW_CACHE_TTL" default:"2h" name:"view-cache-ttl"`
	CleanupInterval time.Duration `help:"Interval between expired-session sweeps." env:"HABITGRID_CLEANUP_INTERVAL" default:"1h"`
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("database path cannot be empty"))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid session TTL %s: must be positive", c.SessionTTL))
	}
	if c.ViewCacheSize < 1 {
		errs = append(errs, fmt.Errorf("invalid view cache size %d: must be at least 1", c.ViewCacheSize))
	}
	if c.ViewCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid view cache TTL %s: must be positive", c.ViewCacheTTL))
	}
	if c.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid cleanup interval %s: must be positive", c.CleanupInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}
