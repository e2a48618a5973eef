// Package httpserver serves rendered galleries, their JSON and GeoJSON forms
// and the Prometheus registry over HTTP.
package httpserver

import (
	"fmt"
	"net"
	"time"

	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/logger"
)

// GetLogger returns the httpserver package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("httpserver")
}

// Default constants for the HTTP server.
const (
	DefaultListen          = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second // covers up to three iNaturalist calls
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the HTTP server configuration.
type Config struct {
	Listen string // host:port, empty host binds all interfaces

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:          DefaultListen,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// ConfigFromSettings creates a Config from the application settings. Zero
// timeouts fall back to the defaults.
func ConfigFromSettings(settings *conf.Settings) *Config {
	config := DefaultConfig()
	if settings == nil {
		return config
	}

	ws := settings.WebServer
	if ws.Listen != "" {
		config.Listen = ws.Listen
	}
	if ws.ReadTimeout > 0 {
		config.ReadTimeout = ws.ReadTimeout
	}
	if ws.WriteTimeout > 0 {
		config.WriteTimeout = ws.WriteTimeout
	}
	if ws.ShutdownTimeout > 0 {
		config.ShutdownTimeout = ws.ShutdownTimeout
	}
	return config
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
