package server

import (
	"net/http"
	"time"

	"github.com/vango-dev/vtree/pkg/render"
)

// Config holds configuration for the inspection server.
type Config struct {
	// Address is the TCP address to listen on.
	// Default: "127.0.0.1:7070".
	Address string

	// ReadHeaderTimeout limits how long reading request headers may take.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum duration for reading an entire request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// MaxBodySize limits request bodies and websocket messages.
	// Default: 1MB.
	MaxBodySize int64

	// SessionReadTimeout closes a live preview session that has been idle
	// this long.
	// Default: 5 minutes.
	SessionReadTimeout time.Duration

	// CheckOrigin validates the Origin header of websocket upgrades.
	// Nil accepts same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	// Render configures the HTML in render responses.
	Render render.RendererConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:            "127.0.0.1:7070",
		ReadHeaderTimeout:  5 * time.Second,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxBodySize:        1 << 20,
		SessionReadTimeout: 5 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.MaxBodySize == 0 {
		out.MaxBodySize = d.MaxBodySize
	}
	if out.SessionReadTimeout == 0 {
		out.SessionReadTimeout = d.SessionReadTimeout
	}
	return &out
}
