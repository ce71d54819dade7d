// Package config loads the hxhydrate CLI settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pthm/hxhydrate/lib/encoding"
)

// Config holds the settings shared by the CLI commands. Command-line flags
// override the environment.
type Config struct {
	// BaseURL resolves relative component references. For serve it is also
	// the address the prerenderer calls back into; empty means the listen
	// address on localhost.
	BaseURL   string `env:"HXHYDRATE_BASE_URL"`
	Addr      string `env:"HXHYDRATE_ADDR" envDefault:":8080"`
	FormCodec string `env:"HXHYDRATE_FORM_CODEC" envDefault:"cbor"`
	MaxDepth  int    `env:"HXHYDRATE_MAX_DEPTH" envDefault:"0"`
	LogLevel  string `env:"HXHYDRATE_LOG_LEVEL" envDefault:"info"`
	Trace     bool   `env:"HXHYDRATE_TRACE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Base parses BaseURL. An empty BaseURL yields nil.
func (c Config) Base() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url %q must be absolute", c.BaseURL)
	}
	return u, nil
}

// Codec returns the form codec named by FormCodec.
func (c Config) Codec() (encoding.FormCodec, error) {
	switch strings.ToLower(c.FormCodec) {
	case "", "cbor":
		return encoding.CBOR, nil
	case "msgpack":
		return encoding.MsgPack, nil
	}
	return nil, fmt.Errorf("unknown form codec %q (want cbor or msgpack)", c.FormCodec)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
