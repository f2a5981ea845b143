package server

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultListenAddress is used when no listen address is configured.
	DefaultListenAddress = "localhost:8080"

	// DefaultMaxSourceLen is the default cap on accepted source size, in
	// bytes.
	DefaultMaxSourceLen = 1 << 20

	// DefaultParseTimeout is the default per-request time bound; see
	// Config.ParseTimeoutMS.
	DefaultParseTimeout = 5 * time.Second
)

// Config contains configuration settings for a moray parse server.
type Config struct {
	// ListenAddress is the full address and port the server listens on, in
	// BIND_ADDRESS:PORT format.
	ListenAddress string `toml:"listen"`

	// MaxSourceLen is the maximum number of bytes of source text accepted in
	// one parse request. 0 selects the default.
	MaxSourceLen int `toml:"max_source_len"`

	// ParseTimeoutMS is a per-request time bound in milliseconds. The server
	// adds five seconds to it and uses the sum as the HTTP read timeout for
	// each request; a parse that has started is not interrupted. 0 selects
	// the default.
	ParseTimeoutMS int `toml:"parse_timeout_ms"`
}

// FillDefaults returns a copy of the config with all unset values replaced by
// their defaults.
func (cfg Config) FillDefaults() Config {
	newCfg := cfg

	if newCfg.ListenAddress == "" {
		newCfg.ListenAddress = DefaultListenAddress
	}
	if newCfg.MaxSourceLen == 0 {
		newCfg.MaxSourceLen = DefaultMaxSourceLen
	}
	if newCfg.ParseTimeoutMS == 0 {
		newCfg.ParseTimeoutMS = int(DefaultParseTimeout / time.Millisecond)
	}

	return newCfg
}

// Validate checks that the config holds usable values.
func (cfg Config) Validate() error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen address is empty")
	}
	if cfg.MaxSourceLen < 0 {
		return fmt.Errorf("max source length is negative")
	}
	if cfg.ParseTimeoutMS < 0 {
		return fmt.Errorf("parse timeout is negative")
	}
	return nil
}

// ParseTimeout returns ParseTimeoutMS as a Duration.
func (cfg Config) ParseTimeout() time.Duration {
	return time.Duration(cfg.ParseTimeoutMS) * time.Millisecond
}

// LoadConfig reads a TOML config file from the given path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if tomlErr := toml.Unmarshal(data, &cfg); tomlErr != nil {
		return Config{}, fmt.Errorf("parse config file: %w", tomlErr)
	}

	return cfg, nil
}
