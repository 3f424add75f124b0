// Package config resolves tarefas settings from defaults, TOML files,
// TAREFAS_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
)

// Defaults.
const (
	DefaultAPIURL    = "http://localhost:3000"
	DefaultTheme     = "light"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTUILog    = "tarefas.log"

	DefaultServerAddr    = ":3000"
	DefaultServerBackend = "json"
	DefaultJSONData      = "db.json"
	DefaultSQLiteData    = "tarefas.db"

	// ConfigFileName is looked up in the user config dir and the working directory.
	ConfigFileName = "tarefas.toml"
)

// Config holds everything the client and the dev server need.
type Config struct {
	APIURL    string `toml:"api_url"`
	Theme     string `toml:"theme"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	// LogFile is where the interactive UI writes diagnostics.
	// Non-interactive commands log to stderr unless it is set explicitly.
	LogFile string `toml:"log_file"`

	Server ServerConfig `toml:"server"`

	// ConfigFiles lists the files that were read, lowest priority first.
	ConfigFiles []string `toml:"-"`
}

// ServerConfig configures `tarefas serve`.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Backend string `toml:"backend"` // "json" | "sqlite"
	Data    string `toml:"data"`
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Server.Addr = DefaultServerAddr
	cfg.Server.Backend = DefaultServerBackend
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("theme: want light or dark, got %q", c.Theme)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: want debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: want text, json or logfmt, got %q", c.LogFormat)
	}
	switch c.Server.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("server.backend: want json or sqlite, got %q", c.Server.Backend)
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	return nil
}

// DataPath returns the server data file, defaulting per backend.
func (s ServerConfig) DataPath() string {
	if s.Data != "" {
		return s.Data
	}
	if s.Backend == "sqlite" {
		return DefaultSQLiteData
	}
	return DefaultJSONData
}
