package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// rootFlags are the flags every subcommand shares.
type rootFlags struct {
	configPath string
	apiURL     string
	theme      string
	logLevel   string
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. User config file (~/.config/tarefas/tarefas.toml)
// 3. Project config file (./tarefas.toml)
// 4. File named by -config
// 5. Environment variables
// 6. CLI flags
//
// It returns the positional arguments left after the root flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tarefas", flag.ContinueOnError)
	}
	cfg := &Config{}
	setDefaults(cfg)

	var rf rootFlags
	fs.StringVar(&rf.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&rf.apiURL, "api", "", "backing store base URL")
	fs.StringVar(&rf.theme, "theme", "", "light or dark")
	fs.StringVar(&rf.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	files := []string{userConfigFile(), projectConfigFile()}
	for _, p := range files {
		if p == "" {
			continue
		}
		if err := loadConfigFile(cfg, p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
		cfg.ConfigFiles = append(cfg.ConfigFiles, p)
	}
	if rf.configPath != "" {
		p := expandPath(rf.configPath)
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
		cfg.ConfigFiles = append(cfg.ConfigFiles, p)
	}

	loadFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.APIURL = rf.apiURL
		case "theme":
			cfg.Theme = rf.theme
		case "log-level":
			cfg.LogLevel = rf.logLevel
		}
	})

	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Server.Data = expandPath(cfg.Server.Data)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// loadConfigFile decodes TOML over the values already in cfg.
func loadConfigFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TAREFAS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TAREFAS_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TAREFAS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TAREFAS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TAREFAS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TAREFAS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TAREFAS_SERVER_BACKEND"); v != "" {
		cfg.Server.Backend = v
	}
	if v := os.Getenv("TAREFAS_SERVER_DATA"); v != "" {
		cfg.Server.Data = v
	}
}
