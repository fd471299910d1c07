// Package config loads quickcalc settings from a YAML or TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/quickcalc/pkg/theme"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	History HistoryConfig `yaml:"history" toml:"history"`
	Display DisplayConfig `yaml:"display" toml:"display"`
}

// ServerConfig holds the listen addresses of `quickcalc serve`.
type ServerConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	GRPCPort int    `yaml:"grpc_port" toml:"grpc_port"`
}

// HistoryConfig selects where evaluations are recorded.
type HistoryConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	Path    string `yaml:"path" toml:"path"`
	Limit   int    `yaml:"limit" toml:"limit"`
}

// DisplayConfig holds theme defaults for the web page and the TUI.
type DisplayConfig struct {
	Theme   string `yaml:"theme" toml:"theme"`
	Palette string `yaml:"palette" toml:"palette"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file. The format is chosen by extension:
// .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 8788
	}
	if c.History.Backend == "" {
		c.History.Backend = BackendMemory
	}
	if c.History.Path == "" {
		c.History.Path = "./data/history.db"
	}
	if c.History.Limit == 0 {
		c.History.Limit = 100
	}
	if c.Display.Theme == "" {
		c.Display.Theme = string(theme.PreferSystem)
	}
	if c.Display.Palette == "" {
		c.Display.Palette = theme.DefaultDark
	}
}

// ApplyEnv overrides settings from PORT, GRPC_PORT, HOST, QUICKCALC_HISTORY
// and QUICKCALC_HISTORY_PATH.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("GRPC_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRPC_PORT: %w", err)
		}
		c.Server.GRPCPort = p
	}
	if v := os.Getenv("QUICKCALC_HISTORY"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("QUICKCALC_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	return nil
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	if err := validPort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := validPort("server.grpc_port", c.Server.GRPCPort); err != nil {
		return err
	}
	switch c.History.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("history.backend: unknown backend %q", c.History.Backend)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit: must not be negative, got %d", c.History.Limit)
	}
	if _, err := theme.ParsePreference(c.Display.Theme); err != nil {
		return fmt.Errorf("display.theme: %w", err)
	}
	if _, ok := theme.Lookup(c.Display.Palette); !ok {
		return fmt.Errorf("display.palette: unknown palette %q", c.Display.Palette)
	}
	return nil
}

// HTTPAddr returns host:port for the REST API and web page.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GRPCAddr returns host:port for the gRPC service.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func validPort(field string, p int) error {
	if p < 1 || p > 65535 {
		return fmt.Errorf("%s: port %d out of range", field, p)
	}
	return nil
}
