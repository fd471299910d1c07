package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8787 || cfg.Server.GRPCPort != 8788 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.History.Backend != BackendMemory || cfg.History.Limit != 100 {
		t.Errorf("unexpected history defaults: %+v", cfg.History)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.HTTPAddr() != "0.0.0.0:8787" {
		t.Errorf("HTTPAddr = %s", cfg.HTTPAddr())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "quickcalc.yaml", `
server:
  port: 9000
history:
  backend: sqlite
  path: /tmp/h.db
display:
  theme: dark
  palette: nord
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.GRPCPort != 8788 {
		t.Errorf("grpc port default not applied: %d", cfg.Server.GRPCPort)
	}
	if cfg.History.Backend != BackendSQLite || cfg.History.Path != "/tmp/h.db" {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Display.Palette != "nord" || cfg.Display.Theme != "dark" {
		t.Errorf("display = %+v", cfg.Display)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "quickcalc.toml", `
[server]
host = "127.0.0.1"
grpc_port = 9100

[history]
limit = 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.GRPCPort != 9100 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.History.Limit != 5 {
		t.Errorf("limit = %d, want 5", cfg.History.Limit)
	}
	if cfg.GRPCAddr() != "127.0.0.1:9100" {
		t.Errorf("GRPCAddr = %s", cfg.GRPCAddr())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "c.json", "{}")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Load(writeFile(t, "c.yaml", "server: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
	if _, err := Load(writeFile(t, "c.toml", "[server\n")); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("HOST", "localhost")
	t.Setenv("QUICKCALC_HISTORY", "sqlite")
	t.Setenv("QUICKCALC_HISTORY_PATH", "/var/lib/quickcalc.db")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Server.Port != 9999 || cfg.Server.Host != "localhost" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.History.Backend != BackendSQLite || cfg.History.Path != "/var/lib/quickcalc.db" {
		t.Errorf("history = %+v", cfg.History)
	}

	t.Setenv("GRPC_PORT", "not-a-port")
	if err := Default().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric GRPC_PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"grpc port", func(c *Config) { c.Server.GRPCPort = -1 }},
		{"backend", func(c *Config) { c.History.Backend = "redis" }},
		{"limit", func(c *Config) { c.History.Limit = -3 }},
		{"theme", func(c *Config) { c.Display.Theme = "sepia" }},
		{"palette", func(c *Config) { c.Display.Palette = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
