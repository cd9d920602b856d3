package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "goserver.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:8080" || cfg.MaxSessions != 0 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
addr = "0.0.0.0:9090"
root = "/srv/www"
max_sessions = 64
log_format = "json"
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "0.0.0.0:9090" || cfg.Root != "/srv/www" || cfg.MaxSessions != 64 || cfg.LogFormat != "json" {
		t.Errorf("got %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.ReadChunk != DefaultConfig().ReadChunk || cfg.LogLevel != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_errors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"unknown key", `listen = "x"`, "unknown keys"},
		{"bad addr", `addr = "nowhere"`, "Addr"},
		{"bad chunk", `read_chunk = 0`, "ReadChunk"},
		{"negative sessions", `max_sessions = -1`, "MaxSessions"},
		{"bad level", `log_level = "loud"`, "LogLevel"},
		{"bad metrics addr", `metrics_addr = "x"`, "MetricsAddr"},
		{"not toml", `addr = `, "goserver.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
