package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 || cfg.Trends.Geo != "IT" || cfg.Trends.Timeframe != "today 12-m" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Trends.HostLanguage != "it-IT" || cfg.Trends.TimezoneOffset != 60 {
		t.Errorf("Unexpected trends defaults: %+v", cfg.Trends)
	}
	if cfg.Trends.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.Trends.Timeout)
	}

	kw, err := cfg.Keywords.Build()
	if err != nil {
		t.Fatalf("Failed to build keywords: %v", err)
	}
	if names := kw.GroupNames(); len(names) != 5 || names[0] != "risparmio" {
		t.Errorf("Expected reference groups, got %v", names)
	}
	if kw.Weight("banco alimentare") != 2.0 {
		t.Errorf("Expected reference weights, got %v", kw.Weight("banco alimentare"))
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
trends:
  base_url: "https://trends.example.com/api/interest"
  timeframe: "today 3-m"
  geo: "ES"
  host_language: "es-ES"
  retry_delay: 250ms
keywords:
  default_weight: 0.5
  groups:
    - name: ahorro
      keywords: ["como ahorrar", "gastos"]
  weights:
    como ahorrar: 3
export:
  output_dir: /tmp/out
`)

	cfg, err := NewManager().Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Trends.Geo != "ES" || cfg.Trends.RetryDelay != 250*time.Millisecond {
		t.Errorf("Unexpected values: %+v", cfg)
	}
	opts := cfg.Trends.Options()
	if opts.Timeframe != "today 3-m" || opts.Geo != "ES" {
		t.Errorf("Unexpected options: %+v", opts)
	}
	if client := cfg.Trends.ClientConfig(); client.BaseURL != "https://trends.example.com/api/interest" || client.HostLanguage != "es-ES" {
		t.Errorf("Unexpected client config: %+v", client)
	}

	kw, err := cfg.Keywords.Build()
	if err != nil {
		t.Fatalf("Failed to build keywords: %v", err)
	}
	if names := kw.GroupNames(); len(names) != 1 || names[0] != "ahorro" {
		t.Errorf("Unexpected groups: %v", names)
	}
	if kw.Weight("como ahorrar") != 3 || kw.Weight("gastos") != 0.5 {
		t.Errorf("Unexpected weights: %v / %v", kw.Weight("como ahorrar"), kw.Weight("gastos"))
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STRESS_TRENDS_GEO", "DE")
	t.Setenv("STRESS_TRENDS_API_KEY", "secret")
	t.Setenv("STRESS_SERVER_PORT", "7000")

	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Trends.Geo != "DE" || cfg.Trends.APIKey != "secret" || cfg.Server.Port != 7000 {
		t.Errorf("Expected env overrides, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"port", "server:\n  port: 70000\n", "invalid server port"},
		{"language", "trends:\n  host_language: \"not a tag!\"\n", "host_language"},
		{"retries", "trends:\n  max_retries: -1\n", "max_retries"},
		{"empty group", "keywords:\n  groups:\n    - name: empty\n      keywords: []\n", "invalid keyword config"},
		{"default weight", "keywords:\n  default_weight: 0\n", "invalid keyword config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager().Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := NewManager().Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReload(t *testing.T) {
	m := NewManager()
	if err := m.Reload(); err == nil {
		t.Error("Expected error before load")
	}

	path := writeConfig(t, "trends:\n  geo: FR\n")
	if _, err := m.Load(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := os.WriteFile(path, []byte("trends:\n  geo: PT\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}
	if m.GetConfig().Trends.Geo != "PT" {
		t.Errorf("Expected reloaded geo PT, got %s", m.GetConfig().Trends.Geo)
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := NewManager().Load("../../examples/config.yaml")
	if err != nil {
		t.Fatalf("Failed to load example config: %v", err)
	}

	kw, err := cfg.Keywords.Build()
	if err != nil {
		t.Fatalf("Failed to build keywords: %v", err)
	}
	if len(kw.GroupNames()) != 5 || kw.Weight("come pagare debiti") != 1.8 {
		t.Errorf("Example config should match the reference groups")
	}
	if cfg.Trends.Pacing.Seconds() != 2 || cfg.Export.HistorySize != 10 {
		t.Errorf("Unexpected example values: %+v", cfg)
	}
}
