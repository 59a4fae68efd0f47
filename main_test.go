package main

import (
	"os"
	"testing"
)

func TestCLILogConfig_WritesToStderr(t *testing.T) {
	tests := []struct {
		debug bool
		level string
	}{
		{false, "info"},
		{true, "debug"},
	}

	for _, tt := range tests {
		cfg := cliLogConfig(tt.debug)
		if cfg.Output != "stderr" {
			t.Errorf("debug=%v: expected stderr output, got %q", tt.debug, cfg.Output)
		}
		if cfg.Level != tt.level {
			t.Errorf("debug=%v: expected level %s, got %s", tt.debug, tt.level, cfg.Level)
		}
	}
}

func TestExampleFixture_Exists(t *testing.T) {
	if _, err := os.Stat(exampleFixture); err != nil {
		t.Fatalf("Usage points to a missing fixture: %v", err)
	}
	if _, err := buildSource("", "", exampleFixture, 0, 0); err != nil {
		t.Errorf("Failed to load the example fixture: %v", err)
	}
}
