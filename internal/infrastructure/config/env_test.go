package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected default addr ':8080', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.Hub.SweepInterval != 30*time.Second {
		t.Errorf("Expected sweep interval 30s, got %v", cfg.Hub.SweepInterval)
	}
	if cfg.Hub.Timeout != 60*time.Second {
		t.Errorf("Expected timeout 60s, got %v", cfg.Hub.Timeout)
	}
	if cfg.Chat.SatisfactionThreshold != 85 {
		t.Errorf("Expected threshold 85, got %d", cfg.Chat.SatisfactionThreshold)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SSE_TIMEOUT", "2m")
	t.Setenv("SSE_SINK_BUFFER", "8")

	cfg := Load()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected addr ':9090', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.Hub.Timeout != 2*time.Minute {
		t.Errorf("Expected timeout 2m, got %v", cfg.Hub.Timeout)
	}
	if cfg.Hub.SinkBuffer != 8 {
		t.Errorf("Expected sink buffer 8, got %d", cfg.Hub.SinkBuffer)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SSE_SWEEP_INTERVAL", "soon")
	t.Setenv("CHAT_MAX_TURNS", "many")

	cfg := Load()

	if cfg.Hub.SweepInterval != 30*time.Second {
		t.Errorf("Expected fallback sweep interval, got %v", cfg.Hub.SweepInterval)
	}
	if cfg.Chat.MaxTurns != 12 {
		t.Errorf("Expected fallback max turns, got %d", cfg.Chat.MaxTurns)
	}
}
