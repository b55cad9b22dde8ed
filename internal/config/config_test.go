package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: {}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("HTTPPort = %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Dataset.TTL != DefaultDatasetTTL {
		t.Errorf("Dataset.TTL = %v, want %v", cfg.Server.Dataset.TTL, DefaultDatasetTTL)
	}
	if cfg.Server.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("BroadcastInterval = %v", cfg.Server.BroadcastInterval)
	}
	if cfg.LLM.Timeout != DefaultLLMTimeout {
		t.Errorf("LLM.Timeout = %v", cfg.LLM.Timeout)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  http_port: 9090
  auth:
    mode: apikey
    key_env: HEALTHBOARD_API_KEY
  dataset:
    ttl: 1h
  broadcast_interval: 10s
  alerts:
    rules:
      - name: low-score
        condition: "score < 40"
        severity: critical
        cooldown: 30m
    webhooks:
      - type: slack
        url_env: SLACK_WEBHOOK_URL
llm:
  provider: gemini
  model: gemini-2.5-flash
  timeout: 20s
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", cfg.Server.HTTPPort)
	}
	if cfg.Server.Dataset.TTL != time.Hour {
		t.Errorf("TTL = %v", cfg.Server.Dataset.TTL)
	}
	if len(cfg.Server.Alerts.Rules) != 1 || cfg.Server.Alerts.Rules[0].Cooldown != 30*time.Minute {
		t.Errorf("Rules = %+v", cfg.Server.Alerts.Rules)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  http_port: 99999\n"},
		{"bad auth mode", "server:\n  auth:\n    mode: oauth\n"},
		{"negative ttl", "server:\n  dataset:\n    ttl: -5m\n"},
		{"zero ttl", "server:\n  dataset:\n    ttl: 0s\n"},
		{"bad llm provider", "llm:\n  provider: llama\n"},
		{"rule without name", "server:\n  alerts:\n    rules:\n      - condition: \"score < 40\"\n"},
		{"rule without condition", "server:\n  alerts:\n    rules:\n      - name: x\n"},
		{"bad webhook type", "server:\n  alerts:\n    webhooks:\n      - type: carrier-pigeon\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Error("want validation error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestWatchAlerts_AppliesRuleChanges(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan AlertsConfig, 1)
	go func() {
		_ = WatchAlerts(ctx, path, func(a AlertsConfig) {
			select {
			case applied <- a:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before the save.
	time.Sleep(50 * time.Millisecond)

	next := `
server:
  alerts:
    rules:
      - name: low-score
        condition: "score < 40"
        severity: critical
`
	if err := os.WriteFile(path, []byte(next), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case a := <-applied:
		if len(a.Rules) != 1 || a.Rules[0].Name != "low-score" {
			t.Errorf("applied rules = %+v", a.Rules)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("alert rules were not applied after config save")
	}
}

func TestWatchAlerts_KeepsRulesOnBadSave(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan AlertsConfig, 4)
	go func() {
		_ = WatchAlerts(ctx, path, func(a AlertsConfig) { applied <- a })
	}()
	time.Sleep(50 * time.Millisecond)

	// Invalid YAML must be rejected without invoking apply.
	if err := os.WriteFile(path, []byte(":: not yaml ::"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case a := <-applied:
		t.Errorf("apply called for an invalid save: %+v", a)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestAuthConfig_Helpers(t *testing.T) {
	t.Setenv("TEST_HB_KEY", "secret")
	a := AuthConfig{Mode: "apikey", KeyEnv: "TEST_HB_KEY"}
	if a.Key() != "secret" {
		t.Errorf("Key = %q", a.Key())
	}
	if a.EffectiveHeader() != "x-api-key" {
		t.Errorf("EffectiveHeader = %q", a.EffectiveHeader())
	}
	a.Header = "x-token"
	if a.EffectiveHeader() != "x-token" {
		t.Errorf("EffectiveHeader = %q", a.EffectiveHeader())
	}
}
