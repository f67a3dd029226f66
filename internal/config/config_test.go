// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/palisade/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// validConfig returns defaults that pass validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8480 {
		t.Errorf("Server.Port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Detection.FailedLoginThreshold != 5 {
		t.Errorf("Detection.FailedLoginThreshold = %d, want 5", cfg.Detection.FailedLoginThreshold)
	}
	if cfg.Detection.FailedLoginWindow != 15*time.Minute {
		t.Errorf("Detection.FailedLoginWindow = %v, want 15m", cfg.Detection.FailedLoginWindow)
	}
	if cfg.Detection.RiskCacheTTL != time.Hour {
		t.Errorf("Detection.RiskCacheTTL = %v, want 1h", cfg.Detection.RiskCacheTTL)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Notifiers.Webhook.URL != "" || len(cfg.Notifiers.Kafka.Brokers) != 0 {
		t.Error("no notifier should be configured by default")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}

	// Without a secret the jwt default must fail validation.
	if err := cfg.Validate(); err == nil {
		t.Error("defaults without JWT_SECRET should not validate")
	}
	if err := validConfig().Validate(); err != nil {
		t.Errorf("defaults with a secret should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"JWT_SECRET", "security.jwt_secret"},
		{"HTTP_PORT", "server.port"},
		{"FAILED_LOGIN_THRESHOLD", "detection.failed_login_threshold"},
		{"GATE_MAX_BODY_BYTES", "detection.max_body_bytes"},
		{"REDIS_URL", "cluster.redis_url"},
		{"KAFKA_BROKERS", "notifiers.kafka.brokers"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palisade.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got == filepath.Join(dir, "missing.yaml") {
		t.Error("missing CONFIG_PATH file should not be returned")
	}
}

func TestLoadEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("FAILED_LOGIN_THRESHOLD", "3")
	t.Setenv("FAILED_LOGIN_WINDOW", "5m")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "soc.alerts")
	t.Setenv("DISABLE_INJECTION_GUARD", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Detection.FailedLoginThreshold != 3 || cfg.Detection.FailedLoginWindow != 5*time.Minute {
		t.Errorf("failed login = %d/%v", cfg.Detection.FailedLoginThreshold, cfg.Detection.FailedLoginWindow)
	}
	if strings.Join(cfg.Security.TrustedProxies, "|") != "10.0.0.0/8|192.0.2.1" {
		t.Errorf("TrustedProxies = %v", cfg.Security.TrustedProxies)
	}
	if len(cfg.Notifiers.Kafka.Brokers) != 2 {
		t.Errorf("Kafka.Brokers = %v", cfg.Notifiers.Kafka.Brokers)
	}
	if !cfg.Detection.DisableInjectionGuard {
		t.Error("DisableInjectionGuard should be true")
	}

	kc, ok := cfg.KafkaNotifierConfig()
	if !ok || kc.Topic != "soc.alerts" {
		t.Errorf("KafkaNotifierConfig() = %+v, %v", kc, ok)
	}
	if _, ok := cfg.WebhookNotifierConfig(); ok {
		t.Error("webhook should not be configured")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
security:
  auth_mode: jwt
  jwt_secret: "` + testSecret + `"
  cors_origins:
    - https://soc.example.com
detection:
  max_events: 500
  keep_failures_on_success: true
storage:
  backend: badger
  path: /var/lib/palisade
cluster:
  redis_url: redis://cache:6379/0
  sync_interval: 10s
notifiers:
  webhook:
    url: https://hooks.example.com/palisade
    secret: s3cret
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://soc.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	ec := cfg.EngineConfig()
	if ec.MaxEvents != 500 || !ec.KeepFailuresOnSuccess || ec.BlockSyncInterval != 10*time.Second {
		t.Errorf("EngineConfig() = %+v", ec)
	}
	// Untouched values keep their defaults.
	if ec.FailedLoginThreshold != 5 {
		t.Errorf("FailedLoginThreshold = %d, want default 5", ec.FailedLoginThreshold)
	}

	sc := cfg.StoreConfig()
	if sc.Backend != store.BackendBadger || sc.Path != "/var/lib/palisade" || sc.RedisURL != "redis://cache:6379/0" {
		t.Errorf("StoreConfig() = %+v", sc)
	}

	wc, ok := cfg.WebhookNotifierConfig()
	if !ok || wc.URL != "https://hooks.example.com/palisade" || wc.Secret != "s3cret" {
		t.Errorf("WebhookNotifierConfig() = %+v, %v", wc, ok)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 7000\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, env should win over file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, file should win over defaults", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "staging" }, "ENVIRONMENT"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, "AUTH_MODE"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"no auth in development", func(c *Config) { c.Security.AuthMode = "none" }, ""},
		{"no auth in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, "AUTH_MODE=none"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit too low", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"rate window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"bad trusted proxy", func(c *Config) { c.Security.TrustedProxies = []string{"proxy.local"} }, "TRUSTED_PROXIES"},
		{"zero threshold", func(c *Config) { c.Detection.FailedLoginThreshold = 0 }, "FAILED_LOGIN_THRESHOLD"},
		{"retention shorter than window", func(c *Config) { c.Detection.FailedLoginRetention = time.Minute }, "FAILED_LOGIN_RETENTION"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "STORAGE_BACKEND"},
		{"badger without path", func(c *Config) {
			c.Storage.Backend = "badger"
			c.Storage.Path = ""
		}, "STORAGE_PATH"},
		{"bad webhook url", func(c *Config) { c.Notifiers.Webhook.URL = "ftp://hooks.example.com" }, "WEBHOOK_URL"},
		{"kafka without topic", func(c *Config) {
			c.Notifiers.Kafka.Brokers = []string{"kafka:9092"}
			c.Notifiers.Kafka.Topic = ""
		}, "KAFKA_TOPIC"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS with jwt should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://soc.example.com"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}
