// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/palisade/config.yaml",
	"/etc/palisade/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         "",
			JWTIssuer:         "palisade",
			TokenTTL:          time.Hour,
			AnonymousRole:     "admin",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			Casbin: CasbinConfig{
				ModelPath:      "", // embedded model
				PolicyPath:     "", // embedded policy
				AutoReload:     false,
				ReloadInterval: 30 * time.Second,
				CacheTTL:       5 * time.Minute,
			},
		},
		Detection: DetectionConfig{
			MaxEvents:             10000,
			FailedLoginThreshold:  5,
			FailedLoginWindow:     15 * time.Minute,
			FailedLoginRetention:  time.Hour,
			KeepFailuresOnSuccess: false,
			RiskCacheTTL:          time.Hour,
			RiskWindow:            time.Hour,
			NotifyTimeout:         10 * time.Second,
			MaintenanceInterval:   time.Minute,
			MaxBodyBytes:          1 << 20, // 1MiB
			DisableInjectionGuard: false,
			Source:                "palisade",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "/data/palisade",
		},
		Cluster: ClusterConfig{
			RedisURL:     "",
			KeyPrefix:    "palisade",
			SyncInterval: 30 * time.Second,
		},
		Notifiers: NotifiersConfig{
			Webhook: WebhookConfig{
				Method:    "POST",
				Timeout:   10 * time.Second,
				RateLimit: 0, // unlimited
				RateBurst: 1,
			},
			Kafka: KafkaConfig{
				Brokers:      []string{},
				Topic:        "palisade.alerts",
				BatchTimeout: 100 * time.Millisecond,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// JWT_SECRET -> security.jwt_secret
	// FAILED_LOGIN_THRESHOLD -> detection.failed_login_threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
	"notifiers.kafka.brokers",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security mappings
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"token_ttl":           "security.token_ttl",
	"anonymous_role":      "security.anonymous_role",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Casbin mappings
	"casbin_model_path":      "security.casbin.model_path",
	"casbin_policy_path":     "security.casbin.policy_path",
	"casbin_auto_reload":     "security.casbin.auto_reload",
	"casbin_reload_interval": "security.casbin.reload_interval",
	"casbin_cache_ttl":       "security.casbin.cache_ttl",

	// Detection mappings
	"detection_max_events":           "detection.max_events",
	"failed_login_threshold":         "detection.failed_login_threshold",
	"failed_login_window":            "detection.failed_login_window",
	"failed_login_retention":         "detection.failed_login_retention",
	"keep_failures_on_success":       "detection.keep_failures_on_success",
	"risk_cache_ttl":                 "detection.risk_cache_ttl",
	"risk_window":                    "detection.risk_window",
	"notify_timeout":                 "detection.notify_timeout",
	"detection_maintenance_interval": "detection.maintenance_interval",
	"gate_max_body_bytes":            "detection.max_body_bytes",
	"disable_injection_guard":        "detection.disable_injection_guard",
	"detection_source":               "detection.source",

	// Storage mappings
	"storage_backend": "storage.backend",
	"storage_path":    "storage.path",

	// Cluster mappings
	"redis_url":           "cluster.redis_url",
	"redis_key_prefix":    "cluster.key_prefix",
	"block_sync_interval": "cluster.sync_interval",

	// Notifier mappings
	"webhook_url":         "notifiers.webhook.url",
	"webhook_method":      "notifiers.webhook.method",
	"webhook_secret":      "notifiers.webhook.secret",
	"webhook_timeout":     "notifiers.webhook.timeout",
	"webhook_rate_limit":  "notifiers.webhook.rate_limit",
	"webhook_rate_burst":  "notifiers.webhook.rate_burst",
	"kafka_brokers":       "notifiers.kafka.brokers",
	"kafka_topic":         "notifiers.kafka.topic",
	"kafka_batch_timeout": "notifiers.kafka.batch_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - JWT_SECRET -> security.jwt_secret
//   - HTTP_PORT -> server.port
//   - REDIS_URL -> cluster.redis_url
//   - KAFKA_BROKERS -> notifiers.kafka.brokers
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
