// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/palisade/internal/authz"
	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/middleware"
	"github.com/tomtom215/palisade/internal/notify"
	"github.com/tomtom215/palisade/internal/store"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or a default path)
//  3. Environment Variables: mapped explicitly by envTransformFunc
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Detection DetectionConfig `koanf:"detection"`
	Storage   StorageConfig   `koanf:"storage"`
	Cluster   ClusterConfig   `koanf:"cluster"`
	Notifiers NotifiersConfig `koanf:"notifiers"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds authentication, authorization and request limiting
// settings for the administrative API.
type SecurityConfig struct {
	AuthMode      string        `koanf:"auth_mode"` // none or jwt
	JWTSecret     string        `koanf:"jwt_secret"`
	JWTIssuer     string        `koanf:"jwt_issuer"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AnonymousRole string        `koanf:"anonymous_role"` // role granted when auth_mode=none

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig points the enforcer at external model and policy files.
// Empty paths use the embedded defaults.
type CasbinConfig struct {
	ModelPath      string        `koanf:"model_path"`
	PolicyPath     string        `koanf:"policy_path"`
	AutoReload     bool          `koanf:"auto_reload"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// DetectionConfig tunes the detection engine and the request gate.
//
// Environment Variables:
//   - DETECTION_MAX_EVENTS: event ring capacity (default: 10000)
//   - FAILED_LOGIN_THRESHOLD: failures before an automatic block (default: 5)
//   - FAILED_LOGIN_WINDOW: counting window (default: 15m)
//   - RISK_CACHE_TTL: cached risk score lifetime (default: 1h)
//   - GATE_MAX_BODY_BYTES: injection guard body cap (default: 1MiB)
//   - DISABLE_INJECTION_GUARD: skip body/query scanning (default: false)
type DetectionConfig struct {
	MaxEvents             int           `koanf:"max_events"`
	FailedLoginThreshold  int           `koanf:"failed_login_threshold"`
	FailedLoginWindow     time.Duration `koanf:"failed_login_window"`
	FailedLoginRetention  time.Duration `koanf:"failed_login_retention"`
	KeepFailuresOnSuccess bool          `koanf:"keep_failures_on_success"`
	RiskCacheTTL          time.Duration `koanf:"risk_cache_ttl"`
	RiskWindow            time.Duration `koanf:"risk_window"`
	NotifyTimeout         time.Duration `koanf:"notify_timeout"`
	MaintenanceInterval   time.Duration `koanf:"maintenance_interval"`
	MaxBodyBytes          int64         `koanf:"max_body_bytes"`
	DisableInjectionGuard bool          `koanf:"disable_injection_guard"`
	Source                string        `koanf:"source"`
}

// StorageConfig selects local persistence for rules and blocks.
type StorageConfig struct {
	Backend string `koanf:"backend"` // memory or badger
	Path    string `koanf:"path"`
}

// ClusterConfig shares the block set between instances through Redis.
type ClusterConfig struct {
	RedisURL     string        `koanf:"redis_url"`
	KeyPrefix    string        `koanf:"key_prefix"`
	SyncInterval time.Duration `koanf:"sync_interval"`
}

// NotifiersConfig configures alert transports. A transport with no target
// configured is not registered.
type NotifiersConfig struct {
	Webhook WebhookConfig `koanf:"webhook"`
	Kafka   KafkaConfig   `koanf:"kafka"`
}

// WebhookConfig configures the HTTP alert transport.
type WebhookConfig struct {
	URL       string        `koanf:"url"`
	Method    string        `koanf:"method"`
	Secret    string        `koanf:"secret"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	RateBurst int           `koanf:"rate_burst"`
}

// KafkaConfig configures the broker alert transport.
type KafkaConfig struct {
	Brokers      []string      `koanf:"brokers"`
	Topic        string        `koanf:"topic"`
	BatchTimeout time.Duration `koanf:"batch_timeout"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// EngineConfig converts the detection and cluster sections for
// detection.NewEngine.
func (c *Config) EngineConfig() detection.Config {
	return detection.Config{
		MaxEvents:             c.Detection.MaxEvents,
		FailedLoginThreshold:  c.Detection.FailedLoginThreshold,
		FailedLoginWindow:     c.Detection.FailedLoginWindow,
		FailedLoginRetention:  c.Detection.FailedLoginRetention,
		RiskCacheTTL:          c.Detection.RiskCacheTTL,
		RiskWindow:            c.Detection.RiskWindow,
		NotifyTimeout:         c.Detection.NotifyTimeout,
		MaintenanceInterval:   c.Detection.MaintenanceInterval,
		BlockSyncInterval:     c.Cluster.SyncInterval,
		KeepFailuresOnSuccess: c.Detection.KeepFailuresOnSuccess,
		Source:                c.Detection.Source,
	}
}

// GateConfig converts the detection section for middleware.NewGate.
func (c *Config) GateConfig() middleware.GateConfig {
	return middleware.GateConfig{
		MaxBodyBytes:          c.Detection.MaxBodyBytes,
		DisableInjectionGuard: c.Detection.DisableInjectionGuard,
	}
}

// StoreConfig converts the storage and cluster sections for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:   store.Backend(c.Storage.Backend),
		Path:      c.Storage.Path,
		RedisURL:  c.Cluster.RedisURL,
		KeyPrefix: c.Cluster.KeyPrefix,
	}
}

// EnforcerConfig converts the casbin section for authz.NewEnforcer.
func (c *Config) EnforcerConfig() authz.EnforcerConfig {
	return authz.EnforcerConfig{
		ModelPath:      c.Security.Casbin.ModelPath,
		PolicyPath:     c.Security.Casbin.PolicyPath,
		AutoReload:     c.Security.Casbin.AutoReload,
		ReloadInterval: c.Security.Casbin.ReloadInterval,
		CacheTTL:       c.Security.Casbin.CacheTTL,
	}
}

// WebhookNotifierConfig returns the webhook transport settings and whether
// one is configured.
func (c *Config) WebhookNotifierConfig() (notify.WebhookConfig, bool) {
	w := c.Notifiers.Webhook
	if w.URL == "" {
		return notify.WebhookConfig{}, false
	}
	return notify.WebhookConfig{
		Name:      "webhook",
		URL:       w.URL,
		Method:    w.Method,
		Secret:    w.Secret,
		Timeout:   w.Timeout,
		RateLimit: w.RateLimit,
		RateBurst: w.RateBurst,
	}, true
}

// KafkaNotifierConfig returns the kafka transport settings and whether one
// is configured.
func (c *Config) KafkaNotifierConfig() (notify.KafkaConfig, bool) {
	k := c.Notifiers.Kafka
	if len(k.Brokers) == 0 || k.Topic == "" {
		return notify.KafkaConfig{}, false
	}
	return notify.KafkaConfig{
		Name:         "kafka",
		Brokers:      k.Brokers,
		Topic:        k.Topic,
		BatchTimeout: k.BatchTimeout,
	}, true
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: true,
	}
}
