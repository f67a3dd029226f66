// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/notify"
	"github.com/tomtom215/palisade/internal/store"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks the configuration section by section and returns the
// first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateDetection,
		c.validateStorage,
		c.validateNotifiers,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateTrustedProxies()
}

func (c *Config) validateAuthMode() error {
	mode, err := auth.ParseAuthMode(c.Security.AuthMode)
	if err != nil {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}

	switch mode {
	case auth.AuthModeJWT:
		if len(c.Security.JWTSecret) < auth.MinSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", auth.MinSecretLength)
		}
	case auth.AuthModeNone:
		// Refuse to expose an unauthenticated admin surface in production.
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production. " +
				"Set AUTH_MODE=jwt or use ENVIRONMENT=development for testing purposes")
		}
		if c.Security.AnonymousRole == "" {
			return fmt.Errorf("ANONYMOUS_ROLE is required when AUTH_MODE=none")
		}
	}
	return nil
}

// validateCORS rejects wildcard origins in production with authentication
// enabled.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Set specific origins: CORS_ORIGINS=https://soc.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateTrustedProxies() error {
	for _, raw := range c.Security.TrustedProxies {
		var err error
		if strings.Contains(raw, "/") {
			_, err = netip.ParsePrefix(raw)
		} else {
			_, err = netip.ParseAddr(raw)
		}
		if err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an address or CIDR", raw)
		}
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.MaxEvents < 1 {
		return fmt.Errorf("DETECTION_MAX_EVENTS must be positive")
	}
	if d.FailedLoginThreshold < 1 {
		return fmt.Errorf("FAILED_LOGIN_THRESHOLD must be positive")
	}
	if d.FailedLoginWindow <= 0 {
		return fmt.Errorf("FAILED_LOGIN_WINDOW must be positive")
	}
	if d.FailedLoginRetention < d.FailedLoginWindow {
		return fmt.Errorf("FAILED_LOGIN_RETENTION (%v) must not be shorter than FAILED_LOGIN_WINDOW (%v)",
			d.FailedLoginRetention, d.FailedLoginWindow)
	}
	if d.RiskCacheTTL <= 0 || d.RiskWindow <= 0 {
		return fmt.Errorf("RISK_CACHE_TTL and RISK_WINDOW must be positive")
	}
	if d.MaxBodyBytes < 1 {
		return fmt.Errorf("GATE_MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch store.Backend(c.Storage.Backend) {
	case store.BackendMemory:
	case store.BackendBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory or badger, got %q", c.Storage.Backend)
	}
	if c.Cluster.RedisURL != "" && c.Cluster.SyncInterval < 0 {
		return fmt.Errorf("BLOCK_SYNC_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateNotifiers() error {
	if w := c.Notifiers.Webhook; w.URL != "" {
		if err := notify.ValidateWebhookURL(w.URL); err != nil {
			return fmt.Errorf("WEBHOOK_URL is invalid: %w", err)
		}
		if w.RateLimit < 0 {
			return fmt.Errorf("WEBHOOK_RATE_LIMIT must not be negative")
		}
	}
	if k := c.Notifiers.Kafka; len(k.Brokers) > 0 && k.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
