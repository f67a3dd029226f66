// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package notify implements alert transports for the detection engine.
// Each transport satisfies detection.Notifier. Delivery is at most once:
// transports never retry, and a circuit breaker stops calls to a failing
// endpoint until it recovers.
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/palisade/internal/detection"
)

// ErrRateLimited is returned when a transport drops an alert because its
// send rate was exceeded.
var ErrRateLimited = errors.New("notifier rate limit exceeded")

// SignatureHeader carries the hex HMAC-SHA256 of the request body when a
// webhook secret is configured.
const SignatureHeader = "X-Palisade-Signature"

// WebhookConfig configures a WebhookNotifier.
type WebhookConfig struct {
	Name       string
	URL        string
	Method     string // POST (default) or PUT
	Headers    map[string]string
	AuthHeader string // sent verbatim as Authorization
	Secret     string
	Timeout    time.Duration
	RateLimit  float64 // sends per second; 0 disables limiting
	RateBurst  int
	Breaker    BreakerConfig
}

// WebhookNotifier posts AlertPayload JSON to an HTTP endpoint.
type WebhookNotifier struct {
	name    string
	url     string
	method  string
	headers map[string]string
	auth    string
	secret  []byte
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[struct{}]
}

// NewWebhookNotifier validates cfg and builds the notifier.
func NewWebhookNotifier(cfg WebhookConfig) (*WebhookNotifier, error) {
	if err := ValidateWebhookURL(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid webhook URL: %w", err)
	}
	method := strings.ToUpper(cfg.Method)
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("webhook method must be POST or PUT, got %q", cfg.Method)
	}
	if cfg.Name == "" {
		cfg.Name = "webhook"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}

	n := &WebhookNotifier{
		name:    cfg.Name,
		url:     cfg.URL,
		method:  method,
		headers: cfg.Headers,
		auth:    cfg.AuthHeader,
		client:  &http.Client{Timeout: cfg.Timeout},
		cb:      newBreaker(cfg.Name, cfg.Breaker),
	}
	if cfg.Secret != "" {
		n.secret = []byte(cfg.Secret)
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return n, nil
}

// Name implements detection.Notifier.
func (n *WebhookNotifier) Name() string { return n.name }

// Enabled implements detection.Notifier.
func (n *WebhookNotifier) Enabled() bool { return n.url != "" }

// Send implements detection.Notifier.
func (n *WebhookNotifier) Send(ctx context.Context, payload *detection.AlertPayload) error {
	if n.limiter != nil && !n.limiter.Allow() {
		return ErrRateLimited
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}
	_, err = n.cb.Execute(func() (struct{}, error) {
		return struct{}{}, n.post(ctx, body)
	})
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, n.method, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Palisade-Alerts/1.0")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}
	if n.auth != "" {
		req.Header.Set("Authorization", n.auth)
	}
	if n.secret != nil {
		req.Header.Set(SignatureHeader, "sha256="+Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidateWebhookURL accepts absolute http and https URLs with a host.
func ValidateWebhookURL(raw string) error {
	if raw == "" {
		return errors.New("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}
