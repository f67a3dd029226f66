// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/palisade/docs" // Import generated swagger docs
	"github.com/tomtom215/palisade/internal/api"
	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/authz"
	"github.com/tomtom215/palisade/internal/config"
	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/middleware"
	"github.com/tomtom215/palisade/internal/notify"
	"github.com/tomtom215/palisade/internal/store"
	"github.com/tomtom215/palisade/internal/supervisor"
	"github.com/tomtom215/palisade/internal/supervisor/services"
	ws "github.com/tomtom215/palisade/internal/websocket"
)

const storeOpenTimeout = 15 * time.Second

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LogConfig())
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("storage", cfg.Storage.Backend).
		Bool("cluster", cfg.Cluster.RedisURL != "").
		Msg("Starting Palisade")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === STORAGE ===
	openCtx, openCancel := context.WithTimeout(ctx, storeOpenTimeout)
	stores, err := store.Open(openCtx, cfg.StoreConfig())
	openCancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing stores")
		}
	}()

	// === DETECTION ENGINE ===
	engine := detection.NewEngine(cfg.EngineConfig(), stores.Blocks, stores.Rules)
	if err := engine.Load(ctx); err != nil {
		// Defaults stay active; the stores are retried on the next write.
		logging.Warn().Err(err).Msg("Failed to restore detection state, continuing with defaults")
	}
	closeNotifiers := registerNotifiers(engine, cfg)
	defer func() {
		// In-flight alert deliveries finish before transports close.
		engine.Close()
		closeNotifiers()
	}()

	// === LIVE STREAM ===
	wsHub := ws.NewHub()
	detach := wsHub.Attach(engine)
	defer detach()

	// === HTTP STACK ===
	router, err := buildRouter(cfg, engine, wsHub, stores)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build HTTP router")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDetectionService(services.NewDetectionService(engine))
	tree.AddStreamService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Palisade stopped")
}

// registerNotifiers registers the configured alert transports with engine.
// The returned function releases transport resources.
func registerNotifiers(engine *detection.Engine, cfg *config.Config) func() {
	var closers []func() error

	if wcfg, ok := cfg.WebhookNotifierConfig(); ok {
		n, err := notify.NewWebhookNotifier(wcfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid webhook notifier configuration")
		}
		engine.RegisterNotifier(n)
		logging.Info().Str("method", wcfg.Method).Msg("Webhook notifier registered")
	}

	if kcfg, ok := cfg.KafkaNotifierConfig(); ok {
		n, err := notify.NewKafkaNotifier(kcfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid kafka notifier configuration")
		}
		engine.RegisterNotifier(n)
		closers = append(closers, n.Close)
		logging.Info().
			Strs("brokers", kcfg.Brokers).
			Str("topic", kcfg.Topic).
			Msg("Kafka notifier registered")
	}

	if len(engine.Notifiers()) == 0 {
		logging.Warn().Msg("No alert notifiers configured; alert rules will only log")
	}

	return func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logging.Error().Err(err).Msg("Error closing notifier")
			}
		}
	}
}

// buildRouter assembles the authentication, authorization and request
// screening middleware around the API handler.
func buildRouter(cfg *config.Config, engine *detection.Engine, hub *ws.Hub, stores *store.Stores) (http.Handler, error) {
	mode, err := auth.ParseAuthMode(cfg.Security.AuthMode)
	if err != nil {
		return nil, err
	}

	var jwtManager *auth.JWTManager
	if mode == auth.AuthModeJWT {
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL, cfg.Security.JWTIssuer)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("issuer", cfg.Security.JWTIssuer).Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Str("role", cfg.Security.AnonymousRole).Msg("  Every request is treated as an anonymous subject")
		logging.Warn().Msg("  Use only for local development or isolated networks")
		logging.Warn().Msg("============================================================")
	}

	enforcerCfg := cfg.EnforcerConfig()
	enforcer, err := authz.NewEnforcer(&enforcerCfg)
	if err != nil {
		return nil, err
	}

	resolver, err := middleware.NewClientIPResolver(cfg.Security.TrustedProxies)
	if err != nil {
		return nil, err
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin while authentication is enabled; set CORS_ORIGINS explicitly")
	}

	chiCfg := api.DefaultChiMiddlewareConfig()
	chiCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	chiCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	chiCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	chiCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled

	handler := api.NewHandler(api.HandlerConfig{
		Engine:         engine,
		Hub:            hub,
		Store:          stores,
		AllowedOrigins: cfg.Security.CORSOrigins,
	})

	router := api.NewRouter(api.RouterDeps{
		Handler:       handler,
		ChiMiddleware: api.NewChiMiddleware(chiCfg, engine),
		ClientIP:      resolver,
		Gate:          middleware.NewGate(engine, cfg.GateConfig()),
		Authenticator: auth.NewMiddleware(mode, jwtManager, engine, cfg.Security.AnonymousRole),
		Authorizer:    authz.NewMiddleware(enforcer, engine),
	})
	return router.Setup(), nil
}
