// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/palisade/internal/auth"
	"github.com/tomtom215/palisade/internal/authz"
	"github.com/tomtom215/palisade/internal/middleware"
)

// RouterDeps carries the middleware and handler the router mounts.
type RouterDeps struct {
	Handler       *Handler
	ChiMiddleware *ChiMiddleware
	ClientIP      *middleware.ClientIPResolver
	Gate          *middleware.Gate
	Authenticator *auth.Middleware
	Authorizer    *authz.Middleware
}

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	clientIP      *middleware.ClientIPResolver
	gate          *middleware.Gate
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router from deps.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		handler:       deps.Handler,
		chiMiddleware: deps.ChiMiddleware,
		clientIP:      deps.ClientIP,
		gate:          deps.Gate,
		authn:         deps.Authenticator,
		authz:         deps.Authorizer,
	}
}

// eventIngestPath receives producer reports, whose details legitimately
// quote attack payloads.
const eventIngestPath = "/api/v1/security/events"

// exceptEventIngest applies mw to every request except POST eventIngestPath.
func exceptEventIngest(mw func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		wrapped := mw(next)
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == eventIngestPath {
				next(w, r)
				return
			}
			wrapped(w, r)
		}
	}
}

// Setup configures all HTTP routes.
//
// The security API runs behind, in order: client address resolution, the
// block gate, the injection guard (skipped for event ingest), request
// metrics, the per-address rate limit, authentication and Casbin
// authorization. Health, metrics and the Swagger UI sit outside that stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(APISecurityHeaders())

	// ========================
	// Health, Metrics and API Docs
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// ========================
	// Security API
	// ========================
	r.Route("/api/v1/security", func(r chi.Router) {
		r.Use(chiMiddleware(router.clientIP.Middleware))
		r.Use(chiMiddleware(router.gate.BlockGate))
		r.Use(chiMiddleware(exceptEventIngest(router.gate.InjectionGuard)))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(router.authn.Authenticate))
		r.Use(chiMiddleware(router.authz.AuthorizeRequest))

		r.Get("/events", router.handler.Events)
		r.Post("/events", router.handler.RecordEvent)
		r.Get("/events/stream", router.handler.EventStream)

		r.Get("/stats", router.handler.Stats)

		r.Get("/rules", router.handler.Rules)
		r.Patch("/rules/{id}", router.handler.UpdateRule)

		r.Get("/blocked", router.handler.BlockedIPs)
		r.Post("/blocked", router.handler.BlockIP)
		r.Delete("/blocked/{ip}", router.handler.UnblockIP)

		r.Get("/risk/{ip}", router.handler.Risk)
	})

	return r
}
