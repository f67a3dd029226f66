// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package auth authenticates callers of the administrative API.

Two modes are supported (configured via AUTH_MODE):

  - none: every caller is treated as the configured anonymous role. Meant
    for local development and for deployments behind an authenticating proxy.
  - jwt: callers present an HS256 bearer token signed with JWT_SECRET. The
    token's sub claim becomes the subject ID and its roles claim feeds the
    authorization layer.

Rejected credentials are recorded as auth.access_denied security events,
so a burst of bad tokens from one address trips the same detection rules
as any other access-denied burst.

Usage Example:

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL, cfg.Security.JWTIssuer)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(auth.AuthModeJWT, jwtManager, engine, "")
	r.Use(func(next http.Handler) http.Handler { return mw.Authenticate(next.ServeHTTP) })

	// In a handler
	subject := auth.GetAuthSubject(r.Context())
*/
package auth
