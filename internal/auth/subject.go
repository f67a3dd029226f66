// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package auth

import (
	"context"
	"errors"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone disables authentication
	AuthModeNone AuthMode = "none"

	// AuthModeJWT uses JWT Bearer tokens
	AuthModeJWT AuthMode = "jwt"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "none", "":
		return AuthModeNone, nil
	case "jwt":
		return AuthModeJWT, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakSecret indicates the signing secret is too short.
	ErrWeakSecret = errors.New("JWT secret must be at least 32 characters")
)

// AuthSubject represents an authenticated caller.
type AuthSubject struct {
	// ID is the token's sub claim, or "anonymous" in none mode.
	ID string `json:"id"`

	// Roles contains the subject's assigned roles.
	// Used by Casbin for authorization.
	Roles []string `json:"roles,omitempty"`

	// Issuer is the token's iss claim, or "local".
	Issuer string `json:"issuer,omitempty"`

	// AuthMethod indicates how the subject was authenticated.
	AuthMethod AuthMode `json:"auth_method"`

	// ExpiresAt is when the authentication expires (unix seconds, 0 = never).
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// AuthSubjectFromClaims builds a subject from validated token claims.
func AuthSubjectFromClaims(claims *Claims) *AuthSubject {
	if claims == nil {
		return nil
	}

	subject := &AuthSubject{
		ID:         claims.Subject,
		Roles:      append([]string(nil), claims.Roles...),
		Issuer:     claims.Issuer,
		AuthMethod: AuthModeJWT,
	}
	if subject.Issuer == "" {
		subject.Issuer = "local"
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject
}

type contextKey string

const subjectContextKey contextKey = "auth-subject"

// ContextWithSubject attaches an authenticated subject to ctx.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// GetAuthSubject returns the subject set by Middleware.Authenticate, or nil.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, _ := ctx.Value(subjectContextKey).(*AuthSubject)
	return subject
}
