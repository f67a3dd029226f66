// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package middleware

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
	"github.com/tomtom215/palisade/internal/signature"
)

const (
	maxFieldNameLength = 64
	maxJSONDepth       = 32
)

// Where a finding was located.
const (
	locationQuery = "query"
	locationPath  = "path"
	locationBody  = "body"
)

// errBodyTooLarge means the body exceeds the scan limit. Such requests are
// refused rather than passed through unscanned.
var errBodyTooLarge = errors.New("request body exceeds scan limit")

// hit is a finding plus where it was seen. The matched input itself is
// never kept.
type hit struct {
	signature.Finding
	location string
	field    string
}

// InjectionGuard scans query parameters, path segments and JSON or form
// bodies for injection signatures. A match is recorded as
// security.sql_injection (critical) or security.xss_attempt (high) and the
// request is answered with a generic 400. Bodies larger than the scan limit
// are answered with 413.
func (g *Gate) InjectionGuard(next http.HandlerFunc) http.HandlerFunc {
	if !g.guard {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h, found := g.scanQuery(r.URL.Query())
		if !found {
			h, found = g.scanPath(r.URL.Path)
		}
		if !found {
			var err error
			h, found, err = g.scanBody(r)
			if errors.Is(err, errBodyTooLarge) {
				logging.Ctx(r.Context()).Debug().Int64("limit", g.maxBodyBytes).Msg("Request body exceeds injection guard limit")
				metrics.RecordGateRejection("body_too_large")
				writeRejection(w, http.StatusRequestEntityTooLarge, tooLargeBody)
				return
			}
		}
		if !found {
			next(w, r)
			return
		}

		in := detection.EventInput{
			Type:      detection.EventSQLInjection,
			Severity:  detection.SeverityCritical,
			IPAddress: ClientIP(r),
			UserAgent: r.UserAgent(),
			Action:    "request rejected: injection signature",
			Result:    detection.ResultBlocked,
			Details: map[string]interface{}{
				"location":  h.location,
				"field":     h.field,
				"signature": h.Name,
				"method":    r.Method,
			},
		}
		if h.Kind == signature.XSS {
			in.Type = detection.EventXSSAttempt
			in.Severity = detection.SeverityHigh
		}
		// A path finding means the path itself is the payload.
		if h.location != locationPath {
			in.Resource = r.URL.Path
		}
		g.rec.Record(r.Context(), in)
		metrics.RecordGateRejection(string(h.Kind))
		writeRejection(w, http.StatusBadRequest, badRequestBody)
	}
}

func (g *Gate) scanQuery(q url.Values) (hit, bool) {
	for key, values := range q {
		if f, ok := g.detector.Scan(key); ok {
			return hit{Finding: f, location: locationQuery, field: "(name)"}, true
		}
		for _, v := range values {
			if f, ok := g.detector.Scan(v); ok {
				return hit{Finding: f, location: locationQuery, field: fieldName(key)}, true
			}
		}
	}
	return hit{}, false
}

// scanPath checks each decoded path segment. Segments are named by
// position because route parameters are not resolved yet.
func (g *Gate) scanPath(path string) (hit, bool) {
	for i, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if f, ok := g.detector.Scan(seg); ok {
			return hit{Finding: f, location: locationPath, field: "segment_" + strconv.Itoa(i)}, true
		}
	}
	return hit{}, false
}

// scanBody buffers up to maxBodyBytes of the body, scans it, and restores
// r.Body so handlers read the original stream. Form bodies are scanned per
// field and anything else as JSON when it decodes, or as raw text. The
// Content-Type is only a hint: handlers may decode JSON regardless of it.
func (g *Gate) scanBody(r *http.Request) (hit, bool, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return hit{}, false, nil
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, g.maxBodyBytes+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), r.Body), r.Body}
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Injection guard could not read request body")
		return hit{}, false, nil
	}
	if int64(len(buf)) > g.maxBodyBytes {
		return hit{}, false, errBodyTooLarge
	}
	if len(buf) == 0 {
		return hit{}, false, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if form, err := url.ParseQuery(string(buf)); err == nil {
			h, found := g.scanQuery(form)
			h.location = locationBody
			return h, found, nil
		}
		h, found := g.scanRaw(buf)
		return h, found, nil
	}

	var doc interface{}
	if err := json.Unmarshal(buf, &doc); err != nil {
		h, found := g.scanRaw(buf)
		return h, found, nil
	}
	h, found := g.scanJSON(doc, "", 0)
	return h, found, nil
}

// scanRaw scans bodies that are neither forms nor valid JSON.
func (g *Gate) scanRaw(buf []byte) (hit, bool) {
	if f, ok := g.detector.Scan(string(buf)); ok {
		return hit{Finding: f, location: locationBody, field: "(raw)"}, true
	}
	return hit{}, false
}

func (g *Gate) scanJSON(v interface{}, path string, depth int) (hit, bool) {
	if depth > maxJSONDepth {
		return hit{}, false
	}
	switch t := v.(type) {
	case string:
		if f, ok := g.detector.Scan(t); ok {
			return hit{Finding: f, location: locationBody, field: fieldName(path)}, true
		}
	case map[string]interface{}:
		for key, child := range t {
			if f, ok := g.detector.Scan(key); ok {
				return hit{Finding: f, location: locationBody, field: fieldName(path) + "(name)"}, true
			}
			if h, ok := g.scanJSON(child, joinPath(path, key), depth+1); ok {
				return h, true
			}
		}
	case []interface{}:
		for i, child := range t {
			if h, ok := g.scanJSON(child, path+"["+strconv.Itoa(i)+"]", depth+1); ok {
				return h, true
			}
		}
	}
	return hit{}, false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// fieldName makes a client-supplied field name safe to store and log.
func fieldName(name string) string {
	name = logging.SanitizeValue(name)
	if len(name) > maxFieldNameLength {
		name = name[:maxFieldNameLength]
	}
	return name
}
