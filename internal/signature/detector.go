// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package signature detects injection payloads in request input.
//
// Detection is two staged: an Aho-Corasick automaton matches a fixed
// keyword set against normalized input, then a small set of regular
// expressions catches tautologies ("' OR 'a'='a", "or 1=1") that keyword
// matching cannot express. Inputs shorter than three bytes are never
// flagged.
//
// Example:
//
//	d := signature.Default()
//	if f, ok := d.Scan(r.URL.Query().Get("q")); ok {
//	    // f.Kind == signature.SQLInjection, f.Name == "union_select"
//	}
package signature

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind classifies a signature.
type Kind string

const (
	SQLInjection Kind = "sql_injection"
	XSS          Kind = "xss"
)

// Signature is one keyword or pattern the detector looks for.
type Signature struct {
	Name    string
	Kind    Kind
	Pattern string // normalized keyword; empty for regexp signatures
}

// Finding is a positive detection. It never carries the scanned input.
type Finding struct {
	Name string
	Kind Kind
}

type patternSignature struct {
	name string
	kind Kind
	re   *regexp.Regexp
}

// Detector scans strings for injection signatures. It is safe for
// concurrent use.
type Detector struct {
	keywords *automaton
	patterns []patternSignature
}

// minScanLength is the shortest input worth scanning.
const minScanLength = 3

var defaultKeywords = []Signature{
	{Name: "union_select", Kind: SQLInjection, Pattern: "union select"},
	{Name: "union_all_select", Kind: SQLInjection, Pattern: "union all select"},
	{Name: "drop_table", Kind: SQLInjection, Pattern: "drop table"},
	{Name: "drop_database", Kind: SQLInjection, Pattern: "drop database"},
	{Name: "truncate_table", Kind: SQLInjection, Pattern: "truncate table"},
	{Name: "insert_into", Kind: SQLInjection, Pattern: "; insert into"},
	{Name: "delete_from", Kind: SQLInjection, Pattern: "; delete from"},
	{Name: "stacked_update", Kind: SQLInjection, Pattern: "; update "},
	{Name: "quote_comment", Kind: SQLInjection, Pattern: "'--"},
	{Name: "quote_comment", Kind: SQLInjection, Pattern: "' --"},
	{Name: "quote_comment", Kind: SQLInjection, Pattern: "';--"},
	{Name: "quote_hash_comment", Kind: SQLInjection, Pattern: "'#"},
	{Name: "inline_comment", Kind: SQLInjection, Pattern: "/*!"},
	{Name: "xp_cmdshell", Kind: SQLInjection, Pattern: "xp_cmdshell"},
	{Name: "information_schema", Kind: SQLInjection, Pattern: "information_schema"},
	{Name: "time_based", Kind: SQLInjection, Pattern: "sleep("},
	{Name: "time_based", Kind: SQLInjection, Pattern: "pg_sleep("},
	{Name: "time_based", Kind: SQLInjection, Pattern: "benchmark("},
	{Name: "time_based", Kind: SQLInjection, Pattern: "waitfor delay"},
	{Name: "file_access", Kind: SQLInjection, Pattern: "load_file("},
	{Name: "file_access", Kind: SQLInjection, Pattern: "into outfile"},
	{Name: "file_access", Kind: SQLInjection, Pattern: "into dumpfile"},
	{Name: "version_probe", Kind: SQLInjection, Pattern: "@@version"},

	{Name: "script_tag", Kind: XSS, Pattern: "<script"},
	{Name: "script_tag", Kind: XSS, Pattern: "</script"},
	{Name: "script_uri", Kind: XSS, Pattern: "javascript:"},
	{Name: "script_uri", Kind: XSS, Pattern: "vbscript:"},
	{Name: "iframe_tag", Kind: XSS, Pattern: "<iframe"},
	{Name: "event_handler", Kind: XSS, Pattern: "onerror="},
	{Name: "event_handler", Kind: XSS, Pattern: "onload="},
	{Name: "event_handler", Kind: XSS, Pattern: "onmouseover="},
	{Name: "event_handler", Kind: XSS, Pattern: "onfocus="},
	{Name: "cookie_access", Kind: XSS, Pattern: "document.cookie"},
	{Name: "srcdoc", Kind: XSS, Pattern: "srcdoc="},
}

var defaultPatterns = []patternSignature{
	{
		name: "quoted_tautology",
		kind: SQLInjection,
		re:   regexp.MustCompile(`['"]\s*(or|and)\s+['"]?[\w]+['"]?\s*(=|<|>|like)\s*['"]?[\w]*`),
	},
	{
		name: "numeric_tautology",
		kind: SQLInjection,
		re:   regexp.MustCompile(`\b(or|and)\s+(\d+)\s*=\s*(\d+)\b`),
	},
	{
		name: "stacked_statement",
		kind: SQLInjection,
		re:   regexp.MustCompile(`['"]\s*;\s*(select|insert|update|delete|drop|alter|create|exec)\b`),
	},
}

var defaultDetector = NewDetector(defaultKeywords)

// Default returns the shared detector with the built-in signature set.
func Default() *Detector {
	return defaultDetector
}

// NewDetector builds a detector for keywords plus the built-in pattern
// signatures. Keyword patterns are normalized before insertion.
func NewDetector(keywords []Signature) *Detector {
	sigs := make([]Signature, 0, len(keywords))
	for _, k := range keywords {
		k.Pattern = normalize(k.Pattern)
		sigs = append(sigs, k)
	}
	return &Detector{
		keywords: buildAutomaton(sigs),
		patterns: defaultPatterns,
	}
}

// Scan reports the first signature found in input. SQL injection findings
// take precedence over XSS when both are present.
func (d *Detector) Scan(input string) (Finding, bool) {
	if len(input) < minScanLength {
		return Finding{}, false
	}
	text := normalize(input)

	var xss *Finding
	for _, sig := range d.keywords.all(text) {
		if sig.Kind == SQLInjection {
			return Finding{Name: sig.Name, Kind: sig.Kind}, true
		}
		if xss == nil {
			xss = &Finding{Name: sig.Name, Kind: sig.Kind}
		}
	}
	for _, p := range d.patterns {
		if p.re.MatchString(text) {
			return Finding{Name: p.name, Kind: p.kind}, true
		}
	}
	if xss != nil {
		return *xss, true
	}
	return Finding{}, false
}

// normalize lowercases s, turns SQL block comments into spaces, collapses
// whitespace runs and drops whitespace around '=' so that spacing tricks do
// not evade keyword matching.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "/**/", " ")

	var b strings.Builder
	b.Grow(len(s))
	var last rune
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && last != 0 && last != '=' && r != '=' {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
		last = r
	}
	return b.String()
}
