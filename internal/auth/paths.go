// Package auth decides which requests need a session, reads the session
// cookie's claims and builds login URLs for the central identity service.
package auth

import "strings"

// Pattern is a path matcher. A trailing "*" matches by prefix, ":name"
// segments match any single non-empty segment, anything else is exact.
type Pattern struct {
	raw      string
	prefix   string
	segments []string
}

// ParsePattern compiles a single pattern string.
func ParsePattern(raw string) Pattern {
	raw = strings.TrimSpace(raw)
	p := Pattern{raw: raw}
	switch {
	case strings.HasSuffix(raw, "*"):
		p.prefix = strings.TrimSuffix(raw, "*")
	case strings.Contains(raw, ":"):
		p.segments = strings.Split(raw, "/")
	}
	return p
}

// ParsePatterns compiles a list, skipping blank entries.
func ParsePatterns(raw []string) []Pattern {
	out := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, ParsePattern(r))
	}
	return out
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Match reports whether path satisfies the pattern.
func (p Pattern) Match(path string) bool {
	if p.raw == "" {
		return false
	}
	if path == p.raw {
		return true
	}
	if strings.HasSuffix(p.raw, "*") {
		return strings.HasPrefix(path, p.prefix)
	}
	if p.segments == nil {
		return false
	}
	parts := strings.Split(path, "/")
	if len(parts) != len(p.segments) {
		return false
	}
	for i, seg := range p.segments {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if seg != parts[i] {
			return false
		}
	}
	return true
}

// MatchAny reports whether any pattern matches path.
func MatchAny(patterns []Pattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
