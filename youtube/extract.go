// Package youtube provides video identifier extraction and batched metadata
// fetching via the YouTube Data API v3.
package youtube

import (
	"net/url"
	"strings"
)

// videoIDLen is the length of a YouTube video identifier.
const videoIDLen = 11

// ExtractVideoID derives the canonical video identifier from a URL-like
// string. It accepts short links (youtu.be/<id>), watch URLs (?v=<id>), and
// the shorts/, embed/ and v/ path forms, with or without a scheme. When no
// structured form matches, it falls back to scanning the raw string for the
// first run of exactly 11 identifier characters. The second return value is
// false if no identifier could be found.
func ExtractVideoID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	// Assume HTTPS when the scheme is missing so url.Parse yields a host.
	withScheme := trimmed
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}

	if u, err := url.Parse(withScheme); err == nil && u.Host != "" {
		if id, ok := extractFromURL(u); ok {
			return id, true
		}
	}

	return scanForID(trimmed)
}

// extractFromURL handles the structured URL forms.
func extractFromURL(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Hostname())
	segments := splitPath(u.Path)

	if host == "youtu.be" {
		if len(segments) > 0 && isVideoID(segments[0]) {
			return segments[0], true
		}
		return "", false
	}

	if host != "youtube.com" && !strings.HasSuffix(host, ".youtube.com") {
		return "", false
	}

	if v := u.Query().Get("v"); isVideoID(v) {
		return v, true
	}

	if len(segments) >= 2 {
		switch segments[0] {
		case "shorts", "embed", "v":
			if isVideoID(segments[1]) {
				return segments[1], true
			}
		}
	}

	return "", false
}

// scanForID returns the first contiguous run of exactly 11 identifier
// characters in s. Runs longer than 11 do not match.
func scanForID(s string) (string, bool) {
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && isIDChar(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start == videoIDLen {
			return s[start:i], true
		}
		start = -1
	}
	return "", false
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func isVideoID(s string) bool {
	if len(s) != videoIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIDChar(s[i]) {
			return false
		}
	}
	return true
}

func isIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// WatchURL returns the canonical watch URL for a video identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
