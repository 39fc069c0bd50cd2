// Package netx contains URL helpers for talking to the Maya backend.
package netx

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL appends path segments to a base URL, normalizing slashes so the
// result never contains doubled or missing separators.
func JoinURL(base string, elem ...string) string {
	u := strings.TrimRight(base, "/")
	for _, e := range elem {
		e = strings.Trim(e, "/")
		if e == "" {
			continue
		}
		u += "/" + e
	}
	return u
}

// AuthBases derives the two auth route prefixes from a single server base
// URL. The backend mounts the same auth handlers twice: under /api/auth and
// under the legacy /auth prefix, so every auth call has exactly one
// alternate base to retry against.
func AuthBases(serverURL string) (primary string, fallback string, err error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", "", fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("server url %q must include scheme and host", serverURL)
	}
	return JoinURL(serverURL, "api", "auth"), JoinURL(serverURL, "auth"), nil
}
