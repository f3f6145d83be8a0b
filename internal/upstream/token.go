package upstream

import (
	"net/http"
	"strings"
)

// TokenProvider extracts the auth token to forward upstream for one inbound
// request. Implementations must not validate the token; authorization
// decisions belong to the upstream backend.
type TokenProvider interface {
	// Token returns the bearer token and whether one was found.
	Token(r *http.Request) (string, bool)
}

// HeaderCookieTokens reads the Authorization header first and falls back to
// a named cookie from the trusted cookie store.
type HeaderCookieTokens struct {
	Cookie string
}

// Token implements TokenProvider.
func (p HeaderCookieTokens) Token(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer "), true
	}
	if p.Cookie != "" {
		if c, err := r.Cookie(p.Cookie); err == nil && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}
