package upstream

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")

	tok, ok := HeaderCookieTokens{Cookie: "auth_token"}.Token(r)
	if !ok || tok != "abc123" {
		t.Fatalf("expected abc123, got %q (ok=%v)", tok, ok)
	}
}

func TestTokenFromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: "cookie-tok"})

	tok, ok := HeaderCookieTokens{Cookie: "auth_token"}.Token(r)
	if !ok || tok != "cookie-tok" {
		t.Fatalf("expected cookie-tok, got %q (ok=%v)", tok, ok)
	}
}

func TestTokenHeaderWinsOverCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-tok")
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: "cookie-tok"})

	tok, _ := HeaderCookieTokens{Cookie: "auth_token"}.Token(r)
	if tok != "header-tok" {
		t.Fatalf("expected header token to win, got %q", tok)
	}
}

func TestTokenAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := (HeaderCookieTokens{Cookie: "auth_token"}).Token(r); ok {
		t.Fatal("expected no token")
	}
}
