package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, subject string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, subject)
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	c := sessionCookie(t, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)
	sub, ok := ParseSession(req)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if sub != "admin@example.com" {
		t.Fatalf("unexpected subject: %s", sub)
	}
}

func TestSessionTamperedSignature(t *testing.T) {
	c := sessionCookie(t, "admin@example.com")
	parts := strings.Split(c.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected cookie format: %s", c.Value)
	}
	parts[2] = "AAAA" + parts[2][4:]
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: strings.Join(parts, ".")})
	if _, ok := ParseSession(req); ok {
		t.Fatalf("tampered session accepted")
	}
}

func TestSessionExpired(t *testing.T) {
	// Forge a correctly signed value whose expiry is in the past.
	exp := time.Now().Add(-time.Minute).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte("admin@example.com")) + "." + strconv.FormatInt(exp, 10)
	value := payload + "." + sign(payload)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
	if _, ok := ParseSession(req); ok {
		t.Fatalf("expired session accepted")
	}
}

func TestSessionBarePresenceRejected(t *testing.T) {
	// The legacy cookie value was the literal string "true"; it must no longer pass.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "true"})
	if _, ok := ParseSession(req); ok {
		t.Fatalf("bare presence cookie accepted")
	}
}

func TestRequireAuthRedirectsHTML(t *testing.T) {
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login got %s", loc)
	}
}

func TestRequireAuthJSON401(t *testing.T) {
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	req := httptest.NewRequest(http.MethodPost, "/requests/status", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestRequireAuthVerifierRejects(t *testing.T) {
	SetSubjectVerifier(func(_ context.Context, _ string) bool { return false })
	t.Cleanup(func() { SetSubjectVerifier(nil) })
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, "ghost@example.com"))
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for removed account got %d", rr.Code)
	}
}

func TestConfiguredSecretTakesPrecedence(t *testing.T) {
	SetSecret("secret-de-config")
	t.Cleanup(func() { SetSecret("") })
	if Secret() != "secret-de-config" {
		t.Fatalf("configured secret must win over the env fallback")
	}

	c := sessionCookie(t, "admin@example.com")
	SetSecret("autre-secret")
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatalf("session signed under a different secret accepted")
	}
}
