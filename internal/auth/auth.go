package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type ctxKey string

const (
	// SessionCookieName is the historical cookie name kept from the first
	// version of the portal.
	SessionCookieName = "auth_session"

	// SessionTTL bounds every session to one day.
	SessionTTL = 24 * time.Hour

	subjectCtxKey = ctxKey("adminSubject")
)

// SubjectVerifier is an optional callback to validate that a session's subject
// still maps to a real admin account. Set it during app bootstrap via
// SetSubjectVerifier. If nil, no extra verification is performed.
type SubjectVerifier func(ctx context.Context, subject string) bool

var verifier SubjectVerifier

// SetSubjectVerifier configures the global verifier used by RequireAuth.
func SetSubjectVerifier(v SubjectVerifier) { verifier = v }

var configuredSecret string

// SetSecret injects the configured session secret at bootstrap. When unset,
// the environment variable (or the dev default) applies.
func SetSecret(s string) { configuredSecret = s }

// Secret returns the configured secret, SESSION_SECRET, or a dev default.
func Secret() string {
	if configuredSecret != "" {
		return configuredSecret
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie carrying the admin subject and an expiry
// claim. The value is "<b64(subject)>.<expiryUnix>.<signature>"; the subject is
// base64-encoded because admin identifiers are email addresses and contain dots.
func CreateSession(w http.ResponseWriter, subject string) {
	exp := time.Now().Add(SessionTTL).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject)) + "." + strconv.FormatInt(exp, 10)
	value := payload + "." + sign(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession deletes the session cookie by expiring it.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and expiry and returns the subject.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload))) {
		return "", false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// WithSubject stores the admin subject in context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectCtxKey, subject)
}

// SubjectFromContext extracts the admin subject.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(subjectCtxKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// Middleware attaches the session subject to the request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sub, ok := ParseSession(r); ok {
			r = r.WithContext(WithSubject(r.Context(), sub))
		}
		next.ServeHTTP(w, r)
	})
}

func denied(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"unauthorized"}`)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := SubjectFromContext(r.Context())
		if !ok {
			denied(w, r)
			return
		}
		if verifier != nil && !verifier(r.Context(), sub) {
			// Session refers to a removed account: clear and treat as unauthorized.
			ClearSession(w)
			denied(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
