package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/requestflow/requestflow/internal/models"
)

func TestFirstLoginForcesPasswordChange(t *testing.T) {
	app, db := setupApp(t)
	seedAppAdmin(t, db, "changeme", false)

	// First login lands on the forced change page, not the dashboard.
	form := url.Values{"identifier": {"admin@requestflow.local"}, "password": {"changeme"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/change-password" {
		t.Fatalf("expected redirect to /change-password, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cookie := rec.Result().Cookies()[0]

	// Set the definitive password.
	cform := url.Values{"password": {"definitif"}, "confirm": {"definitif"}}
	creq := httptest.NewRequest(http.MethodPost, "/change-password", strings.NewReader(cform.Encode()))
	creq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	creq.AddCookie(cookie)
	crec := httptest.NewRecorder()
	app.ServeHTTP(crec, creq)
	if crec.Code != http.StatusOK {
		t.Fatalf("change: expected 200 got %d: %s", crec.Code, crec.Body.String())
	}
	if !strings.Contains(crec.Body.String(), "Mot de passe mis à jour !") {
		t.Fatalf("expected success panel")
	}

	var admin models.AdminSettings
	if err := db.First(&admin).Error; err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if !admin.HasChangedPassword {
		t.Fatalf("flag must be set")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("definitif")) != nil {
		t.Fatalf("new password must verify")
	}

	// The next login goes straight to the dashboard.
	cookie2 := login(t, app, "definitif")
	dreq := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	dreq.AddCookie(cookie2)
	drec := httptest.NewRecorder()
	app.ServeHTTP(drec, dreq)
	if drec.Code != http.StatusOK {
		t.Fatalf("dashboard after change: expected 200 got %d", drec.Code)
	}
}
