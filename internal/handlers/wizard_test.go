package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWizardHomeRendersFormOptions(t *testing.T) {
	h := NewWizardHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Home(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, svc := range []string{"Marketing", "RH", "Direction", "Commercial", "Technique"} {
		if !strings.Contains(body, ">"+svc+"<") {
			t.Fatalf("missing service option %s", svc)
		}
	}
	for _, typ := range []string{"Graphisme", "Sociaux", "Événement"} {
		if !strings.Contains(body, typ) {
			t.Fatalf("missing type card %s", typ)
		}
	}
	if !strings.Contains(body, "Logos, affiches, supports") {
		t.Fatalf("missing type description")
	}
}

func TestConfirmationPage(t *testing.T) {
	h := NewWizardHandler()
	req := httptest.NewRequest(http.MethodGet, "/confirmation", nil)
	rec := httptest.NewRecorder()
	h.Confirmation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "DEMANDE TRANSMISE") {
		t.Fatalf("missing confirmation heading")
	}
	if !strings.Contains(body, "Retour à l&#39;accueil") && !strings.Contains(body, "Retour à l'accueil") {
		t.Fatalf("missing home link")
	}
}
