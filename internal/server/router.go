package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/auth"
	"github.com/requestflow/requestflow/internal/config"
	"github.com/requestflow/requestflow/internal/handlers"
	"github.com/requestflow/requestflow/internal/httpx"
	"github.com/requestflow/requestflow/internal/models"
)

// New constructs the API and auth routes with middlewares applied. Page
// routes live in cmd/server, which falls back to this handler.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	auth.SetSecret(cfg.SessionSecret)

	// RequireAuth double-checks that the session's subject still maps to the
	// admin row.
	auth.SetSubjectVerifier(func(_ context.Context, subject string) bool {
		var count int64
		if err := db.Model(&models.AdminSettings{}).Where("email = ?", subject).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints (login/logout/change-password)
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Submission endpoint: POST is public (the intake wizard), GET requires a
	// staff session.
	rh := handlers.NewRequestHandler(db, cfg.ManagerEmail)
	mux.Handle("/api/requests", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			rh.Submit(w, r)
		case http.MethodGet:
			auth.RequireAuth(http.HandlerFunc(rh.List)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))

	// Staff mutations
	mux.Handle("/requests/status", auth.RequireAuth(http.HandlerFunc(rh.UpdateStatus)))
	mux.Handle("/requests/delete", auth.RequireAuth(http.HandlerFunc(rh.Delete)))

	// Request logging happens once, at the outermost handler in cmd/server.
	return withRecover(auth.Middleware(mux))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
