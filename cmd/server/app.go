package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/auth"
	"github.com/requestflow/requestflow/internal/config"
	"github.com/requestflow/requestflow/internal/handlers"
	"github.com/requestflow/requestflow/internal/middleware"
	"github.com/requestflow/requestflow/internal/server"
	"github.com/requestflow/requestflow/internal/view"
)

func init() {
	// Inject language/theme resolvers into the shared view package so it stays
	// decoupled from the middleware package while reflecting user preferences.
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)
}

// NewApp bundles page routes, static assets, and the API router into the root
// handler; end-to-end tests drive this directly.
func NewApp(db *gorm.DB, cfg config.Config) http.Handler {
	rootAPI := server.New(db, cfg)
	dash := handlers.NewDashboardHandler(db)
	wizard := handlers.NewWizardHandler()

	fs := http.FileServer(http.Dir("static"))
	staticHandler := http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch filepath.Ext(r.URL.Path) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		}
		if os.Getenv("DEV") != "1" {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fs.ServeHTTP(w, r)
	}))

	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/static/"):
			staticHandler.ServeHTTP(w, r)
			return
		case path == "/":
			wizard.Home(w, r)
			return
		case path == "/confirmation":
			wizard.Confirmation(w, r)
			return
		case path == "/services":
			dash.Services(w, r)
			return
		case path == "/dashboard" || strings.HasPrefix(path, "/dashboard/"):
			// The session gate guards the dashboard prefix.
			if _, ok := auth.SubjectFromContext(r.Context()); !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			dash.Global(w, r)
			return
		case strings.HasPrefix(path, "/service/"):
			dash.Service(w, r)
			return
		}
		rootAPI.ServeHTTP(w, r)
	})

	return middleware.Prefs(auth.Middleware(base))
}
