package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/middleware"
	"github.com/requestflow/requestflow/internal/models"
	"github.com/requestflow/requestflow/internal/services"
)

// Stats are derived from the fetched list on every render, so the identity
// Total == Pending+Progress+Solved holds by construction.
type Stats struct {
	Total    int
	Pending  int
	Progress int
	Solved   int
}

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

func (h *DashboardHandler) loadRequests(service string) ([]models.Request, Stats, error) {
	dbq := h.DB.Order("created_at desc, id desc")
	if service != "" {
		dbq = dbq.Where("service = ?", service)
	}
	var requests []models.Request
	if err := dbq.Find(&requests).Error; err != nil {
		return nil, Stats{}, err
	}
	return requests, computeStats(requests), nil
}

func computeStats(requests []models.Request) Stats {
	s := Stats{Total: len(requests)}
	for _, r := range requests {
		switch r.Status {
		case models.StatusInProgress:
			s.Progress++
		case models.StatusDone:
			s.Solved++
		default:
			s.Pending++
		}
	}
	return s
}

// Global renders the command-center dashboard over every request.
func (h *DashboardHandler) Global(w http.ResponseWriter, r *http.Request) {
	requests, stats, err := h.loadRequests("")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("erreur de chargement")); werr != nil {
			_ = werr
		}
		return
	}
	data := map[string]any{
		"Requests": requests,
		"Stats":    stats,
		"Back":     "/dashboard",
	}
	if f := middleware.PopFlash(w, r); f != "" {
		data["Flash"] = f
	}
	renderTemplate(w, r, "dashboard", data)
}

// Service renders the per-service dashboard resolved from /service/{slug}.
func (h *DashboardHandler) Service(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/service/"), "/")
	svc, ok := services.BySlug(slug)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		if _, werr := w.Write([]byte("service inconnu")); werr != nil {
			_ = werr
		}
		return
	}
	requests, stats, err := h.loadRequests(svc.Name)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("erreur de chargement")); werr != nil {
			_ = werr
		}
		return
	}
	data := map[string]any{
		"Service":  svc,
		"Requests": requests,
		"Stats":    stats,
		"Back":     "/service/" + svc.Slug,
	}
	if f := middleware.PopFlash(w, r); f != "" {
		data["Flash"] = f
	}
	renderTemplate(w, r, "service_dashboard", data)
}

// Services renders the catalog page linking to the per-service spaces.
func (h *DashboardHandler) Services(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "services", map[string]any{"Services": services.Catalog()})
}
