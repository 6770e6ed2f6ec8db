package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/httpx"
	"github.com/requestflow/requestflow/internal/mailer"
	"github.com/requestflow/requestflow/internal/middleware"
	"github.com/requestflow/requestflow/internal/models"
	"github.com/requestflow/requestflow/internal/outbox"
	"github.com/requestflow/requestflow/internal/validation"
)

type RequestHandler struct {
	DB           *gorm.DB
	ManagerEmail string
}

func NewRequestHandler(db *gorm.DB, managerEmail string) *RequestHandler {
	return &RequestHandler{DB: db, ManagerEmail: managerEmail}
}

// Submit handles POST /api/requests: persist the request and enqueue the
// notification in one transaction. Delivery happens in the outbox worker, so
// a broken relay can neither fail this response nor lose the row.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Demandeur   string `json:"demandeur"`
		Email       string `json:"email"`
		Service     string `json:"service"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("demandeur", input.Demandeur, v)
	validation.Required("email", input.Email, v)
	validation.Required("service", input.Service, v)
	validation.Required("type", input.Type, v)
	validation.Required("description", input.Description, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	req := models.Request{
		Demandeur:   input.Demandeur,
		Email:       input.Email,
		Service:     input.Service,
		Type:        input.Type,
		Description: input.Description,
		Status:      models.StatusTodo, // forced regardless of payload
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&req).Error; err != nil {
			return err
		}
		subject, body := mailer.BuildRequestEmail(req)
		return outbox.Enqueue(tx, req.ID, mailer.Recipients(req, h.ManagerEmail), subject, body)
	})
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	httpx.Ok(w, "Request received")
}

// List handles GET /api/requests: newest first, optional ?service= equality
// filter. This is the dashboards' query surface.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("created_at desc, id desc")
	if svc := strings.TrimSpace(r.URL.Query().Get("service")); svc != "" {
		dbq = dbq.Where("service = ?", svc)
	}
	var requests []models.Request
	if err := dbq.Find(&requests).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_requests", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, requests)
}

func requestID(r *http.Request) int {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	return id
}

// redirectBack sends the browser to the page the action came from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.FormValue("back")
	if target == "" || !strings.HasPrefix(target, "/") {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || accept == ""
}

// UpdateStatus handles POST /requests/status: the status column is the only
// field ever mutated after creation.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := requestID(r)
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	status := r.FormValue("status")
	if status == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		status = body.Status
	}
	if !models.ValidStatus(status) {
		if wantsHTML(r) {
			middleware.Flash(w, r, "flash_status_invalid")
			redirectBack(w, r)
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	res := h.DB.Model(&models.Request{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		if wantsHTML(r) {
			middleware.Flash(w, r, "flash_update_error")
			redirectBack(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		if wantsHTML(r) {
			middleware.Flash(w, r, "flash_request_not_found")
			redirectBack(w, r)
			return
		}
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if wantsHTML(r) {
		middleware.Flash(w, r, "flash_status_updated")
		redirectBack(w, r)
		return
	}
	var req models.Request
	if err := h.DB.First(&req, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

// Delete handles POST /requests/delete: a hard delete, no tombstone. The
// interactive confirmation lives client-side.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := requestID(r)
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Where("id = ?", id).Delete(&models.Request{}).Error; err != nil {
		if wantsHTML(r) {
			middleware.Flash(w, r, "flash_update_error")
			redirectBack(w, r)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if wantsHTML(r) {
		middleware.Flash(w, r, "flash_request_deleted")
		redirectBack(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
