package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/auth"
	"github.com/requestflow/requestflow/internal/httpx"
	"github.com/requestflow/requestflow/internal/models"
	"github.com/requestflow/requestflow/internal/view"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
	mux.HandleFunc("/change-password", h.changePassword)
}

// renderTemplate uses the shared view.Render to apply layout and partials.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		// A valid session on /login goes straight to the dashboard.
		if sub, ok := auth.SubjectFromContext(r.Context()); ok {
			var count int64
			if err := h.DB.Model(&models.AdminSettings{}).Where("email = ?", sub).Limit(1).Count(&count).Error; err == nil && count > 0 {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			// Stale session: clear and continue to render login.
			auth.ClearSession(w)
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("identifier"))
	pass := r.FormValue("password")
	if email == "" || pass == "" {
		renderTemplate(w, r, "login", map[string]any{"Error": "Utilisateur non autorisé."})
		return
	}
	var admin models.AdminSettings
	if err := h.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": "Utilisateur non autorisé."})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(pass)) != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": "Mot de passe incorrect."})
		return
	}
	auth.CreateSession(w, admin.Email)
	if !admin.HasChangedPassword {
		http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// changePassword is the forced flow after first login: the new value replaces
// the stored hash with no current-password confirmation, then the flag flips.
func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "change_password", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, "change_password", map[string]any{"Error": "Formulaire invalide."})
		return
	}
	newPass := r.FormValue("password")
	confirm := r.FormValue("confirm")
	if newPass == "" {
		renderTemplate(w, r, "change_password", map[string]any{"Error": "Formulaire invalide."})
		return
	}
	if newPass != confirm {
		renderTemplate(w, r, "change_password", map[string]any{"Error": "Les mots de passe ne correspondent pas."})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPass), bcrypt.DefaultCost)
	if err != nil {
		renderTemplate(w, r, "change_password", map[string]any{"Error": "Erreur lors de la mise à jour."})
		return
	}
	res := h.DB.Model(&models.AdminSettings{}).Where("email = ?", sub).
		Updates(map[string]any{"password_hash": string(hash), "has_changed_password": true})
	if res.Error != nil || res.RowsAffected == 0 {
		renderTemplate(w, r, "change_password", map[string]any{"Error": "Erreur lors de la mise à jour."})
		return
	}
	// Success panel redirects itself to /dashboard after the display delay.
	renderTemplate(w, r, "change_password", map[string]any{"Success": true})
}
