package i18n

import "strings"

// The portal is French-first; English is kept for the language toggle.
var translations = map[string]map[string]string{
	"fr": {
		"required":                "Requis",
		"nav_home":                "Accueil",
		"nav_services":            "Services",
		"nav_dashboard":           "Tableau de bord",
		"nav_login":               "Connexion",
		"nav_logout":              "Déconnexion",
		"flash_form_invalid":      "Formulaire invalide.",
		"flash_status_updated":    "Statut mis à jour.",
		"flash_status_invalid":    "Statut inconnu.",
		"flash_request_deleted":   "Demande supprimée.",
		"flash_request_not_found": "Demande introuvable.",
		"flash_update_error":      "Erreur lors de la mise à jour.",
		"flash_password_saved":    "Mot de passe mis à jour !",
	},
	"en": {
		"required":                "Required",
		"nav_home":                "Home",
		"nav_services":            "Services",
		"nav_dashboard":           "Dashboard",
		"nav_login":               "Log in",
		"nav_logout":              "Log out",
		"flash_form_invalid":      "Invalid form.",
		"flash_status_updated":    "Status updated.",
		"flash_status_invalid":    "Unknown status.",
		"flash_request_deleted":   "Request deleted.",
		"flash_request_not_found": "Request not found.",
		"flash_update_error":      "Update failed.",
		"flash_password_saved":    "Password updated!",
	},
}

// T translates code for lang, falling back to French, then to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations["fr"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks fr or en from an Accept-Language header, defaulting to fr.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if strings.HasPrefix(tag, "en") {
			return "en"
		}
		if strings.HasPrefix(tag, "fr") {
			return "fr"
		}
	}
	return "fr"
}
