package handlers

import "net/http"

// TypeOption is one of the request-type cards on step 2 of the wizard.
type TypeOption struct {
	Name        string
	Description string
}

// The intake wizard's fixed option sets. These are the submitter's own
// department and the category of work requested; neither is store-backed.
var (
	wizardServices = []string{"Marketing", "RH", "Direction", "Commercial", "Technique"}
	wizardTypes    = []TypeOption{
		{Name: "Graphisme", Description: "Logos, affiches, supports"},
		{Name: "Sociaux", Description: "Posts, campagne, ads"},
		{Name: "Événement", Description: "Salon, fête, séminaire"},
	}
)

type WizardHandler struct{}

func NewWizardHandler() *WizardHandler { return &WizardHandler{} }

// Home renders the two-step intake wizard.
func (h *WizardHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "index", map[string]any{
		"ServiceOptions": wizardServices,
		"TypeOptions":    wizardTypes,
	})
}

// Confirmation renders the static post-submission page.
func (h *WizardHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "confirmation", nil)
}
