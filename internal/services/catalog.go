package services

// Service describes one entry of the static catalog used to resolve the
// per-service dashboard routes. The catalog is a fixed in-process list, not
// store-backed.
type Service struct {
	Name        string
	Slug        string
	Description string
}

var catalog = []Service{
	{Name: "Comptabilité", Slug: "comptabilite", Description: "Gestion financière et comptable"},
	{Name: "Direction Executive", Slug: "direction-executive", Description: "Pilotage stratégique et coordination"},
	{Name: "Chargée de Programme", Slug: "chargee-de-programme", Description: "Gestion des projets et programmes"},
	{Name: "Plaidoyer", Slug: "plaidoyer", Description: "Influence et relations publiques"},
	{Name: "Direction Administrative et Financière", Slug: "direction-administrative-et-financiere", Description: "Gestion des ressources humaines et financières"},
}

// Catalog returns the full catalog in display order.
func Catalog() []Service {
	out := make([]Service, len(catalog))
	copy(out, catalog)
	return out
}

// BySlug resolves a catalog entry by its URL slug.
func BySlug(slug string) (Service, bool) {
	for _, s := range catalog {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}
