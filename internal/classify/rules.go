package classify

// Category is a named, ordered keyword group. Categories are evaluated in
// declared order and are mutually exclusive per offer: the first category
// with at least one hit wins.
type Category struct {
	Name     string
	Keywords []string
}

// ContextRule excludes an ambiguous term unless at least one qualifier
// co-occurs in the text. The canonical case is "hébergement", which on this
// site usually means lodging rather than hosting.
type ContextRule struct {
	Term       string
	Qualifiers []string
}

// ComboRule excludes a term that only signals relevance when paired with
// companion terms from another domain, e.g. print production alone versus
// print production for a training event.
type ComboRule struct {
	Term       string
	Companions []string
}

// Rules is the immutable keyword configuration driving classification.
// Built once at startup and passed into the classifier explicitly.
type Rules struct {
	Exclusions   []string
	ContextRules []ContextRule
	ComboRules   []ComboRule
	Categories   []Category
}

// DefaultRules returns the reference rule set for the consultation listings.
func DefaultRules() Rules {
	return Rules{
		Exclusions: []string{
			"restauration",
			"nettoyage",
			"gardiennage",
		},
		ContextRules: []ContextRule{
			{
				Term: "hébergement",
				Qualifiers: []string{
					"web", "site", "cloud", "serveur",
					"plateforme", "logiciel", "données",
				},
			},
		},
		ComboRules: []ComboRule{
			{
				Term:       "impression",
				Companions: []string{"formation", "atelier", "séminaire"},
			},
		},
		Categories: []Category{
			{
				Name: "Dév & Web",
				Keywords: []string{
					"développement", "application", "web", "portail",
					"logiciel", "plateforme", "maintenance",
				},
			},
			{
				Name: "Data",
				Keywords: []string{
					"données", "data", "numérisation",
					"archivage", "ged", "big data",
				},
			},
			{
				Name: "Infra",
				Keywords: []string{
					"hébergement", "cloud", "maintenance",
					"sécurité", "serveur",
				},
			},
		},
	}
}
