package cv

import "strings"

// Template describes a downloadable CV layout.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Style       string `json:"style"`
	Popular     bool   `json:"popular"`
}

var templates = []Template{
	{ID: "classic", Name: "Classic", Description: "A classic, professional CV template.", Style: "classic", Popular: true},
	{ID: "modern", Name: "Modern", Description: "A modern template with a focus on design.", Style: "modern", Popular: true},
	{ID: "creative", Name: "Creative", Description: "A creative template for creative roles.", Style: "creative"},
	{ID: "minimalist", Name: "Minimalist", Description: "A simple template with a focus on content.", Style: "minimalist"},
	{ID: "executive", Name: "Executive", Description: "A two-column template for senior and management roles.", Style: "classic"},
	{ID: "graduate", Name: "Graduate", Description: "An education-first template for recent graduates.", Style: "modern", Popular: true},
}

// Templates returns a copy of the whole catalogue.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// TemplateByID looks a template up by id, case-insensitively.
func TemplateByID(id string) (Template, bool) {
	id = strings.TrimSpace(id)
	for _, t := range templates {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return Template{}, false
}

// TemplatesByStyle returns the templates of the given style. The result is
// never nil.
func TemplatesByStyle(style string) []Template {
	style = strings.TrimSpace(style)
	return filterTemplates(func(t Template) bool { return strings.EqualFold(t.Style, style) })
}

// PopularTemplates returns the templates flagged as popular.
func PopularTemplates() []Template {
	return filterTemplates(func(t Template) bool { return t.Popular })
}

func filterTemplates(keep func(Template) bool) []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
