// Package pages holds the full HTML documents.
package pages

import "bytethoughts/internal/usecases"

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

const defaultDescription = "Insights and stories from the developer community."

// Meta is the document head of a page.
type Meta struct {
	Title       string
	Description string
	OGImage     string
	// Nav selects the highlighted header link.
	Nav string
}

func (m Meta) title() string {
	if m.Title == "" {
		return usecases.SiteName
	}
	return m.Title
}

func (m Meta) description() string {
	if m.Description == "" {
		return defaultDescription
	}
	return m.Description
}
