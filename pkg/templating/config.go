package templating

import (
	"regexp"
	"strings"
)

// TemplateConfig holds all configuration options for the page templates.
type TemplateConfig struct {
	// PageTemplate is the name of the full template used to build the page shell.
	PageTemplate string `json:"page_template"`

	// Title is passed to the page template as the document title.
	Title string `json:"title"`

	// ContainerSelector locates the mount point the pasties are rendered into.
	// The page template must expose exactly one element matching it.
	ContainerSelector string `json:"container_selector"`
}

// DefaultConfig returns a TemplateConfig that works with the embedded page.
func DefaultConfig() *TemplateConfig {
	return &TemplateConfig{
		PageTemplate:      "page.tmpl.html",
		Title:             "Pasties",
		ContainerSelector: "#pastyContainer",
	}
}

var idSelector = regexp.MustCompile(`^#[A-Za-z][A-Za-z0-9_-]*$`)

// ContainerID returns the element id implied by a plain "#id" selector, or
// "pastyContainer" for anything more complex.
func (c TemplateConfig) ContainerID() string {
	if idSelector.MatchString(c.ContainerSelector) {
		return strings.TrimPrefix(c.ContainerSelector, "#")
	}
	return "pastyContainer"
}
