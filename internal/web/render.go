// Package web renders the server-side HTML pages.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/whenpress/whenpress/internal/presence"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))

// RenderHome writes the homepage.
func RenderHome(w io.Writer) error {
	return templates.ExecuteTemplate(w, "home.html.tmpl", nil)
}

// RenderDevice writes the page for a single device.
func RenderDevice(w io.Writer, view presence.View) error {
	return templates.ExecuteTemplate(w, "device.html.tmpl", view)
}
