// Package web holds the server rendered pages
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Mon, Jan 2 2006 15:04")
	},
	"inputDate": func(t time.Time) string {
		return t.Format("2006-01-02T15:04")
	},
}

// Templates parses every page. Pages are looked up by file name
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
