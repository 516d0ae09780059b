// Package views holds the HTML templates and static assets, embedded into
// the binary.
package views

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/shopspring/decimal"
)

//go:embed *.tmpl
var templates embed.FS

//go:embed static
var static embed.FS

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"price": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
}

// Parse loads every page and partial into one template set. Pages are
// addressed by file name, e.g. "list.tmpl".
func Parse() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templates, "*.tmpl")
}

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
