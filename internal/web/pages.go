package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"vax-admin/internal/admin"
	"vax-admin/internal/dom"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/bridge.js
var bridgeJS []byte

// detailsStub has a template but no page initializer.
const detailsStub = "invoice-details.html"

// renderPages executes every page template once and stamps element refs into
// the result. The bytes are served as-is and handed to each bridge session,
// so both sides see the same document.
func renderPages() (map[string][]byte, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	names := append([]string{detailsStub}, admin.Pages...)
	pages := make(map[string][]byte, len(names))
	for _, name := range names {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}

		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, "base", nil); err != nil {
			return nil, fmt.Errorf("failed to render page %s: %w", name, err)
		}

		tree, err := dom.Parse(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rendered page %s: %w", name, err)
		}
		tree.Stamp()
		markup, err := tree.HTML()
		if err != nil {
			return nil, fmt.Errorf("failed to stamp page %s: %w", name, err)
		}
		pages[name] = []byte(markup)
	}
	return pages, nil
}
