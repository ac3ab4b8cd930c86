package admin

import "strings"

const (
	DefaultHomePage    = "index.html"
	DefaultDetailsPage = "invoice-details.html"
)

// Pages lists the page names that have an initializer.
var Pages = []string{
	"index.html",
	"vaccines.html",
	"customers.html",
	"appointments.html",
	"reports.html",
	"calendar.html",
}

// CurrentPage returns the last non-empty segment of path, or home when there
// is none.
func CurrentPage(path, home string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return home
	}
	return path
}

// Run bootstraps page: sidebar state and form validation always, then the
// page's initializer when there is one. It returns the page name when an
// initializer ran and "" otherwise.
func (p *Panel) Run(page string) string {
	p.HighlightSidebar(page)
	p.InstallFormValidation()

	init, ok := p.routes[page]
	if !ok {
		p.logger.Debug("No initializer for page", "page", page, "component", "Admin")
		return ""
	}
	init()
	p.logger.Debug("Page initialized", "page", page, "component", "Admin")
	return page
}

// HighlightSidebar marks the sidebar link for page as active, opening its
// parent menu when the link is nested.
func (p *Panel) HighlightSidebar(page string) {
	for _, link := range p.doc.QuerySelectorAll(".sidebar .nav-link") {
		link.RemoveClass("active")
		if href, _ := link.Attr("href"); href != page {
			continue
		}
		link.AddClass("active")
		parent := link.Closest(".nav-item.has-treeview")
		if parent == nil {
			continue
		}
		parent.AddClass("menu-open")
		if top := parent.QuerySelector(".nav-link"); top != nil {
			top.AddClass("active")
		}
	}
}
