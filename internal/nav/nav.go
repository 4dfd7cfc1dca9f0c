package nav

import (
	"path"
	"strings"

	"quillmarketing.com/quill-web/internal/seo"
)

// Item represents a top-level navigation item. Hrefs starting with "#" are
// sections of the landing page.
type Item struct {
	Href  string
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Href: "/#features", Label: "Features"},
	{Href: "/#testimonials", Label: "Stories"},
	{Href: "/pricing", Label: "Pricing"},
	{Href: "/blog", Label: "Blog"},
}

// sectionLabels name top-level paths that are not plain slugs.
var sectionLabels = map[string]string{
	"/pricing": "Pricing",
	"/blog":    "Blog",
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Href,
			Label:  it.Label,
			Active: isActive(it.Href, currentPath),
		})
	}
	return items
}

func isActive(href, currentPath string) bool {
	if strings.Contains(href, "#") {
		return false
	}
	// match exact or prefix boundary: "/blog" or "/blog/..."
	return currentPath == href || strings.HasPrefix(currentPath, href+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - For known top-level sections, use the section label
// - For deeper segments, use a prettified segment label
// - A non-empty leaf replaces the label of the last crumb
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := titleFromSegment(part)
		if i == 0 {
			if l, ok := sectionLabels[href]; ok {
				label = l
			}
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}
	if leaf != "" && len(crumbs) > 1 {
		crumbs[len(crumbs)-1].Label = leaf
	}
	return crumbs
}

// SchemaItems converts crumbs to structured data items with absolute URLs.
func SchemaItems(site seo.Site, crumbs []Crumb) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Label, URL: site.AbsURL(c.Href)})
	}
	return items
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	// replace hyphens/underscores with spaces and capitalize first letter
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	// ASCII only is sufficient for slugs here
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
