package seo

import (
	jsoniter "github.com/json-iterator/go"

	"quillmarketing.com/quill-web/internal/head"
)

const schemaContext = "https://schema.org"

// Script ids for the structured data kinds a page can carry.
const (
	OrganizationSchemaID head.TagKey = "organization-schema"
	WebPageSchemaID      head.TagKey = "webpage-schema"
	ArticleSchemaID      head.TagKey = "article-schema"
	BreadcrumbSchemaID   head.TagKey = "breadcrumb-schema"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON marshals v to a compact JSON string. It returns an empty string on error.
// <, > and & are escaped so the result is safe inside a script element.
func JSON(v any) string {
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Schema is one JSON-LD payload with a fixed script id.
type Schema interface {
	ID() head.TagKey
	LD(site Site) any
}

// Organization describes the company. Empty fields take Site values.
type Organization struct {
	Name        string
	URL         string
	Logo        string
	Description string
	SameAs      []string
}

type organizationLD struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Logo        string   `json:"logo"`
	Description string   `json:"description"`
	SameAs      []string `json:"sameAs"`
}

func (Organization) ID() head.TagKey { return OrganizationSchemaID }

func (o Organization) LD(site Site) any {
	sameAs := o.SameAs
	if sameAs == nil {
		sameAs = site.SameAs
	}
	return organizationLD{
		Context:     schemaContext,
		Type:        "Organization",
		Name:        orDefault(o.Name, site.Brand),
		URL:         orDefault(o.URL, site.URL),
		Logo:        orDefault(o.Logo, site.Logo),
		Description: orDefault(o.Description, site.OrgDescription),
		SameAs:      append([]string{}, sameAs...),
	}
}

// WebPage describes a single page.
type WebPage struct {
	Name        string
	Description string
	URL         string
}

type webPageLD struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (WebPage) ID() head.TagKey { return WebPageSchemaID }

func (p WebPage) LD(Site) any {
	return webPageLD{
		Context:     schemaContext,
		Type:        "WebPage",
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
	}
}

// Article describes a blog post. DateModified defaults to DatePublished and
// Author defaults to the brand.
type Article struct {
	Headline      string
	Description   string
	Image         string
	DatePublished string
	DateModified  string
	Author        string
}

type ldOrganization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *imageObject `json:"logo,omitempty"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type articleLD struct {
	Context       string         `json:"@context"`
	Type          string         `json:"@type"`
	Headline      string         `json:"headline"`
	Description   string         `json:"description"`
	Image         string         `json:"image"`
	DatePublished string         `json:"datePublished"`
	DateModified  string         `json:"dateModified"`
	Author        ldOrganization `json:"author"`
	Publisher     ldOrganization `json:"publisher"`
}

func (Article) ID() head.TagKey { return ArticleSchemaID }

func (a Article) LD(site Site) any {
	return articleLD{
		Context:       schemaContext,
		Type:          "Article",
		Headline:      a.Headline,
		Description:   a.Description,
		Image:         a.Image,
		DatePublished: a.DatePublished,
		DateModified:  orDefault(a.DateModified, a.DatePublished),
		Author:        ldOrganization{Type: "Organization", Name: orDefault(a.Author, site.Brand)},
		Publisher: ldOrganization{
			Type: "Organization",
			Name: site.Brand,
			Logo: &imageObject{Type: "ImageObject", URL: site.Logo},
		},
	}
}

// BreadcrumbItem maps a crumb name to its URL.
type BreadcrumbItem struct {
	Name string
	URL  string
}

// Breadcrumb is a schema.org BreadcrumbList.
type Breadcrumb struct {
	Items []BreadcrumbItem
}

type listItemLD struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbLD struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	ItemListElement []listItemLD `json:"itemListElement"`
}

func (Breadcrumb) ID() head.TagKey { return BreadcrumbSchemaID }

func (b Breadcrumb) LD(Site) any {
	el := make([]listItemLD, 0, len(b.Items))
	for i, it := range b.Items {
		el = append(el, listItemLD{
			Type:     "ListItem",
			Position: i + 1,
			Name:     it.Name,
			Item:     it.URL,
		})
	}
	return breadcrumbLD{
		Context:         schemaContext,
		Type:            "BreadcrumbList",
		ItemListElement: el,
	}
}

// StructuredData binds one schema to one script element. The script exists
// from Mount until Unmount.
type StructuredData struct {
	w       TagWriter
	site    Site
	key     head.TagKey
	mounted bool
}

func NewStructuredData(w TagWriter, site Site) *StructuredData {
	return &StructuredData{w: w, site: site}
}

// Mount writes the script for schema.
func (s *StructuredData) Mount(schema Schema) { s.Update(schema) }

// Update rewrites the script for schema. An unmounted binding is mounted.
func (s *StructuredData) Update(schema Schema) {
	key := schema.ID()
	if s.mounted && s.key != key {
		s.w.Remove(s.key, head.KindScriptLDJSON)
		s.mounted = false
	}
	s.key = key
	payload := JSON(schema.LD(s.site))
	if payload == "" {
		s.Unmount()
		return
	}
	s.w.Upsert(key, head.KindScriptLDJSON, payload)
	s.mounted = true
}

// Unmount removes the script. It is a no-op when nothing is mounted.
func (s *StructuredData) Unmount() {
	if !s.mounted {
		return
	}
	s.w.Remove(s.key, head.KindScriptLDJSON)
	s.mounted = false
}

func (s *StructuredData) Mounted() bool { return s.mounted }

// Key returns the script id of the last mounted schema.
func (s *StructuredData) Key() head.TagKey { return s.key }
