package seo

import (
	"strings"

	"quillmarketing.com/quill-web/internal/head"
)

// Site carries brand identity and the metadata defaults used when a page
// leaves an option empty.
type Site struct {
	Brand              string
	URL                string
	Logo               string
	DefaultTitle       string
	DefaultDescription string
	DefaultKeywords    string
	DefaultOGImage     string
	DefaultOGURL       string
	OrgDescription     string
	SameAs             []string
}

// DefaultSite returns the QuillMarketing defaults.
func DefaultSite() Site {
	return Site{
		Brand:              "QuillMarketing",
		URL:                "https://quillmarketing.com",
		Logo:               "https://quillmarketing.com/logo.png",
		DefaultTitle:       "QuillMarketing - Modern Marketing Solutions",
		DefaultDescription: "Transform your business with QuillMarketing's innovative digital marketing solutions. Expert services in SEO, content marketing, and brand strategy.",
		DefaultKeywords:    "marketing, digital marketing, SEO, content marketing, brand strategy",
		DefaultOGImage:     "https://quillmarketing.com/og-image.jpg",
		DefaultOGURL:       "https://quillmarketing.com/",
		OrgDescription:     "Transform your business with QuillMarketing's innovative digital marketing solutions.",
		SameAs: []string{
			"https://twitter.com/quillmarketing",
			"https://facebook.com/quillmarketing",
			"https://linkedin.com/company/quillmarketing",
		},
	}
}

// AbsURL joins path onto the site URL. Absolute inputs are returned unchanged.
func (s Site) AbsURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(s.URL, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// EffectiveTitle appends the brand unless the title already mentions it.
func (s Site) EffectiveTitle(title string) string {
	if s.Brand == "" || strings.Contains(title, s.Brand) {
		return title
	}
	return title + " | " + s.Brand
}

// Robots returns the robots directive for a page.
func Robots(noindex bool) string {
	if noindex {
		return "noindex, nofollow"
	}
	return "index, follow"
}

// PageOptions are the per-page inputs. Empty fields fall back to Site defaults.
type PageOptions struct {
	Title        string
	Description  string
	Keywords     string
	OGImage      string
	OGURL        string
	CanonicalURL string
	Type         string
	NoIndex      bool
}

type OpenGraph struct {
	Type        string
	URL         string
	Title       string
	Description string
	Image       string
}

type Twitter struct {
	Card        string
	URL         string
	Title       string
	Description string
	Image       string
}

// Meta is the resolved metadata for one page.
type Meta struct {
	Title       string
	Description string
	Keywords    string
	Robots      string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// Resolve applies defaults and brand rules to opts.
func (s Site) Resolve(opts PageOptions) Meta {
	title := s.EffectiveTitle(orDefault(opts.Title, s.DefaultTitle))
	desc := orDefault(opts.Description, s.DefaultDescription)
	image := orDefault(opts.OGImage, s.DefaultOGImage)
	url := orDefault(opts.OGURL, s.DefaultOGURL)
	return Meta{
		Title:       title,
		Description: desc,
		Keywords:    orDefault(opts.Keywords, s.DefaultKeywords),
		Robots:      Robots(opts.NoIndex),
		Canonical:   opts.CanonicalURL,
		OG: OpenGraph{
			Type:        orDefault(opts.Type, "website"),
			URL:         url,
			Title:       title,
			Description: desc,
			Image:       image,
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			URL:         url,
			Title:       title,
			Description: desc,
			Image:       image,
		},
	}
}

// Tags returns the head elements for m in render order.
func (m Meta) Tags() []head.TagSpec {
	tags := []head.TagSpec{
		{Key: "title", Kind: head.KindTitle, Content: m.Title},
		{Key: "title", Kind: head.KindMetaName, Content: m.Title},
		{Key: "description", Kind: head.KindMetaName, Content: m.Description},
		{Key: "keywords", Kind: head.KindMetaName, Content: m.Keywords},
		{Key: "robots", Kind: head.KindMetaName, Content: m.Robots},

		{Key: "og:type", Kind: head.KindMetaProperty, Content: m.OG.Type},
		{Key: "og:url", Kind: head.KindMetaProperty, Content: m.OG.URL},
		{Key: "og:title", Kind: head.KindMetaProperty, Content: m.OG.Title},
		{Key: "og:description", Kind: head.KindMetaProperty, Content: m.OG.Description},
		{Key: "og:image", Kind: head.KindMetaProperty, Content: m.OG.Image},

		{Key: "twitter:card", Kind: head.KindMetaProperty, Content: m.Twitter.Card},
		{Key: "twitter:url", Kind: head.KindMetaProperty, Content: m.Twitter.URL},
		{Key: "twitter:title", Kind: head.KindMetaProperty, Content: m.Twitter.Title},
		{Key: "twitter:description", Kind: head.KindMetaProperty, Content: m.Twitter.Description},
		{Key: "twitter:image", Kind: head.KindMetaProperty, Content: m.Twitter.Image},
	}
	if m.Canonical != "" {
		tags = append(tags, head.TagSpec{Key: head.CanonicalKey, Kind: head.KindLinkCanonical, Content: m.Canonical})
	}
	return tags
}

// PageTags resolves opts and returns the tag set for it.
func (s Site) PageTags(opts PageOptions) []head.TagSpec {
	return s.Resolve(opts).Tags()
}

// TagWriter is the head surface bindings reconcile against. *head.Document
// implements it.
type TagWriter interface {
	Upsert(key head.TagKey, kind head.Kind, content string)
	Remove(key head.TagKey, kind head.Kind)
}

// PageMetadata keeps the title, description, social and robots tags of a
// head in sync with the current page options. Its tags stay in place when
// the page goes away; the next page overwrites them.
type PageMetadata struct {
	w         TagWriter
	site      Site
	canonical bool
}

func NewPageMetadata(w TagWriter, site Site) *PageMetadata {
	return &PageMetadata{w: w, site: site}
}

// Apply reconciles the head with opts and returns the resolved metadata.
func (p *PageMetadata) Apply(opts PageOptions) Meta {
	m := p.site.Resolve(opts)
	for _, t := range m.Tags() {
		p.w.Upsert(t.Key, t.Kind, t.Content)
	}
	if m.Canonical == "" && p.canonical {
		p.w.Remove(head.CanonicalKey, head.KindLinkCanonical)
	}
	p.canonical = m.Canonical != ""
	return m
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
