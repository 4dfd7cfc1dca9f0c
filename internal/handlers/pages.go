package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"quillmarketing.com/quill-web/internal/cms"
	"quillmarketing.com/quill-web/internal/format"
	"quillmarketing.com/quill-web/internal/head"
	"quillmarketing.com/quill-web/internal/nav"
	"quillmarketing.com/quill-web/internal/seo"
)

// baseHead is the static part of every page head. Page metadata is appended after it.
const baseHead = `<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="theme-color" content="#2563eb">
<link rel="icon" type="image/svg+xml" href="/assets/img/favicon.svg">
<link rel="stylesheet" href="/assets/css/site.css">`

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	Debug            bool
}

// SchemaObserver is told which structured data scripts each rendered page carried.
type SchemaObserver interface {
	SchemasRendered(ids []head.TagKey)
}

// PageData is the view model shared by every page using the base layout.
type PageData struct {
	Template    string
	Title       string
	Head        template.HTML
	Brand       string
	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Analytics   Analytics

	// Optional per-page payloads
	Landing  *cms.Landing
	Tiers    []TierView
	Articles []ArticleView
	Article  *ArticleView
}

// TierView is a pricing plan ready for display.
type TierView struct {
	Name      string
	Price     string
	Summary   string
	Features  []string
	CTA       cms.Link
	Highlight bool
}

// ArticleView is a blog post ready for display.
type ArticleView struct {
	Slug      string
	Href      string
	Title     string
	Summary   string
	Body      template.HTML
	Image     string
	Author    string
	Tags      []string
	Published string
	Updated   string
	Draft     bool
}

// Pages builds view models, including the rendered head, for each page.
type Pages struct {
	site      seo.Site
	content   *cms.Client
	analytics Analytics
	observer  SchemaObserver
}

// NewPages wires the page builders. observer may be nil.
func NewPages(site seo.Site, content *cms.Client, analytics Analytics, observer SchemaObserver) *Pages {
	return &Pages{site: site, content: content, analytics: analytics, observer: observer}
}

// Site returns the brand configuration pages are built with.
func (p *Pages) Site() seo.Site { return p.site }

// Home builds the landing page.
func (p *Pages) Home(ctx context.Context) (PageData, error) {
	landing, err := p.content.Landing(ctx)
	if err != nil {
		return PageData{}, fmt.Errorf("load landing: %w", err)
	}
	data := p.base("home", "/", "")
	data.Landing = &landing
	data.Tiers = tierViews(landing.Pricing.Tiers)

	err = p.compose(&data, func(scope *seo.Scope) {
		meta := scope.Page(seo.PageOptions{
			Title:        landing.SEO.Title,
			Description:  landing.SEO.Description,
			Keywords:     landing.SEO.Keywords,
			OGImage:      landing.SEO.OGImage,
			OGURL:        p.site.AbsURL("/"),
			CanonicalURL: p.site.AbsURL("/"),
		})
		data.Title = meta.Title
		scope.Mount(seo.Organization{})
		scope.Mount(seo.WebPage{Name: meta.Title, Description: meta.Description, URL: p.site.AbsURL("/")})
	})
	return data, err
}

// Pricing builds the standalone pricing page.
func (p *Pages) Pricing(ctx context.Context) (PageData, error) {
	landing, err := p.content.Landing(ctx)
	if err != nil {
		return PageData{}, fmt.Errorf("load landing: %w", err)
	}
	data := p.base("pricing", "/pricing", "")
	data.Landing = &landing
	data.Tiers = tierViews(landing.Pricing.Tiers)

	url := p.site.AbsURL("/pricing")
	err = p.compose(&data, func(scope *seo.Scope) {
		meta := scope.Page(seo.PageOptions{
			Title:        firstNonEmpty(landing.Pricing.Heading, "Pricing"),
			Description:  firstNonEmpty(landing.Pricing.Description, landing.Pricing.Subheading),
			OGURL:        url,
			CanonicalURL: url,
		})
		data.Title = meta.Title
		scope.Mount(seo.WebPage{Name: meta.Title, Description: meta.Description, URL: url})
		scope.Mount(seo.Breadcrumb{Items: nav.SchemaItems(p.site, data.Breadcrumbs)})
	})
	return data, err
}

// Blog builds the article index.
func (p *Pages) Blog(ctx context.Context) (PageData, error) {
	articles, err := p.content.Articles(ctx)
	if err != nil {
		return PageData{}, fmt.Errorf("list articles: %w", err)
	}
	data := p.base("blog", "/blog", "")
	for _, a := range articles {
		data.Articles = append(data.Articles, articleView(a))
	}

	url := p.site.AbsURL("/blog")
	err = p.compose(&data, func(scope *seo.Scope) {
		meta := scope.Page(seo.PageOptions{
			Title:        "Blog",
			Description:  "Marketing playbooks, copywriting tips and product news from the " + p.site.Brand + " team.",
			OGURL:        url,
			CanonicalURL: url,
		})
		data.Title = meta.Title
		scope.Mount(seo.WebPage{Name: meta.Title, Description: meta.Description, URL: url})
		scope.Mount(seo.Breadcrumb{Items: nav.SchemaItems(p.site, data.Breadcrumbs)})
	})
	return data, err
}

// Article builds a single blog post. Unknown slugs yield cms.ErrNotFound.
func (p *Pages) Article(ctx context.Context, slug string) (PageData, error) {
	a, err := p.content.Article(ctx, slug)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return PageData{}, err
		}
		return PageData{}, fmt.Errorf("load article %q: %w", slug, err)
	}
	path := "/blog/" + a.Slug
	data := p.base("article", path, a.Title)
	view := articleView(a)
	data.Article = &view

	url := p.site.AbsURL(path)
	var image string
	if src := firstNonEmpty(a.SEO.OGImage, a.Image); src != "" {
		image = p.site.AbsURL(src)
	}
	err = p.compose(&data, func(scope *seo.Scope) {
		meta := scope.Page(seo.PageOptions{
			Title:        firstNonEmpty(a.SEO.Title, a.Title),
			Description:  firstNonEmpty(a.SEO.Description, a.Summary),
			Keywords:     firstNonEmpty(a.SEO.Keywords, strings.Join(a.Tags, ", ")),
			OGImage:      image,
			OGURL:        url,
			CanonicalURL: url,
			Type:         "article",
			NoIndex:      a.Draft,
		})
		data.Title = meta.Title
		scope.Mount(seo.Article{
			Headline:      a.Title,
			Description:   meta.Description,
			Image:         meta.OG.Image,
			DatePublished: format.ISODate(a.PublishedAt),
			DateModified:  format.ISODate(a.UpdatedAt),
			Author:        a.Author,
		})
		scope.Mount(seo.Breadcrumb{Items: nav.SchemaItems(p.site, data.Breadcrumbs)})
	})
	return data, err
}

// NotFound builds the 404 page. It is never indexed.
func (p *Pages) NotFound(path string) (PageData, error) {
	data := p.base("notfound", path, "")
	data.Breadcrumbs = nil
	err := p.compose(&data, func(scope *seo.Scope) {
		meta := scope.Page(seo.PageOptions{Title: "Page not found", NoIndex: true})
		data.Title = meta.Title
	})
	return data, err
}

func (p *Pages) base(tmpl, path, leaf string) PageData {
	return PageData{
		Template:    tmpl,
		Brand:       p.site.Brand,
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path, leaf),
		Analytics:   p.analytics,
	}
}

// compose mounts the page's bindings on a fresh head, renders it into data
// and releases the scope.
func (p *Pages) compose(data *PageData, mount func(*seo.Scope)) error {
	doc, err := head.Parse(strings.NewReader(baseHead))
	if err != nil {
		return fmt.Errorf("parse base head: %w", err)
	}
	scope := seo.Acquire(doc, p.site)
	defer scope.Release()

	mount(scope)
	out, err := doc.HTML()
	if err != nil {
		return fmt.Errorf("render head: %w", err)
	}
	if p.observer != nil {
		p.observer.SchemasRendered(scope.Mounted())
	}
	data.Head = template.HTML(out)
	return nil
}

func tierViews(tiers []cms.Tier) []TierView {
	out := make([]TierView, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, TierView{
			Name:      t.Name,
			Price:     format.PlanPrice(t.Price, t.Currency, t.Period),
			Summary:   t.Summary,
			Features:  t.Features,
			CTA:       t.CTA,
			Highlight: t.Highlight,
		})
	}
	return out
}

func articleView(a cms.Article) ArticleView {
	return ArticleView{
		Slug:      a.Slug,
		Href:      "/blog/" + a.Slug,
		Title:     a.Title,
		Summary:   a.Summary,
		Body:      a.Body,
		Image:     a.Image,
		Author:    a.Author,
		Tags:      a.Tags,
		Published: format.Date(a.PublishedAt),
		Updated:   format.Date(a.UpdatedAt),
		Draft:     a.Draft,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
