package seo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"quillmarketing.com/quill-web/internal/head"
)

func TestStructuredDataLifecycle(t *testing.T) {
	doc := head.New()
	b := NewStructuredData(doc, DefaultSite())
	require.False(t, b.Mounted())

	b.Mount(WebPage{Name: "Home", Description: "d", URL: "https://quillmarketing.com/"})
	require.True(t, b.Mounted())
	require.Equal(t, 1, doc.Count(WebPageSchemaID, head.KindScriptLDJSON))

	b.Update(WebPage{Name: "Pricing", Description: "d", URL: "https://quillmarketing.com/pricing"})
	require.Equal(t, 1, doc.Count(WebPageSchemaID, head.KindScriptLDJSON))
	content, _ := doc.Content(WebPageSchemaID, head.KindScriptLDJSON)
	require.Contains(t, content, `"name":"Pricing"`)

	b.Unmount()
	require.False(t, b.Mounted())
	require.Zero(t, doc.Count(WebPageSchemaID, head.KindScriptLDJSON))

	require.NotPanics(t, b.Unmount)
	require.Zero(t, doc.Len())
}

func TestStructuredDataSwitchingSchemaRemovesOldScript(t *testing.T) {
	doc := head.New()
	b := NewStructuredData(doc, DefaultSite())

	b.Mount(WebPage{Name: "Blog"})
	b.Update(Article{Headline: "Hello", DatePublished: "2024-01-01"})

	require.Zero(t, doc.Count(WebPageSchemaID, head.KindScriptLDJSON))
	require.Equal(t, 1, doc.Count(ArticleSchemaID, head.KindScriptLDJSON))
	require.Equal(t, ArticleSchemaID, b.Key())
}

func TestStructuredDataUsesWriterOnly(t *testing.T) {
	rec := &recorder{}
	b := NewStructuredData(rec, DefaultSite())
	b.Mount(Breadcrumb{Items: []BreadcrumbItem{{Name: "Home", URL: "/"}}})
	b.Unmount()
	b.Unmount()

	require.Len(t, rec.calls, 2)
	require.Equal(t, call{op: "upsert", key: BreadcrumbSchemaID, kind: head.KindScriptLDJSON, content: rec.calls[0].content}, rec.calls[0])
	require.Equal(t, call{op: "remove", key: BreadcrumbSchemaID, kind: head.KindScriptLDJSON}, rec.calls[1])
}

func TestScopeRelease(t *testing.T) {
	doc := head.New()
	site := DefaultSite()
	scope := Acquire(doc, site)

	scope.Page(PageOptions{Title: "Blog"})
	scope.Mount(Organization{})
	scope.Mount(Breadcrumb{Items: []BreadcrumbItem{{Name: "Home", URL: site.AbsURL("/")}}})
	scope.Mount(Breadcrumb{Items: []BreadcrumbItem{{Name: "Home", URL: site.AbsURL("/")}, {Name: "Blog", URL: site.AbsURL("/blog")}}})

	require.Equal(t, []head.TagKey{OrganizationSchemaID, BreadcrumbSchemaID}, scope.Mounted())
	require.Equal(t, 1, doc.Count(BreadcrumbSchemaID, head.KindScriptLDJSON))
	crumbs, _ := doc.Content(BreadcrumbSchemaID, head.KindScriptLDJSON)
	require.Contains(t, crumbs, `"position":2`)

	scope.Release()
	require.Empty(t, scope.Mounted())
	require.Zero(t, doc.Count(OrganizationSchemaID, head.KindScriptLDJSON))
	require.Zero(t, doc.Count(BreadcrumbSchemaID, head.KindScriptLDJSON))

	title, ok := doc.Content("title", head.KindTitle)
	require.True(t, ok, "page metadata stays after release")
	require.Equal(t, "Blog | QuillMarketing", title)

	require.NotPanics(t, scope.Release)
}
