package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"quillmarketing.com/quill-web/internal/cms"
	"quillmarketing.com/quill-web/internal/head"
	"quillmarketing.com/quill-web/internal/seo"
)

type schemaLog struct {
	ids [][]head.TagKey
}

func (l *schemaLog) SchemasRendered(ids []head.TagKey) {
	l.ids = append(l.ids, ids)
}

func newTestPages(t *testing.T) (*Pages, *schemaLog) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"home.yaml": `
seo:
  description: Grow with Quill
hero:
  headline: Write less, grow more
pricing:
  heading: Simple pricing
  description: Plans for every team
  tiers:
    - name: Starter
      price: 0
    - name: Pro
      price: 1900
`,
		"blog/launch-checklist.md": "---\ntitle: Launch checklist\nsummary: Ship with confidence\nimage: /blog/launch.jpg\ntags: [launch, checklist]\npublished_at: 2024-02-10\nupdated_at: 2024-02-12\n---\nBody\n",
		"blog/secret-plans.md":     "---\ntitle: Secret plans\ndraft: true\npublished_at: 2024-03-01\n---\nBody\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	log := &schemaLog{}
	return NewPages(seo.DefaultSite(), cms.NewClient(dir, time.Minute), Analytics{}, log), log
}

func parseHead(t *testing.T, data PageData) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head>" + string(data.Head) + "</head><body></body></html>"))
	require.NoError(t, err)
	return doc
}

func TestHomeHead(t *testing.T) {
	pages, log := newTestPages(t)

	data, err := pages.Home(context.Background())
	require.NoError(t, err)
	require.Equal(t, "home", data.Template)
	require.Equal(t, "QuillMarketing - Modern Marketing Solutions", data.Title)
	require.Equal(t, []string{"Free", "$19/month"}, []string{data.Tiers[0].Price, data.Tiers[1].Price})

	doc := parseHead(t, data)
	require.Equal(t, "utf-8", doc.Find("meta[charset]").First().AttrOr("charset", ""), "static head comes first")
	require.Equal(t, 1, doc.Find(`meta[name="viewport"]`).Length())
	require.Equal(t, "Grow with Quill", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	require.Equal(t, "index, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	require.Equal(t, "https://quillmarketing.com/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	require.Equal(t, 1, doc.Find(`script#organization-schema[type="application/ld+json"]`).Length())
	require.Contains(t, doc.Find(`script#webpage-schema`).Text(), `"url":"https://quillmarketing.com/"`)
	require.Zero(t, doc.Find(`script#breadcrumb-schema`).Length())

	require.Equal(t, [][]head.TagKey{{seo.OrganizationSchemaID, seo.WebPageSchemaID}}, log.ids)
}

func TestPricingHead(t *testing.T) {
	pages, _ := newTestPages(t)

	data, err := pages.Pricing(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Simple pricing | QuillMarketing", data.Title)

	doc := parseHead(t, data)
	require.Equal(t, "Plans for every team", doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	crumbs := doc.Find(`script#breadcrumb-schema`).Text()
	require.Contains(t, crumbs, `{"@type":"ListItem","position":2,"name":"Pricing","item":"https://quillmarketing.com/pricing"}`)
}

func TestBlogListsPublishedArticles(t *testing.T) {
	pages, _ := newTestPages(t)

	data, err := pages.Blog(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Articles, 1)
	require.Equal(t, "/blog/launch-checklist", data.Articles[0].Href)
	require.Equal(t, "Feb 10, 2024", data.Articles[0].Published)
	require.True(t, data.Nav[3].Active, "blog nav item is active")
}

func TestArticleHead(t *testing.T) {
	pages, log := newTestPages(t)

	data, err := pages.Article(context.Background(), "launch-checklist")
	require.NoError(t, err)
	require.Equal(t, "Launch checklist | QuillMarketing", data.Title)
	require.Equal(t, "Launch checklist", data.Breadcrumbs[2].Label)

	doc := parseHead(t, data)
	require.Equal(t, "article", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	require.Equal(t, "https://quillmarketing.com/blog/launch.jpg", doc.Find(`meta[property="twitter:image"]`).AttrOr("content", ""))
	require.Equal(t, "launch, checklist", doc.Find(`meta[name="keywords"]`).AttrOr("content", ""))
	article := doc.Find(`script#article-schema`).Text()
	require.Contains(t, article, `"datePublished":"2024-02-10","dateModified":"2024-02-12"`)
	require.Contains(t, article, `"author":{"@type":"Organization","name":"QuillMarketing"}`)
	require.Equal(t, []head.TagKey{seo.ArticleSchemaID, seo.BreadcrumbSchemaID}, log.ids[0])
}

func TestDraftArticleIsNoIndex(t *testing.T) {
	pages, _ := newTestPages(t)

	data, err := pages.Article(context.Background(), "secret-plans")
	require.NoError(t, err)
	require.True(t, data.Article.Draft)
	doc := parseHead(t, data)
	require.Equal(t, "noindex, nofollow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	require.Contains(t, doc.Find(`script#article-schema`).Text(), `"dateModified":"2024-03-01"`)
}

func TestMissingArticle(t *testing.T) {
	pages, _ := newTestPages(t)

	_, err := pages.Article(context.Background(), "nope")
	require.ErrorIs(t, err, cms.ErrNotFound)
}

func TestNotFoundHead(t *testing.T) {
	pages, log := newTestPages(t)

	data, err := pages.NotFound("/missing")
	require.NoError(t, err)
	require.Equal(t, "Page not found | QuillMarketing", data.Title)
	require.Nil(t, data.Breadcrumbs)
	doc := parseHead(t, data)
	require.Equal(t, "noindex, nofollow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	require.Zero(t, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Zero(t, doc.Find(`link[rel="canonical"]`).Length())
	require.Equal(t, [][]head.TagKey{{}}, log.ids)
}
