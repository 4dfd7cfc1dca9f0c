package cms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testLanding = `
seo:
  title: Modern Marketing Solutions
hero:
  headline: Write less, grow more
  primary_cta:
    label: Get started
    href: "#pricing"
features:
  - title: Sync
    description: Everywhere
pricing:
  heading: Pricing
  tiers:
    - name: Starter
      price: 0
    - name: Pro
      price: 1900
      currency: usd
      period: month
      features: [Unlimited drafts, Analytics]
      highlight: true
faq:
  - question: " Can I cancel? "
    answer: "Yes, **anytime**. <script>alert(1)</script>"
footer:
  copyright: "© QuillMarketing"
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLandingParsesAndSanitizes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "home.yaml"), testLanding)
	c := NewClient(dir, time.Minute)

	l, err := c.Landing(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Write less, grow more", l.Hero.Headline)
	require.Equal(t, "#pricing", l.Hero.PrimaryCTA.Href)
	require.Len(t, l.Pricing.Tiers, 2)
	require.Equal(t, "USD", l.Pricing.Tiers[0].Currency, "currency defaults to USD")
	require.Equal(t, "month", l.Pricing.Tiers[0].Period)
	require.Equal(t, int64(1900), l.Pricing.Tiers[1].Price)
	require.True(t, l.Pricing.Tiers[1].Highlight)

	require.Len(t, l.FAQ, 1)
	require.Equal(t, "Can I cancel?", l.FAQ[0].Question)
	answer := string(l.FAQ[0].Answer)
	require.Contains(t, answer, "<strong>anytime</strong>")
	require.NotContains(t, answer, "<script>")
}

func TestLandingIsCachedAndCloned(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.yaml")
	writeFile(t, path, testLanding)
	c := NewClient(dir, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.Landing(context.Background())
	require.NoError(t, err)
	first.Pricing.Tiers[1].Features[0] = "mutated"

	writeFile(t, path, strings.Replace(testLanding, "Write less, grow more", "Changed", 1))
	second, err := c.Landing(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Write less, grow more", second.Hero.Headline, "cached value should be served within ttl")
	require.Equal(t, "Unlimited drafts", second.Pricing.Tiers[1].Features[0], "callers must not mutate the cache")

	now = now.Add(2 * time.Minute)
	third, err := c.Landing(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Changed", third.Hero.Headline)
}

func TestLandingMissing(t *testing.T) {
	_, err := NewClient(t.TempDir(), time.Minute).Landing(context.Background())
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLandingHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(t.TempDir(), time.Minute).Landing(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestArticleFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blog", "headline-formulas.md"), `---
title: Ten headline formulas
summary: Copy that converts
image: https://quillmarketing.com/blog/headlines.jpg
author: Ada Quill
tags: [copywriting]
published_at: 2024-03-01
seo:
  description: Headlines that get clicked
---
# Formula one

Lead with the *outcome*.
`)
	c := NewClient(dir, time.Minute)

	a, err := c.Article(context.Background(), "Headline-Formulas")
	require.NoError(t, err)
	require.Equal(t, "headline-formulas", a.Slug)
	require.Equal(t, "Ten headline formulas", a.Title)
	require.Equal(t, "Ada Quill", a.Author)
	require.Equal(t, "2024-03-01", a.PublishedAt.Format("2006-01-02"))
	require.True(t, a.UpdatedAt.IsZero())
	require.Equal(t, "Headlines that get clicked", a.SEO.Description)
	require.Contains(t, string(a.Body), `<h1 id="formula-one">Formula one</h1>`)
	require.Contains(t, string(a.Body), "<em>outcome</em>")
}

func TestArticleSlugHandling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blog", "no-front-matter.md"), "Just text.\n")
	c := NewClient(dir, time.Minute)

	a, err := c.Article(context.Background(), "no-front-matter")
	require.NoError(t, err)
	require.Equal(t, "No Front Matter", a.Title)
	require.False(t, a.PublishedAt.IsZero(), "published date falls back to file mod time")

	for _, slug := range []string{"", "../secrets", "blog/other", "missing"} {
		_, err := c.Article(context.Background(), slug)
		require.ErrorIs(t, err, ErrNotFound, "slug %q", slug)
	}
}

func TestArticlesSortedWithoutDrafts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blog", "older.md"), "---\ntitle: Older\npublished_at: 2024-01-01\n---\nbody\n")
	writeFile(t, filepath.Join(dir, "blog", "newer.md"), "---\ntitle: Newer\npublished_at: 2024-02-01\n---\nbody\n")
	writeFile(t, filepath.Join(dir, "blog", "draft.md"), "---\ntitle: Draft\ndraft: true\npublished_at: 2024-03-01\n---\nbody\n")
	writeFile(t, filepath.Join(dir, "blog", "notes.txt"), "ignored")

	list, err := NewClient(dir, time.Minute).Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "newer", list[0].Slug)
	require.Equal(t, "older", list[1].Slug)
}

func TestArticlesEmptyDir(t *testing.T) {
	list, err := NewClient(t.TempDir(), time.Minute).Articles(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body := splitFrontMatter("\ufeff---\ntitle: x\n---\n\nbody")
	require.Equal(t, "title: x", fm)
	require.Equal(t, "body", body)

	fm, body = splitFrontMatter("---\nunterminated")
	require.Empty(t, fm)
	require.Equal(t, "---\nunterminated", body)
}
