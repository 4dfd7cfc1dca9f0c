package cms

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const articlesKind = "blog"

// Article is a blog post sourced from local markdown with YAML front matter.
type Article struct {
	Slug        string
	Title       string
	Summary     string
	Body        template.HTML
	Image       string
	Author      string
	Tags        []string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	SEO         PageSEO
}

type articleFrontMatter struct {
	Title       string   `yaml:"title"`
	Summary     string   `yaml:"summary"`
	Image       string   `yaml:"image"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	PublishedAt string   `yaml:"published_at"`
	UpdatedAt   string   `yaml:"updated_at"`
	SEO         PageSEO  `yaml:"seo"`
}

// Article fetches a single post by slug.
func (c *Client) Article(ctx context.Context, slug string) (Article, error) {
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Article{}, ErrNotFound
	}
	cacheKey := articlesKind + "|" + slug
	if v, ok := c.cached(cacheKey); ok {
		return cloneArticle(v.(Article)), nil
	}
	a, err := c.readArticle(slug)
	if err != nil {
		return Article{}, err
	}
	c.store(cacheKey, a)
	return cloneArticle(a), nil
}

// Articles lists published posts, newest first. Drafts are omitted.
func (c *Client) Articles(ctx context.Context) ([]Article, error) {
	dir := filepath.Join(c.contentDir, articlesKind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Article{}, nil
		}
		return nil, err
	}
	out := make([]Article, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		a, err := c.Article(ctx, strings.TrimSuffix(e.Name(), ".md"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if a.Draft {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}

func (c *Client) readArticle(slug string) (Article, error) {
	file := filepath.Join(c.contentDir, articlesKind, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Article{}, ErrNotFound
		}
		return Article{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := articleFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Article{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	html, err := c.Markdown(body)
	if err != nil {
		return Article{}, fmt.Errorf("cms: render %s: %w", file, err)
	}
	a := Article{
		Slug:        slug,
		Title:       strings.TrimSpace(front.Title),
		Summary:     strings.TrimSpace(front.Summary),
		Body:        html,
		Image:       strings.TrimSpace(front.Image),
		Author:      strings.TrimSpace(front.Author),
		Tags:        front.Tags,
		Draft:       front.Draft,
		PublishedAt: parseContentDate(front.PublishedAt),
		UpdatedAt:   parseContentDate(front.UpdatedAt),
		SEO: PageSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			Keywords:    strings.TrimSpace(front.SEO.Keywords),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	if a.PublishedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			a.PublishedAt = info.ModTime().UTC()
		}
	}
	if a.Title == "" {
		a.Title = prettifySlug(slug)
	}
	return a, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") {
		return ""
	}
	if strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func cloneArticle(src Article) Article {
	cp := src
	cp.Tags = append([]string(nil), src.Tags...)
	return cp
}
