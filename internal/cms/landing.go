package cms

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const landingFile = "home.yaml"

// Landing is the content of the single-page marketing site.
type Landing struct {
	SEO          PageSEO
	Hero         Hero
	Features     []Feature
	Testimonials []Testimonial
	Pricing      Pricing
	FAQ          []FAQItem
	Footer       Footer
}

// PageSEO holds optional metadata overrides for a page.
type PageSEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
	OGImage     string `yaml:"og_image"`
}

type Hero struct {
	Badge        string `yaml:"badge"`
	Headline     string `yaml:"headline"`
	Subheadline  string `yaml:"subheadline"`
	PrimaryCTA   Link   `yaml:"primary_cta"`
	SecondaryCTA Link   `yaml:"secondary_cta"`
	Image        string `yaml:"image"`
	ImageAlt     string `yaml:"image_alt"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
	Role   string `yaml:"role"`
	Rating int    `yaml:"rating"`
}

type Pricing struct {
	Heading     string `yaml:"heading"`
	Subheading  string `yaml:"subheading"`
	Description string `yaml:"description"`
	Tiers       []Tier `yaml:"tiers"`
}

// Tier is one pricing plan. Price is in minor units of Currency.
type Tier struct {
	Name      string   `yaml:"name"`
	Price     int64    `yaml:"price"`
	Currency  string   `yaml:"currency"`
	Period    string   `yaml:"period"`
	Summary   string   `yaml:"summary"`
	Features  []string `yaml:"features"`
	CTA       Link     `yaml:"cta"`
	Highlight bool     `yaml:"highlight"`
}

// FAQItem pairs a question with its rendered markdown answer.
type FAQItem struct {
	Question string
	Answer   template.HTML
}

type Footer struct {
	Tagline   string         `yaml:"tagline"`
	Columns   []FooterColumn `yaml:"columns"`
	Copyright string         `yaml:"copyright"`
}

type FooterColumn struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type landingDoc struct {
	SEO          PageSEO       `yaml:"seo"`
	Hero         Hero          `yaml:"hero"`
	Features     []Feature     `yaml:"features"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Pricing      Pricing       `yaml:"pricing"`
	FAQ          []struct {
		Question string `yaml:"question"`
		Answer   string `yaml:"answer"`
	} `yaml:"faq"`
	Footer Footer `yaml:"footer"`
}

// Landing loads the marketing page content from home.yaml.
func (c *Client) Landing(ctx context.Context) (Landing, error) {
	if err := ctx.Err(); err != nil {
		return Landing{}, err
	}
	if v, ok := c.cached("landing"); ok {
		return cloneLanding(v.(Landing)), nil
	}

	file := filepath.Join(c.contentDir, landingFile)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Landing{}, ErrNotFound
		}
		return Landing{}, err
	}
	var doc landingDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Landing{}, fmt.Errorf("cms: parse %s: %w", file, err)
	}

	l := Landing{
		SEO:          doc.SEO,
		Hero:         doc.Hero,
		Features:     doc.Features,
		Testimonials: doc.Testimonials,
		Pricing:      doc.Pricing,
		Footer:       doc.Footer,
	}
	for i := range l.Pricing.Tiers {
		t := &l.Pricing.Tiers[i]
		t.Currency = strings.ToUpper(firstNonEmpty(t.Currency, "USD"))
		t.Period = firstNonEmpty(t.Period, "month")
	}
	for _, item := range doc.FAQ {
		answer, err := c.Markdown(item.Answer)
		if err != nil {
			return Landing{}, fmt.Errorf("cms: render faq %q: %w", item.Question, err)
		}
		l.FAQ = append(l.FAQ, FAQItem{Question: strings.TrimSpace(item.Question), Answer: answer})
	}

	c.store("landing", l)
	return cloneLanding(l), nil
}

func cloneLanding(src Landing) Landing {
	cp := src
	cp.Features = append([]Feature(nil), src.Features...)
	cp.Testimonials = append([]Testimonial(nil), src.Testimonials...)
	cp.FAQ = append([]FAQItem(nil), src.FAQ...)
	cp.Pricing.Tiers = make([]Tier, len(src.Pricing.Tiers))
	for i, t := range src.Pricing.Tiers {
		t.Features = append([]string(nil), t.Features...)
		cp.Pricing.Tiers[i] = t
	}
	cp.Footer.Columns = append([]FooterColumn(nil), src.Footer.Columns...)
	return cp
}
