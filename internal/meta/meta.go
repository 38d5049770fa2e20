// Package meta provides the per-page title, description, social tags and
// canonical link.
package meta

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"zymo/internal/blog"
)

//go:embed pages.yaml
var pagesYAML []byte

// Page is the metadata rendered into a page head.
type Page struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	OGTitle       string `json:"ogTitle,omitempty"`
	OGDescription string `json:"ogDescription,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
}

type entry struct {
	Title         string `yaml:"title"`
	FallbackTitle string `yaml:"fallback_title"`
	Description   string `yaml:"description"`
	OGTitle       string `yaml:"og_title"`
	OGDescription string `yaml:"og_description"`
	Canonical     string `yaml:"canonical"`
	Excerpt       int    `yaml:"excerpt"`
}

type document struct {
	BaseURL string           `yaml:"base_url"`
	Pages   map[string]entry `yaml:"pages"`
}

// Catalog holds the configured pages.
type Catalog struct {
	baseURL string
	pages   map[string]entry
}

// Load parses the embedded page catalog.
func Load() (*Catalog, error) {
	return Parse(pagesYAML)
}

// Parse reads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("meta: parse pages: %w", err)
	}
	if doc.BaseURL == "" {
		return nil, errors.New("meta: base_url required")
	}
	for _, name := range []string{"career", "blogs", "blog_detail"} {
		if _, ok := doc.Pages[name]; !ok {
			return nil, fmt.Errorf("meta: page %q missing", name)
		}
	}
	return &Catalog{baseURL: strings.TrimRight(doc.BaseURL, "/"), pages: doc.Pages}, nil
}

func (c *Catalog) static(name string) Page {
	e := c.pages[name]
	p := Page{
		Title:         e.Title,
		Description:   e.Description,
		OGTitle:       e.OGTitle,
		OGDescription: e.OGDescription,
		Canonical:     c.baseURL + e.Canonical,
	}
	if p.OGTitle == "" {
		p.OGTitle = p.Title
	}
	if p.OGDescription == "" {
		p.OGDescription = p.Description
	}
	return p
}

// Career is the career page metadata.
func (c *Catalog) Career() Page { return c.static("career") }

// Blogs is the blog listing metadata.
func (c *Catalog) Blogs() Page { return c.static("blogs") }

// BlogDetail is the metadata for a resolved blog record. The description
// is an excerpt of the record text; the social description carries the
// full text.
func (c *Catalog) BlogDetail(rec blog.Record) Page {
	e := c.pages["blog_detail"]
	if rec.Title == "" {
		return Page{Title: e.FallbackTitle, OGTitle: e.FallbackTitle}
	}
	n := e.Excerpt
	if n <= 0 {
		n = 150
	}
	title := fmt.Sprintf(e.Title, rec.Title)
	return Page{
		Title:         title,
		Description:   blog.Excerpt(rec.Description, n),
		OGTitle:       title,
		OGDescription: blog.Text(rec.Description),
		Canonical:     c.baseURL + fmt.Sprintf(e.Canonical, escapeComponent(rec.Title)),
	}
}

// escapeComponent percent-encodes every byte of s except letters, digits
// and -_.!~*'(), the set browsers leave alone in encodeURIComponent.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
