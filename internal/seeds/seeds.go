// Package seeds embeds the default context sections and the static pages
// that are indexed without a backing source record.
package seeds

import (
	"embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

//go:embed contexts.toml static.toml
var files embed.FS

// StaticPage is a fixed content page with no source record.
type StaticPage struct {
	Type     domain.ContentType `toml:"type"`
	Key      string             `toml:"key"`
	Title    string             `toml:"title"`
	Slug     string             `toml:"slug"`
	URL      string             `toml:"url"`
	Summary  string             `toml:"summary"`
	Keywords string             `toml:"keywords"`
	Tags     string             `toml:"tags"`
	Category string             `toml:"category"`
	Body     string             `toml:"body"`

	// PriorityOffset shifts the page from its type's configured priority.
	PriorityOffset int `toml:"priority_offset"`
}

type contextFile struct {
	Sections []struct {
		Section      string `toml:"section"`
		Title        string `toml:"title"`
		Content      string `toml:"content"`
		Keywords     string `toml:"keywords"`
		DisplayOrder int    `toml:"display_order"`
	} `toml:"sections"`
}

type staticFile struct {
	Pages []StaticPage `toml:"pages"`
}

// ContextSections returns the default curated sections in display order.
func ContextSections() ([]domain.ContextSection, error) {
	data, err := files.ReadFile("contexts.toml")
	if err != nil {
		return nil, fmt.Errorf("read context seeds: %w", err)
	}

	var f contextFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse context seeds: %w", err)
	}

	sections := make([]domain.ContextSection, 0, len(f.Sections))
	for _, s := range f.Sections {
		sections = append(sections, domain.ContextSection{
			Section:      s.Section,
			Title:        s.Title,
			Content:      strings.TrimSpace(s.Content),
			Keywords:     s.Keywords,
			IsActive:     true,
			DisplayOrder: s.DisplayOrder,
		})
	}
	return sections, nil
}

// StaticPages returns every embedded static page.
func StaticPages() ([]StaticPage, error) {
	data, err := files.ReadFile("static.toml")
	if err != nil {
		return nil, fmt.Errorf("read static pages: %w", err)
	}

	var f staticFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse static pages: %w", err)
	}
	return f.Pages, nil
}

// StaticPagesFor returns the static pages of one content type.
func StaticPagesFor(t domain.ContentType) ([]StaticPage, error) {
	pages, err := StaticPages()
	if err != nil {
		return nil, err
	}
	var out []StaticPage
	for _, p := range pages {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}
