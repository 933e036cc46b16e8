// Package deck parses Marp-style Markdown documents into slides: fence-aware
// splitting, per-slide frontmatter, inline override directives, title
// extraction and content-addressed identities.
package deck

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/scan"
)

// Slide is one parsed slide. It is a value record; nothing mutates it after
// Parse returns.
type Slide struct {
	Index     int
	UUID      string
	Title     string
	Body      string
	Metrics   scan.Metrics
	Overrides Overrides
}

// Identity returns the content-addressed identity of a slide body:
// "uuid5:" plus the UUIDv5 of the trimmed text under the nil namespace.
// Identical slide text always maps to the same identity, across documents
// and across runs.
func Identity(body string) string {
	return "uuid5:" + uuid.NewSHA1(uuid.Nil, []byte(strings.TrimSpace(body))).String()
}

// Parse splits a document into analyzed slides: frontmatter stripped,
// inline overrides collected, title extracted, features scanned with the
// given limits, identity computed. Slide-local patches do not influence
// metrics; they apply at rule-evaluation time.
func Parse(document string, lim config.Limits) []Slide {
	texts := Split(strings.Split(document, "\n"))
	slides := make([]Slide, 0, len(texts))

	for i, text := range texts {
		_, content := ExtractFrontmatter(text)
		lines := strings.Split(content, "\n")
		_, title := scan.FindTitle(lines)

		slides = append(slides, Slide{
			Index:     i,
			UUID:      Identity(content),
			Title:     title,
			Body:      content,
			Metrics:   scan.Scan(content, lim),
			Overrides: ParseOverrides(lines),
		})
	}
	return slides
}
