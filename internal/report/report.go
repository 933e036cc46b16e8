// Package report renders analysis results as JSON, SARIF 2.1.0, or a
// compact text summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/rules"
	"github.com/nibzard/slidegauge/internal/scan"
)

// Slide is the wire form of one analyzed slide.
type Slide struct {
	UUID         string          `json:"uuid"`
	Title        string          `json:"title"`
	Body         string          `json:"body"`
	Metrics      scan.Metrics    `json:"metrics"`
	Diagnostics  []rules.Finding `json:"diagnostics"`
	Score        int             `json:"score"`
	BucketScores map[string]int  `json:"bucket_scores"`
}

// Document is the top-level JSON report.
type Document struct {
	Slides  []Slide        `json:"slides"`
	Summary engine.Summary `json:"summary"`
	Engine  engine.Meta    `json:"engine"`
}

// New assembles a document from slide results and deck metadata.
func New(results []engine.SlideResult, summary engine.Summary, meta engine.Meta) Document {
	slides := make([]Slide, len(results))
	for i, r := range results {
		slides[i] = Slide{
			UUID:         r.UUID,
			Title:        r.Title,
			Body:         r.Body,
			Metrics:      r.Metrics,
			Diagnostics:  r.Diagnostics,
			Score:        r.Score,
			BucketScores: r.BucketScores,
		}
	}
	return Document{Slides: slides, Summary: summary, Engine: meta}
}

// FromAnalysis assembles the document for a completed analysis.
func FromAnalysis(a *engine.Analysis) Document {
	return New(a.Results, a.Summary, a.Meta)
}

// RenderJSON serializes the document with two-space indentation.
func RenderJSON(doc Document) (string, error) {
	return marshalIndent(doc)
}

// marshalIndent encodes without HTML escaping so URLs and inline markup
// stay readable, and trims the encoder's trailing newline.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
