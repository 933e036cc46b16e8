package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/rules"
)

func analyzeDoc(t *testing.T, document string) *engine.Analysis {
	t.Helper()
	store := cache.New(filepath.Join(t.TempDir(), cache.DefaultFile), nil)
	a, err := engine.New(store, nil).Analyze(context.Background(), document, nil, false)
	require.NoError(t, err)
	return a
}

func TestRenderJSON_EmptyDeckExactOutput(t *testing.T) {
	a := analyzeDoc(t, "")
	out, err := RenderJSON(FromAnalysis(a))
	require.NoError(t, err)

	checksum, err := config.Checksum(config.Effective(nil))
	require.NoError(t, err)

	want := fmt.Sprintf(`{
  "slides": [],
  "summary": {
    "total_slides": 0,
    "avg_score": 0,
    "min_score": 0,
    "max_score": 0,
    "threshold": 70,
    "bucket_scores": {
      "a11y": 100,
      "code": 100,
      "color": 100,
      "content": 100,
      "layout": 100
    },
    "passing": 0,
    "total_issues": 0
  },
  "engine": {
    "version": "0.2.0",
    "config_checksum": "%s",
    "rule_order": [
      "accessibility/alt_required",
      "bullets/too_many",
      "code/too_long",
      "color/low_contrast",
      "color/too_many",
      "content/too_long",
      "content/too_short",
      "lines/too_many",
      "links/bare_urls",
      "title/required",
      "title/too_long"
    ]
  }
}`, checksum)
	assert.Equal(t, want, out)
}

func TestRenderJSON_SlideShape(t *testing.T) {
	a := analyzeDoc(t, "# T\nshort")
	out, err := RenderJSON(FromAnalysis(a))
	require.NoError(t, err)

	// Top-level and per-slide key order.
	assert.Contains(t, out, "\"slides\": [\n    {\n      \"uuid\": \"uuid5:")
	assert.Contains(t, out, "\"title\": \"T\",\n      \"body\": \"# T\\nshort\",\n      \"metrics\": {")
	assert.Contains(t, out, "\"title_length\": 1,\n        \"content_chars\": 5,\n        \"content_chars_adjusted\": 5,")
	assert.Contains(t, out, `"min_contrast": null`)
	assert.Contains(t, out,
		"\"diagnostics\": [\n        {\n          \"rule\": \"content/too_short\",\n"+
			"          \"severity\": \"info\",\n"+
			"          \"message\": \"Content 5 < min 50 (add ~45 chars)\",\n"+
			"          \"deduction\": 5,\n"+
			"          \"patch\": []\n        }\n      ],")
	assert.Contains(t, out, "\"score\": 95,\n      \"bucket_scores\": {")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	slides := decoded["slides"].([]any)
	require.Len(t, slides, 1)
	slide := slides[0].(map[string]any)
	assert.Equal(t, "T", slide["title"])
	assert.Equal(t, float64(95), slide["score"])

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(95), summary["avg_score"])
	assert.Equal(t, float64(1), summary["total_issues"])
}

func TestRenderJSON_DoesNotEscapeHTML(t *testing.T) {
	doc := New([]engine.SlideResult{{
		UUID:         "uuid5:x",
		Title:        "<b> & stuff",
		Body:         "see https://example.com?a=1&b=2",
		Diagnostics:  []rules.Finding{},
		BucketScores: map[string]int{},
	}}, engine.Summary{Threshold: json.Number("70"), AvgScore: json.Number("100.0"), BucketScores: map[string]json.Number{}}, engine.Meta{Version: engine.Version})

	out, err := RenderJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "<b> & stuff"`)
	assert.Contains(t, out, `"body": "see https://example.com?a=1&b=2"`)
}

func TestFromAnalysis_PreservesOrderAndCounts(t *testing.T) {
	a := analyzeDoc(t, "# One\nbody one\n---\n# Two\nbody two")
	doc := FromAnalysis(a)

	require.Len(t, doc.Slides, 2)
	assert.Equal(t, "One", doc.Slides[0].Title)
	assert.Equal(t, "Two", doc.Slides[1].Title)
	assert.Equal(t, a.Summary, doc.Summary)
	assert.Equal(t, a.Meta, doc.Engine)
}
