package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nibzard/slidegauge/internal/engine"
)

// RenderText produces the compact per-slide listing plus a deck summary
// line. Bucket scores are listed in sorted key order.
func RenderText(results []engine.SlideResult, summary engine.Summary) string {
	threshold, _ := summary.Threshold.Float64()
	avg, _ := summary.AvgScore.Float64()

	lines := make([]string, 0, len(results)+1)
	passing := 0
	for _, r := range results {
		status := "❌"
		if float64(r.Score) >= threshold {
			status = "✓"
			passing++
		}

		issues := "no issues"
		if len(r.Diagnostics) > 0 {
			parts := make([]string, len(r.Diagnostics))
			for i, f := range r.Diagnostics {
				parts[i] = fmt.Sprintf("%s(%d)", f.Rule, f.Deduction)
			}
			issues = strings.Join(parts, ", ")
		}

		lines = append(lines, fmt.Sprintf("Slide %d (%s %d) • %s", r.Index+1, status, r.Score, issues))
	}

	buckets := make([]string, 0, len(summary.BucketScores))
	for _, name := range slices.Sorted(maps.Keys(summary.BucketScores)) {
		buckets = append(buckets, fmt.Sprintf("%s=%s", name, summary.BucketScores[name]))
	}

	lines = append(lines, fmt.Sprintf("SUMMARY: %s • avg=%.1f • passing=%d/%d • threshold=%s",
		strings.Join(buckets, " "), avg, passing, len(results), summary.Threshold))

	return strings.Join(lines, "\n")
}
