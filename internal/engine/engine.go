// Package engine runs the full analysis pipeline: parse slides, reuse
// cached results by content identity, evaluate cache misses against the
// rule catalogue, run the cross-slide duplicate-title pass, and assemble
// the deck summary.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/deck"
	"github.com/nibzard/slidegauge/internal/rules"
	"github.com/nibzard/slidegauge/internal/scan"
)

// Version is the analyzer version reported in engine metadata and SARIF.
const Version = "0.2.0"

// SlideResult is one scored slide: parse-time fields plus the evaluation
// outcome, either freshly computed or reused from the cache.
type SlideResult struct {
	Index        int
	UUID         string
	Title        string
	Body         string
	Metrics      scan.Metrics
	Diagnostics  []rules.Finding
	Score        int
	BucketScores map[string]int
}

// Summary aggregates per-slide scores for the whole deck. Fields the wire
// format carries as floats are json.Number so their serialized shape is
// exact ("100.0", never "100").
type Summary struct {
	TotalSlides  int                    `json:"total_slides"`
	AvgScore     json.Number            `json:"avg_score"`
	MinScore     int                    `json:"min_score"`
	MaxScore     int                    `json:"max_score"`
	Threshold    json.Number            `json:"threshold"`
	BucketScores map[string]json.Number `json:"bucket_scores"`
	Passing      int                    `json:"passing"`
	TotalIssues  int                    `json:"total_issues"`
}

// Meta identifies the engine build and configuration a result came from.
type Meta struct {
	Version        string   `json:"version"`
	ConfigChecksum string   `json:"config_checksum"`
	RuleOrder      []string `json:"rule_order"`
}

// Analysis is the complete outcome of one analyze run.
type Analysis struct {
	Results []SlideResult
	Summary Summary
	Meta    Meta

	rawAvg    float64
	threshold float64
}

// RawAverage returns the unrounded mean slide score.
func (a *Analysis) RawAverage() float64 { return a.rawAvg }

// Passed reports whether the unrounded average meets the threshold.
func (a *Analysis) Passed() bool { return a.rawAvg >= a.threshold }

// Engine evaluates decks against the rule catalogue with a shared result
// cache. Safe for concurrent use; the cache store serializes persistence.
type Engine struct {
	catalogue []rules.Rule
	store     *cache.Store
	logger    *slog.Logger
}

// New creates an engine backed by the given cache store. A nil store
// disables caching; every slide is evaluated fresh.
func New(store *cache.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalogue: rules.Catalogue(),
		store:     store,
		logger:    logger,
	}
}

// Catalogue returns the engine's rule registry in declared order.
func (e *Engine) Catalogue() []rules.Rule {
	return slices.Clone(e.catalogue)
}

// Analyze scores every slide in document. The overlay is layered over the
// default configuration for the whole request; inline slide directives are
// layered on top of that. Cache hits are returned verbatim; only misses
// are evaluated, optionally in parallel.
func (e *Engine) Analyze(ctx context.Context, document string, overlay config.Config, parallel bool) (*Analysis, error) {
	effective := config.Effective(overlay)
	lim, err := config.DecodeLimits(effective)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slides := deck.Parse(document, lim)

	var cached map[string]cache.Entry
	if e.store != nil {
		cached = e.store.Load()
	}
	results := make([]SlideResult, len(slides))
	limits := make([]config.Limits, len(slides))
	var misses []int
	for i, s := range slides {
		if entry, ok := cached[s.UUID]; ok {
			results[i] = resultFromEntry(s, entry)
			continue
		}
		misses = append(misses, i)
	}
	e.logger.Debug("analyzing deck", "slides", len(slides), "cache_hits", len(slides)-len(misses))

	if err := e.evaluateIndices(ctx, slides, effective, lim, misses, results, limits, parallel); err != nil {
		return nil, err
	}

	// Duplicate titles are detected across the whole deck, cached slides
	// included, but only cache misses get findings attached: hits are
	// reused verbatim.
	attachDuplicates(slides, misses, results, limits)

	if e.store != nil && len(misses) > 0 {
		entries := make(map[string]cache.Entry, len(misses))
		for _, i := range misses {
			entries[slides[i].UUID] = cache.Entry{
				Diagnostics:  results[i].Diagnostics,
				Score:        results[i].Score,
				BucketScores: results[i].BucketScores,
			}
		}
		if err := e.store.Merge(entries); err != nil {
			return nil, err
		}
	}

	meta, err := e.meta(effective)
	if err != nil {
		return nil, err
	}

	summary, rawAvg := buildSummary(results, effective, lim)
	return &Analysis{
		Results:   results,
		Summary:   summary,
		Meta:      meta,
		rawAvg:    rawAvg,
		threshold: lim.Threshold,
	}, nil
}

// Evaluate scores slides without consulting or updating the cache: every
// slide is evaluated fresh, with the duplicate-title pass applied to all.
func (e *Engine) Evaluate(ctx context.Context, slides []deck.Slide, overlay config.Config) ([]SlideResult, error) {
	effective := config.Effective(overlay)
	lim, err := config.DecodeLimits(effective)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	indices := make([]int, len(slides))
	for i := range slides {
		indices[i] = i
	}
	results := make([]SlideResult, len(slides))
	limits := make([]config.Limits, len(slides))
	if err := e.evaluateIndices(ctx, slides, effective, lim, indices, results, limits, false); err != nil {
		return nil, err
	}
	attachDuplicates(slides, indices, results, limits)
	return results, nil
}

func (e *Engine) evaluateIndices(ctx context.Context, slides []deck.Slide, effective config.Config, lim config.Limits, indices []int, results []SlideResult, limits []config.Limits, parallel bool) error {
	evaluate := func(i int) error {
		res, slideLim, err := e.evaluateSlide(slides[i], effective, lim)
		if err != nil {
			return err
		}
		results[i] = res
		limits[i] = slideLim
		return nil
	}

	if parallel && len(indices) > 1 {
		// Each goroutine owns a distinct index, so the shared slices need
		// no locking and the output matches the sequential path exactly.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for _, i := range indices {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return evaluate(i)
			})
		}
		return g.Wait()
	}

	for _, i := range indices {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := evaluate(i); err != nil {
			return err
		}
	}
	return nil
}

// attachDuplicates folds cross-slide duplicate-title findings into the
// given result indices and re-scores them under their own limits.
func attachDuplicates(slides []deck.Slide, indices []int, results []SlideResult, limits []config.Limits) {
	dups := duplicateTitleFindings(slides)
	for _, i := range indices {
		extra, ok := dups[i]
		if !ok {
			continue
		}
		r := &results[i]
		r.Diagnostics = append(r.Diagnostics, extra...)
		sortFindings(r.Diagnostics)
		r.Score = scoreFindings(r.Diagnostics)
		r.BucketScores = bucketScores(r.Diagnostics, limits[i].Buckets)
	}
}

// evaluateSlide runs the catalogue over one slide under its effective
// configuration: request config plus any inline directive patch.
func (e *Engine) evaluateSlide(s deck.Slide, effective config.Config, lim config.Limits) (SlideResult, config.Limits, error) {
	slideLim := lim
	if len(s.Overrides.Patch) > 0 {
		merged := config.Clone(effective)
		config.DeepMerge(merged, s.Overrides.Patch)
		var err error
		slideLim, err = config.DecodeLimits(merged)
		if err != nil {
			return SlideResult{}, config.Limits{}, fmt.Errorf("slide %d directive config: %w", s.Index+1, err)
		}
	}

	diags := []rules.Finding{}
	for _, r := range e.catalogue {
		if s.Overrides.Disables(r.ID) {
			continue
		}
		diags = append(diags, r.Check(s, slideLim)...)
	}
	sortFindings(diags)

	res := SlideResult{
		Index:        s.Index,
		UUID:         s.UUID,
		Title:        s.Title,
		Body:         s.Body,
		Metrics:      s.Metrics,
		Diagnostics:  diags,
		Score:        scoreFindings(diags),
		BucketScores: bucketScores(diags, slideLim.Buckets),
	}
	return res, slideLim, nil
}

func (e *Engine) meta(effective config.Config) (Meta, error) {
	checksum, err := config.Checksum(effective)
	if err != nil {
		return Meta{}, fmt.Errorf("config checksum: %w", err)
	}
	ids := make([]string, len(e.catalogue))
	for i, r := range e.catalogue {
		ids[i] = r.ID
	}
	slices.Sort(ids)
	return Meta{
		Version:        Version,
		ConfigChecksum: checksum,
		RuleOrder:      ids,
	}, nil
}

func resultFromEntry(s deck.Slide, entry cache.Entry) SlideResult {
	return SlideResult{
		Index:        s.Index,
		UUID:         s.UUID,
		Title:        s.Title,
		Body:         s.Body,
		Metrics:      s.Metrics,
		Diagnostics:  entry.Diagnostics,
		Score:        entry.Score,
		BucketScores: entry.BucketScores,
	}
}

// duplicateTitleFindings groups slides by title and emits one finding per
// affected slide. Inline disable directives do not suppress these.
func duplicateTitleFindings(slides []deck.Slide) map[int][]rules.Finding {
	byTitle := map[string][]int{}
	for _, s := range slides {
		if s.Title != "" {
			byTitle[s.Title] = append(byTitle[s.Title], s.Index)
		}
	}

	dups := map[int][]rules.Finding{}
	for title, indices := range byTitle {
		if len(indices) < 2 {
			continue
		}
		msg := fmt.Sprintf("Duplicate title '%s' found on %d slides", title, len(indices))
		for _, idx := range indices {
			dups[idx] = append(dups[idx], rules.NewFinding(
				rules.DuplicateTitleRule, rules.SeverityWarning, msg, rules.DuplicateTitleDeduction))
		}
	}
	return dups
}

func sortFindings(diags []rules.Finding) {
	slices.SortStableFunc(diags, func(a, b rules.Finding) int {
		if c := strings.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
}

// scoreFindings deducts each finding from 100 and clamps to [0, 100].
// Negative deductions never add points.
func scoreFindings(diags []rules.Finding) int {
	total := 100
	for _, f := range diags {
		total -= max(0, f.Deduction)
	}
	return min(100, max(0, total))
}

// bucketScores charges each finding to the first matching pattern per
// bucket. A trailing "*" matches by prefix, anything else exactly.
func bucketScores(diags []rules.Finding, buckets map[string][]string) map[string]int {
	scores := make(map[string]int, len(buckets))
	for name, patterns := range buckets {
		deduction := 0
		for _, f := range diags {
			for _, pattern := range patterns {
				if prefix, wild := strings.CutSuffix(pattern, "*"); wild {
					if strings.HasPrefix(f.Rule, prefix) {
						deduction += max(0, f.Deduction)
						break
					}
				} else if f.Rule == pattern {
					deduction += max(0, f.Deduction)
					break
				}
			}
		}
		scores[name] = max(0, 100-deduction)
	}
	return scores
}

func buildSummary(results []SlideResult, effective config.Config, lim config.Limits) (Summary, float64) {
	totalIssues := 0
	passing := 0
	sum := 0
	scores := make([]int, len(results))
	for i, r := range results {
		scores[i] = r.Score
		sum += r.Score
		totalIssues += len(r.Diagnostics)
		if float64(r.Score) >= lim.Threshold {
			passing++
		}
	}

	rawAvg := 0.0
	avgScore := json.Number("0")
	minScore, maxScore := 0, 0
	if len(scores) > 0 {
		rawAvg = float64(sum) / float64(len(scores))
		avgScore = json.Number(strconv.FormatFloat(rawAvg, 'f', 1, 64))
		minScore = slices.Min(scores)
		maxScore = slices.Max(scores)
	}

	bucketAvgs := make(map[string]json.Number, len(lim.Buckets))
	for name := range lim.Buckets {
		if len(results) == 0 {
			bucketAvgs[name] = json.Number("100")
			continue
		}
		total := 0
		for _, r := range results {
			v, ok := r.BucketScores[name]
			if !ok {
				v = 100
			}
			total += v
		}
		bucketAvgs[name] = floatNumber(float64(total) / float64(len(results)))
	}

	return Summary{
		TotalSlides:  len(results),
		AvgScore:     avgScore,
		MinScore:     minScore,
		MaxScore:     maxScore,
		Threshold:    thresholdNumber(effective["threshold"], lim.Threshold),
		BucketScores: bucketAvgs,
		Passing:      passing,
		TotalIssues:  totalIssues,
	}, rawAvg
}

// floatNumber renders a float in its shortest round-trip form, keeping
// ".0" on integral values.
func floatNumber(v float64) json.Number {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.Number(s)
}

// thresholdNumber keeps the configured threshold's literal form when it
// arrived as JSON, falling back to the decoded value otherwise.
func thresholdNumber(v any, decoded float64) json.Number {
	switch t := v.(type) {
	case json.Number:
		return t
	case string:
		if _, err := strconv.ParseFloat(t, 64); err == nil {
			return json.Number(t)
		}
	}
	return json.Number(strconv.FormatFloat(decoded, 'f', -1, 64))
}
