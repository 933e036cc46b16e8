package protocol

import (
	"context"
	"fmt"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/deck"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/report"
	"github.com/nibzard/slidegauge/internal/rules"
)

// RegisterHandlers wires the standard operations into a registry. The
// engine carries the cache store analyze requests read and write.
func RegisterHandlers(registry *Registry, eng *engine.Engine) {
	registry.Register("analyze", handleAnalyze(eng))
	registry.Register("slides", handleSlides)
	registry.Register("rules", handleRules)
	registry.Register("explain", handleExplain)
}

func handleAnalyze(eng *engine.Engine) Handler {
	return func(ctx context.Context, req *Request) (any, error) {
		analysis, err := eng.Analyze(ctx, req.Document, req.Config, req.Parallel)
		if err != nil {
			return nil, err
		}
		return analyzeResponse{OK: true, Result: report.FromAnalysis(analysis)}, nil
	}
}

// handleSlides lists slide identities without running any rules. The
// document is split with default limits; request config does not apply.
func handleSlides(ctx context.Context, req *Request) (any, error) {
	slides := deck.Parse(req.Document, config.DefaultLimits())
	infos := make([]SlideInfo, len(slides))
	for i, s := range slides {
		infos[i] = SlideInfo{
			Index:     s.Index,
			UUID:      s.UUID,
			Title:     s.Title,
			LineCount: s.Metrics.Lines,
		}
	}
	return slidesResponse{OK: true, Slides: infos}, nil
}

func handleRules(ctx context.Context, req *Request) (any, error) {
	catalogue := rules.Catalogue()
	infos := make([]RuleInfo, len(catalogue))
	for i, r := range catalogue {
		infos[i] = RuleInfo{ID: r.ID, Severity: r.Severity, Bucket: r.Bucket}
	}
	return rulesResponse{OK: true, Rules: infos}, nil
}

func handleExplain(ctx context.Context, req *Request) (any, error) {
	rule, ok := rules.Find(req.Rule)
	if !ok {
		return errorResponse{Error: fmt.Sprintf("Unknown rule: %s", req.Rule)}, nil
	}
	return explainResponse{OK: true, Rule: RuleDetail{
		ID:          rule.ID,
		Severity:    rule.Severity,
		Bucket:      rule.Bucket,
		Description: rule.Description,
	}}, nil
}
