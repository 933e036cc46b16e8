package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/deck"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/report"
	"github.com/nibzard/slidegauge/internal/rules"
)

func newSelftestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run built-in smoke checks",
		Long: `Run built-in smoke checks against the analyzer itself.

Verifies fence-aware slide splitting, color extraction, title detection,
duplicate-title findings, image parsing, report shape, and the rule
catalogue. Prints FAIL lines for anything broken and exits 1 when any
check fails. The result cache is not touched.`,
		RunE: runSelftestE,
	}
}

type selftestCheck struct {
	name string
	ok   bool
}

func runSelftestE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	lim := config.DefaultLimits()
	eng := engine.New(nil, slog.Default())

	var checks []selftestCheck
	check := func(name string, ok bool) {
		checks = append(checks, selftestCheck{name: name, ok: ok})
	}

	fenceSlides := deck.Parse("# A\n```\ncode with ---\n```\n---\n# B\nbody", lim)
	check("fence-aware split", len(fenceSlides) == 2 && strings.Contains(fenceSlides[0].Body, "code with ---"))

	colorSlides := deck.Parse("# T\ntext #aaaaaa more", lim)
	check("color extraction", len(colorSlides) == 1 && colorSlides[0].Metrics.UniqueColors > 0)

	titleSlides := deck.Parse("# Main Title\nContent", lim)
	check("title detection", len(titleSlides) == 1 && titleSlides[0].Title == "Main Title")

	dupDoc := "# Same\nContent 1\n---\n# Same\nContent 2\n---\n# Same\nContent 3"
	dupResults, dupErr := eng.Evaluate(ctx, deck.Parse(dupDoc, lim), nil)
	dupCount := 0
	for _, r := range dupResults {
		for _, d := range r.Diagnostics {
			if d.Rule == rules.DuplicateTitleRule {
				dupCount++
			}
		}
	}
	check("duplicate titles", dupErr == nil && dupCount == 3)

	imageSlides := deck.Parse("# T\n![a](x.png) ![b](y.png)", lim)
	check("image extraction", len(imageSlides) == 1 && len(imageSlides[0].Metrics.Images) == 2)

	jsonOK := false
	if analysis, err := eng.Analyze(ctx, "# T\nSome content here", nil, false); err == nil {
		if rendered, err := report.RenderJSON(report.FromAnalysis(analysis)); err == nil {
			var decoded map[string]any
			if json.Unmarshal([]byte(rendered), &decoded) == nil {
				_, hasSlides := decoded["slides"]
				_, hasSummary := decoded["summary"]
				_, hasEngine := decoded["engine"]
				jsonOK = hasSlides && hasSummary && hasEngine
			}
		}
	}
	check("report shape", jsonOK)

	_, hasTitleRule := rules.Find("title/required")
	_, hasContrastRule := rules.Find("color/low_contrast")
	check("rule catalogue", len(eng.Catalogue()) > 0 && hasTitleRule && hasContrastRule)

	failed := 0
	for _, c := range checks {
		if !c.ok {
			failed++
			fmt.Fprintf(out, "FAIL: %s\n", c.name) //nolint:errcheck
		}
	}
	if failed > 0 {
		fmt.Fprintf(out, "SELFTEST: FAILED (%d/%d)\n", failed, len(checks)) //nolint:errcheck
		return &CheckFailureError{Message: "selftest failed"}
	}

	fmt.Fprintln(out, "SELFTEST: OK") //nolint:errcheck
	return nil
}
