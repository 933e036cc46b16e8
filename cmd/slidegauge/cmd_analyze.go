package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/projectconfig"
	"github.com/nibzard/slidegauge/internal/report"
)

var (
	analyzeOutput    string
	analyzeConfig    string
	analyzeFormat    string
	analyzeThreshold int
	analyzeCacheFile string
	analyzeNoCache   bool
	analyzeParallel  bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [deck.md]",
		Short: "Analyze a slide deck and report scores",
		Long: `Analyze a Marp-style Markdown slide deck.

The deck is read from the given file, or from stdin when no file is
given. Every slide is checked against the rule catalogue, scored, and
the deck summary is reported as JSON (default), plain text, or SARIF.

Slide results are cached by content identity in a file next to the deck
(in the working directory when reading stdin), so unchanged slides are
served from the cache on repeat runs.

Exits 0 when the deck's average score meets the threshold, 1 when it
falls short, and 2 on configuration or runtime errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeE,
	}

	addAnalyzeFlags(cmd)

	return cmd
}

// addAnalyzeFlags registers the analyze flag set. The root command carries
// the same flags so "slidegauge deck.md" works without the subcommand.
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&analyzeConfig, "config", "c", "", "JSON configuration file with rule overrides")
	cmd.Flags().StringVar(&analyzeFormat, "format", "", "Report format: json, text, or sarif")
	cmd.Flags().IntVar(&analyzeThreshold, "threshold", 0, "Passing threshold for the deck's average score")
	cmd.Flags().StringVar(&analyzeCacheFile, "cache-file", "", "Cache file name (stored next to the deck)")
	cmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Evaluate every slide fresh, skipping the result cache")
	cmd.Flags().BoolVar(&analyzeParallel, "parallel", false, "Evaluate slides concurrently")
}

func runAnalyzeE(cmd *cobra.Command, args []string) error {
	proj, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	format := analyzeFormat
	if format == "" {
		format = proj.Output.Format
	}
	switch format {
	case "json", "text", "sarif":
	default:
		return fmt.Errorf("invalid format %q (expected json, text, or sarif)", format)
	}

	// Weakest to strongest: project file threshold, config file, flag.
	// Slide directives layer on top of all of these inside the engine.
	overlay := config.Config{}
	if proj.Analysis.Threshold != nil {
		overlay["threshold"] = json.Number(strconv.Itoa(*proj.Analysis.Threshold))
	}

	configPath := analyzeConfig
	if configPath == "" {
		configPath = proj.Analysis.Config
	}
	if configPath != "" {
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("Error loading config: %v", err)
		}
		config.DeepMerge(overlay, fileCfg)
	}

	if cmd.Flags().Changed("threshold") {
		overlay["threshold"] = json.Number(strconv.Itoa(analyzeThreshold))
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	var document []byte
	if input == "" {
		document, err = io.ReadAll(cmd.InOrStdin())
	} else {
		document, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("Error reading input: %v", err)
	}

	var store *cache.Store
	if !analyzeNoCache && (proj.Cache.Enabled == nil || *proj.Cache.Enabled) {
		cacheFile := analyzeCacheFile
		if cacheFile == "" {
			cacheFile = proj.Cache.File
		}
		store = cache.New(cachePath(input, cacheFile), slog.Default())
	}

	parallel := analyzeParallel
	if !cmd.Flags().Changed("parallel") && proj.Analysis.Parallel != nil {
		parallel = *proj.Analysis.Parallel
	}

	eng := engine.New(store, slog.Default())
	analysis, err := eng.Analyze(cmd.Context(), string(document), overlay, parallel)
	if err != nil {
		return fmt.Errorf("Analysis error: %v", err)
	}

	var out string
	switch format {
	case "text":
		out = report.RenderText(analysis.Results, analysis.Summary)
	case "sarif":
		out, err = report.RenderSARIF(analysis.Results)
	default:
		out, err = report.RenderJSON(report.FromAnalysis(analysis))
	}
	if err != nil {
		return fmt.Errorf("Analysis error: %v", err)
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("Analysis error: %v", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out) //nolint:errcheck
	}

	if !analysis.Passed() {
		return &CheckFailureError{
			Message: fmt.Sprintf("deck average %.1f is below the threshold", analysis.RawAverage()),
		}
	}
	return nil
}

// cachePath places the cache next to the deck being analyzed, or in the
// working directory when the deck comes from stdin.
func cachePath(input, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	dir := "."
	if input != "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, file)
}
