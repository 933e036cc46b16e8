package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slidegauge [deck.md]",
		Short: "SlideGauge - static analyzer for Markdown slide decks",
		Long: `SlideGauge is a deterministic static analyzer for Marp-style Markdown
slide decks.

It splits a deck into slides, checks every slide against a rule catalogue
covering content, layout, color, accessibility and code, scores the
results, and reports them as JSON, plain text, or SARIF. Slide results
are cached by content identity so unchanged slides are not re-analyzed.

Given a deck file or piped input, the root command analyzes it directly;
"slidegauge deck.md" and "slidegauge analyze deck.md" are equivalent.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation on a terminal means no deck was given;
			// show help instead of blocking on stdin.
			if len(args) == 0 {
				if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					return cmd.Help()
				}
			}
			return runAnalyzeE(cmd, args)
		},
	}
	addAnalyzeFlags(cmd)

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newSlidesCommand())
	cmd.AddCommand(newRulesCommand())
	cmd.AddCommand(newExplainCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCacheCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newSelftestCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
