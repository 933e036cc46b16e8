package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/projectconfig"
)

var clearCacheFile string

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the slide result cache",
		Long: `Manage the slide result cache.

The cache stores per-slide scores and diagnostics keyed by the slide's
content identity, so repeat analyses of unchanged slides are served from
it. It lives next to the deck being analyzed.`,
	}

	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [deck.md]",
		Short: "Remove the slide result cache",
		Long: `Remove the slide result cache.

With a deck argument, removes the cache file next to that deck; without
one, removes the cache file in the working directory. The next analysis
re-evaluates every slide from scratch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cacheClearE,
	}

	cmd.Flags().StringVar(&clearCacheFile, "cache-file", "", "Cache file name to remove")

	return cmd
}

func cacheClearE(cmd *cobra.Command, args []string) error {
	proj, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	file := clearCacheFile
	if file == "" {
		file = proj.Cache.File
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	absPath, err := filepath.Abs(cachePath(input, file))
	if err != nil {
		return fmt.Errorf("resolving cache path: %w", err)
	}

	store := cache.New(absPath, slog.Default())
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absPath) //nolint:errcheck
	return nil
}
