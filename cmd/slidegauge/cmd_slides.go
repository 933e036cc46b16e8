package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/deck"
	"github.com/nibzard/slidegauge/internal/report"
)

func newSlidesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slides [deck.md]",
		Short: "List slide identities without running any rules",
		Long: `List the slides of a deck with their content identities.

The deck is split into slides and each slide's index, identity, title and
line count are printed. No rules run and the cache is not touched. The
identity is stable for identical slide text, so it can be used to track
slides across edits and decks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSlidesE,
	}
}

func runSlidesE(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	var document []byte
	var err error
	if input == "" {
		document, err = io.ReadAll(cmd.InOrStdin())
	} else {
		document, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("Error reading input: %v", err)
	}

	slides := deck.Parse(string(document), config.DefaultLimits())
	rows := make([][]string, 0, len(slides))
	for _, s := range slides {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.UUID,
			s.Title,
			strconv.Itoa(s.Metrics.Lines),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Table([]string{"INDEX", "UUID", "TITLE", "LINES"}, rows)) //nolint:errcheck
	return nil
}
