package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/report"
	"github.com/nibzard/slidegauge/internal/rules"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalogue",
		Long: `List every rule in the catalogue with its severity, score bucket and
default deduction weight.

Rules are listed in evaluation order. Use "slidegauge explain <rule>" for
the full description of a single rule.`,
		RunE: runRulesE,
	}
}

func runRulesE(cmd *cobra.Command, args []string) error {
	weights := config.DefaultLimits().Weights

	rows := make([][]string, 0)
	for _, r := range rules.Catalogue() {
		rows = append(rows, []string{
			r.ID,
			r.Severity,
			r.Bucket,
			strconv.Itoa(weights[r.ID]),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Table([]string{"RULE", "SEVERITY", "BUCKET", "WEIGHT"}, rows)) //nolint:errcheck
	return nil
}

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <rule>",
		Short: "Describe a single rule",
		Long: `Describe a rule: its severity, score bucket and what it checks.

Rule names are the ids printed by "slidegauge rules", e.g. title/required
or color/low_contrast.`,
		Args: cobra.ExactArgs(1),
		RunE: runExplainE,
	}
}

func runExplainE(cmd *cobra.Command, args []string) error {
	rule, ok := rules.Find(args[0])
	if !ok {
		return fmt.Errorf("Unknown rule: %s", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, bucket %s)\n", rule.ID, rule.Severity, rule.Bucket) //nolint:errcheck
	fmt.Fprintf(out, "%s\n", rule.Description)                                    //nolint:errcheck
	return nil
}
