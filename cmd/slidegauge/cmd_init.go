package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/projectconfig"
	"github.com/nibzard/slidegauge/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool
	var withConfig bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .slidegauge.yaml project configuration",
		Long: `Initialize a project configuration file.

Writes .slidegauge.yaml with the default settings. Commands read it from
the working directory or any parent, so decks anywhere in the project
share the same defaults.

Use --interactive to run a guided wizard instead of writing defaults, and
--with-config to also scaffold a starter rules config the project file
points at.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive, withConfig)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided configuration wizard")
	cmd.Flags().BoolVar(&withConfig, "with-config", false, "Also write a starter rules config ("+wizard.StarterConfigName+")")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive, withConfig bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	spec := &wizard.ProjectSpec{
		Format:       projectconfig.DefaultFormat,
		Threshold:    int(config.DefaultLimits().Threshold),
		CacheEnabled: true,
		CacheFile:    projectconfig.DefaultCacheFile,
		ServerAddr:   projectconfig.DefaultServerAddr,
	}
	if withConfig {
		spec.ConfigFile = wizard.StarterConfigName
	}

	if interactive {
		collected, err := wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		spec = collected
	}

	content, err := wizard.GenerateProjectYAML(spec)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", projectconfig.FileName, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path) //nolint:errcheck

	if spec.ConfigFile != "" {
		starter, err := wizard.GenerateStarterConfig()
		if err != nil {
			return err
		}
		starterPath := filepath.Join(dir, spec.ConfigFile)
		if err := os.WriteFile(starterPath, []byte(starter), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", starterPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", starterPath) //nolint:errcheck
	}
	return nil
}
