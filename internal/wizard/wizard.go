// Package wizard collects project settings interactively and renders the
// .slidegauge.yaml configuration file.
package wizard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/projectconfig"
)

// StarterConfigName is the rule-override file the wizard can scaffold
// alongside the project configuration.
const StarterConfigName = "slidegauge.config.json"

// ProjectSpec holds all fields collected during the interactive wizard.
// ConfigFile is empty unless a starter rules config should be written and
// referenced from the project file.
type ProjectSpec struct {
	Format       string
	Threshold    int
	CacheEnabled bool
	CacheFile    string
	ServerAddr   string
	ConfigFile   string
}

const projectYAMLTemplate = `# SlideGauge project configuration.
# Values here become defaults for slidegauge commands; flags override them.
output:
  format: {{ .Format }}
analysis:
  threshold: {{ .Threshold }}{{ if .ConfigFile }}
  config: {{ .ConfigFile }}{{ end }}
cache:
  enabled: {{ .CacheEnabled }}
  file: {{ .CacheFile }}
server:
  addr: {{ .ServerAddr }}
`

// RunProjectWizard runs an interactive huh form to collect project
// settings, pre-populated with the defaults.
func RunProjectWizard(in io.Reader, out io.Writer) (*ProjectSpec, error) {
	var (
		format        = projectconfig.DefaultFormat
		thresholdRaw  = strconv.Itoa(int(config.DefaultLimits().Threshold))
		cacheEnabled  = true
		cacheFile     = projectconfig.DefaultCacheFile
		serverAddr    = projectconfig.DefaultServerAddr
		starterConfig = false
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default report format").
				Options(
					huh.NewOption("json", "json"),
					huh.NewOption("text", "text"),
					huh.NewOption("sarif", "sarif"),
				).
				Value(&format),
			huh.NewInput().
				Title("Passing threshold").
				Description("Average deck score required to pass (0-100)").
				Value(&thresholdRaw).
				Validate(validateThreshold),
			huh.NewConfirm().
				Title("Cache results between runs?").
				Value(&cacheEnabled),
			huh.NewInput().
				Title("Cache file").
				Description("Written next to the deck being analyzed").
				Value(&cacheFile).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("cache file is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Serve address").
				Description("TCP address the serve command binds with --tcp").
				Value(&serverAddr),
			huh.NewConfirm().
				Title("Write a starter rules config?").
				Description("Scaffolds "+StarterConfigName+" with the default limits for editing").
				Value(&starterConfig),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	threshold, err := strconv.Atoi(strings.TrimSpace(thresholdRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q: %w", thresholdRaw, err)
	}

	spec := &ProjectSpec{
		Format:       format,
		Threshold:    threshold,
		CacheEnabled: cacheEnabled,
		CacheFile:    strings.TrimSpace(cacheFile),
		ServerAddr:   strings.TrimSpace(serverAddr),
	}
	if starterConfig {
		spec.ConfigFile = StarterConfigName
	}
	return spec, nil
}

// GenerateProjectYAML renders a .slidegauge.yaml from the given spec.
func GenerateProjectYAML(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("project").Parse(projectYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// GenerateStarterConfig renders the default limits as an indented JSON
// document users can trim down to the overrides they want.
func GenerateStarterConfig() (string, error) {
	raw, err := json.MarshalIndent(config.Defaults(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render starter config: %w", err)
	}
	return string(raw) + "\n", nil
}

func validateThreshold(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("threshold must be a whole number")
	}
	if n < 0 || n > 100 {
		return fmt.Errorf("threshold must be between 0 and 100")
	}
	return nil
}
