package deck

import (
	"slices"
	"strings"
	"unicode"

	"github.com/nibzard/slidegauge/internal/config"
)

// directiveMarker introduces an inline control comment, e.g.
// <!-- slidegauge: disable title/required -->.
const directiveMarker = "slidegauge:"

// Overrides carries a slide's inline rule controls: disabled rule ids
// (sorted, deduplicated) and a local configuration patch deep-merged over
// the request configuration before that slide's rules run.
type Overrides struct {
	Disabled []string
	Patch    config.Config
}

// Disables reports whether ruleID is turned off for this slide.
func (o Overrides) Disables(ruleID string) bool {
	return slices.Contains(o.Disabled, ruleID)
}

// ParseOverrides reads inline directives from slide lines. A payload
// beginning with "disable" takes everything after the first whitespace run
// as a rule id (a bare "disable" is a no-op); any other payload is parsed
// as a JSON object and deep-merged into the local patch. Malformed payloads
// are ignored so analysis stays total and deterministic.
func ParseOverrides(lines []string) Overrides {
	var disabled []string
	patch := config.Config{}

	for _, line := range lines {
		s := strings.TrimSpace(line)
		if !strings.HasPrefix(s, "<!--") {
			continue
		}
		idx := strings.Index(s, directiveMarker)
		if idx < 0 {
			continue
		}
		content := strings.TrimSpace(strings.TrimRight(s[idx+len(directiveMarker):], "->"))

		if strings.HasPrefix(content, "disable") {
			if sp := strings.IndexFunc(content, unicode.IsSpace); sp >= 0 {
				disabled = append(disabled, strings.TrimSpace(content[sp:]))
			}
			continue
		}

		var p map[string]any
		if err := config.DecodeJSON([]byte(content), &p); err == nil {
			config.DeepMerge(patch, p)
		}
	}

	slices.Sort(disabled)
	return Overrides{Disabled: slices.Compact(disabled), Patch: patch}
}
