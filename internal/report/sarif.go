package report

import (
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/rules"
)

// SARIF 2.1.0 schema types (the subset the analyzer emits).

// SARIFLog is the top-level container.
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun maps to one analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool identifies the producing analyzer.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver carries the tool name and version.
type SARIFDriver struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	InformationURI string `json:"informationUri"`
}

// SARIFResult maps to one finding.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage wraps the finding text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation points at the slide a finding belongs to.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation pairs an artifact with a region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation names the analyzed artifact.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is a 1-based position. Slides map to their ordinal as the
// start line since deck input has no stable file positions.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// ToSARIF converts per-slide findings to a SARIF log, keeping deck order.
func ToSARIF(results []engine.SlideResult) SARIFLog {
	findings := []SARIFResult{}
	for _, r := range results {
		for _, f := range r.Diagnostics {
			findings = append(findings, SARIFResult{
				RuleID:  f.Rule,
				Level:   sarifLevel(f.Severity),
				Message: SARIFMessage{Text: f.Message},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: "stdin"},
						Region:           SARIFRegion{StartLine: r.Index + 1, StartColumn: 1},
					},
				}},
			})
		}
	}

	return SARIFLog{
		Schema:  "https://json.schemastore.org/sarif-2.1.0",
		Version: "2.1.0",
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:           "SlideGauge",
				Version:        engine.Version,
				InformationURI: "https://github.com/marp-team/slidegauge",
			}},
			Results: findings,
		}},
	}
}

// sarifLevel maps finding severities to SARIF levels; info becomes note.
func sarifLevel(severity string) string {
	switch severity {
	case rules.SeverityError:
		return "error"
	case rules.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// RenderSARIF serializes findings as SARIF with two-space indentation.
func RenderSARIF(results []engine.SlideResult) (string, error) {
	return marshalIndent(ToSARIF(results))
}
