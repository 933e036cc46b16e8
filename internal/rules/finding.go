// Package rules holds the immutable rule catalogue and the Finding type
// diagnostics are reported as.
package rules

// Severity levels findings are reported at.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// DuplicateTitleRule is the identifier attached by the cross-slide
// duplicate-title post-pass; it is not part of the per-slide catalogue.
const DuplicateTitleRule = "structure/duplicate_titles"

// DuplicateTitleDeduction is the fixed cost of a duplicated title.
const DuplicateTitleDeduction = 5

// Finding is one diagnostic with the score deduction it costs. Patch is
// reserved for machine-applicable fixes and serializes as an empty array,
// never null.
type Finding struct {
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Deduction int    `json:"deduction"`
	Patch     []any  `json:"patch"`
}

// NewFinding builds a Finding with an empty patch list.
func NewFinding(rule, severity, message string, deduction int) Finding {
	return Finding{
		Rule:      rule,
		Severity:  severity,
		Message:   message,
		Deduction: deduction,
		Patch:     []any{},
	}
}
