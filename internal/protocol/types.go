// Package protocol implements the newline-delimited JSON request protocol
// agents drive the analyzer with: one request object per line in, one
// response object per line out.
package protocol

import (
	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/report"
)

// Request is one protocol request. Op selects the operation; the other
// fields are read by the operations that need them.
type Request struct {
	Op       string        `json:"op"`
	Document string        `json:"document"`
	Config   config.Config `json:"config"`
	Parallel bool          `json:"parallel"`
	Rule     string        `json:"rule"`
}

// SlideInfo is the slim listing returned by the slides operation.
type SlideInfo struct {
	Index     int    `json:"index"`
	UUID      string `json:"uuid"`
	Title     string `json:"title"`
	LineCount int    `json:"line_count"`
}

// RuleInfo identifies one catalogue rule.
type RuleInfo struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Bucket   string `json:"bucket"`
}

// RuleDetail adds the human description to a rule listing.
type RuleDetail struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Bucket      string `json:"bucket"`
	Description string `json:"description"`
}

type analyzeResponse struct {
	OK     bool            `json:"ok"`
	Result report.Document `json:"result"`
}

type slidesResponse struct {
	OK     bool        `json:"ok"`
	Slides []SlideInfo `json:"slides"`
}

type rulesResponse struct {
	OK    bool       `json:"ok"`
	Rules []RuleInfo `json:"rules"`
}

type explainResponse struct {
	OK   bool       `json:"ok"`
	Rule RuleDetail `json:"rule"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
