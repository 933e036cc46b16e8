package rules

import (
	"fmt"
	"strings"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/deck"
)

// Rule is one catalogue entry: identity, classification, and the check
// that turns slide metrics into findings.
type Rule struct {
	ID          string
	Severity    string
	Bucket      string
	Description string
	Check       func(deck.Slide, config.Limits) []Finding
}

// complexLangs use the stricter code length limit.
var complexLangs = map[string]bool{
	"python":     true,
	"javascript": true,
	"java":       true,
	"cpp":        true,
}

// Catalogue returns the rule registry in its declared order. The slice is
// freshly allocated per call so callers may not corrupt the registry.
func Catalogue() []Rule {
	return []Rule{
		{
			ID:          "title/required",
			Severity:    SeverityError,
			Bucket:      "content",
			Description: "Every slide needs a clear title (# or ##) for navigation and structure",
			Check:       checkTitleRequired,
		},
		{
			ID:          "title/too_long",
			Severity:    SeverityWarning,
			Bucket:      "content",
			Description: "Titles should be concise (≤35 chars) for readability on slides",
			Check:       checkTitleTooLong,
		},
		{
			ID:          "content/too_long",
			Severity:    SeverityWarning,
			Bucket:      "content",
			Description: "Keep slides concise: ≤350 chars normal, ≤450 for exercises",
			Check:       checkContentTooLong,
		},
		{
			ID:          "content/too_short",
			Severity:    SeverityInfo,
			Bucket:      "content",
			Description: "Slides need substance: add context, examples, or visuals (≥50 chars)",
			Check:       checkContentTooShort,
		},
		{
			ID:          "bullets/too_many",
			Severity:    SeverityWarning,
			Bucket:      "content",
			Description: "Limit bullets to ≤6 per slide for audience comprehension",
			Check:       checkBulletsTooMany,
		},
		{
			ID:          "lines/too_many",
			Severity:    SeverityWarning,
			Bucket:      "content",
			Description: "Keep slides scannable: ≤15 lines for visual clarity",
			Check:       checkLinesTooMany,
		},
		{
			ID:          "color/low_contrast",
			Severity:    SeverityError,
			Bucket:      "color",
			Description: "Text must have sufficient contrast for accessibility (WCAG AA: ≥4.5:1)",
			Check:       checkLowContrast,
		},
		{
			ID:          "color/too_many",
			Severity:    SeverityWarning,
			Bucket:      "color",
			Description: "Limit color palette to ≤6 colors for visual consistency",
			Check:       checkTooManyColors,
		},
		{
			ID:          "accessibility/alt_required",
			Severity:    SeverityError,
			Bucket:      "a11y",
			Description: "All images need alt text for screen readers: ![description](url)",
			Check:       checkAltRequired,
		},
		{
			ID:          "links/bare_urls",
			Severity:    SeverityInfo,
			Bucket:      "a11y",
			Description: "Format URLs as links: [text](url) instead of raw https://...",
			Check:       checkBareURLs,
		},
		{
			ID:          "code/too_long",
			Severity:    SeverityWarning,
			Bucket:      "code",
			Description: "Code blocks should be short: ≤10 lines simple, ≤5 complex languages",
			Check:       checkCodeTooLong,
		},
	}
}

// Find returns the catalogue rule with the given id.
func Find(id string) (Rule, bool) {
	for _, r := range Catalogue() {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func checkTitleRequired(s deck.Slide, lim config.Limits) []Finding {
	if !lim.Rules.Title.Required || s.Metrics.TitleLength > 0 {
		return nil
	}
	return []Finding{NewFinding("title/required", SeverityError,
		"Slide missing title - add # Title or ## Title",
		lim.Weights["title/required"])}
}

func checkTitleTooLong(s deck.Slide, lim config.Limits) []Finding {
	maxLen := lim.Rules.Title.MaxMain
	if s.Metrics.TitleLength <= maxLen {
		return nil
	}
	msg := fmt.Sprintf("Title length %d > max %d (shorten by %d chars)",
		s.Metrics.TitleLength, maxLen, s.Metrics.TitleLength-maxLen)
	return []Finding{NewFinding("title/too_long", SeverityWarning, msg,
		lim.Weights["title/too_long"])}
}

func checkContentTooLong(s deck.Slide, lim config.Limits) []Finding {
	maxChars := lim.Rules.Content.MaxChars
	if s.Metrics.IsExercise {
		maxChars = lim.Rules.Content.ExerciseMaxChars
	}
	val := s.Metrics.ContentCharsAdjusted
	if val <= maxChars {
		return nil
	}
	msg := fmt.Sprintf("Adjusted content %d > max %d (reduce by ~%d chars or split into 2 slides)",
		val, maxChars, val-maxChars)
	return []Finding{NewFinding("content/too_long", SeverityWarning, msg,
		lim.Weights["content/too_long"])}
}

func checkContentTooShort(s deck.Slide, lim config.Limits) []Finding {
	minChars := lim.Rules.Content.MinChars
	val := s.Metrics.ContentChars
	if val <= 0 || val >= minChars {
		return nil
	}
	msg := fmt.Sprintf("Content %d < min %d (add ~%d chars)", val, minChars, minChars-val)
	return []Finding{NewFinding("content/too_short", SeverityInfo, msg,
		lim.Weights["content/too_short"])}
}

func checkBulletsTooMany(s deck.Slide, lim config.Limits) []Finding {
	maxBullets := lim.Rules.Content.MaxBullets
	if s.Metrics.Bullets <= maxBullets {
		return nil
	}
	msg := fmt.Sprintf("%d bullets > max %d (remove %d or split slide)",
		s.Metrics.Bullets, maxBullets, s.Metrics.Bullets-maxBullets)
	return []Finding{NewFinding("bullets/too_many", SeverityWarning, msg,
		lim.Weights["bullets/too_many"])}
}

func checkLinesTooMany(s deck.Slide, lim config.Limits) []Finding {
	maxLines := lim.Rules.Content.MaxLines
	if s.Metrics.Lines <= maxLines {
		return nil
	}
	msg := fmt.Sprintf("%d lines > max %d (condense or split into 2 slides)",
		s.Metrics.Lines, maxLines)
	return []Finding{NewFinding("lines/too_many", SeverityWarning, msg,
		lim.Weights["lines/too_many"])}
}

func checkLowContrast(s deck.Slide, lim config.Limits) []Finding {
	mc := s.Metrics.MinContrast
	if mc == nil {
		return nil
	}
	weight := lim.Weights["color/low_contrast"]
	switch {
	case *mc < lim.Rules.Color.MinContrastError:
		msg := fmt.Sprintf("Contrast %.2f below minimum %.2f (use darker/lighter colors)",
			*mc, lim.Rules.Color.MinContrastError)
		return []Finding{NewFinding("color/low_contrast", SeverityError, msg, weight)}
	case *mc < lim.Rules.Color.MinContrastWarn:
		msg := fmt.Sprintf("Contrast %.2f below recommended %.2f (increase for better readability)",
			*mc, lim.Rules.Color.MinContrastWarn)
		return []Finding{NewFinding("color/low_contrast", SeverityWarning, msg, weight/2)}
	}
	return nil
}

func checkTooManyColors(s deck.Slide, lim config.Limits) []Finding {
	maxColors := lim.Rules.Color.MaxColors
	if s.Metrics.UniqueColors <= maxColors {
		return nil
	}
	msg := fmt.Sprintf("%d unique colors > max %d (reduce by %d)",
		s.Metrics.UniqueColors, maxColors, s.Metrics.UniqueColors-maxColors)
	return []Finding{NewFinding("color/too_many", SeverityWarning, msg,
		lim.Weights["color/too_many"])}
}

func checkAltRequired(s deck.Slide, lim config.Limits) []Finding {
	missing := 0
	for _, img := range s.Metrics.Images {
		if strings.TrimSpace(img.Alt) == "" {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d images missing alt text (add descriptions in ![alt text](url))", missing)
	return []Finding{NewFinding("accessibility/alt_required", SeverityError, msg,
		lim.Weights["accessibility/alt_required"])}
}

func checkBareURLs(s deck.Slide, lim config.Limits) []Finding {
	if s.Metrics.BareURLs == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d bare URLs (use [link text](url) format)", s.Metrics.BareURLs)
	return []Finding{NewFinding("links/bare_urls", SeverityInfo, msg,
		lim.Weights["links/bare_urls"])}
}

func checkCodeTooLong(s deck.Slide, lim config.Limits) []Finding {
	var issues []string
	for _, block := range s.Metrics.CodeBlocks {
		maxAllowed := lim.Rules.Code.MaxSimple
		if complexLangs[block.Lang] {
			maxAllowed = lim.Rules.Code.MaxComplex
		}
		if block.Lines > maxAllowed {
			issues = append(issues, fmt.Sprintf("%s code %d lines > max %d (trim %d lines or split)",
				block.Lang, block.Lines, maxAllowed, block.Lines-maxAllowed))
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return []Finding{NewFinding("code/too_long", SeverityWarning,
		strings.Join(issues, "; "), lim.Weights["code/too_long"])}
}
