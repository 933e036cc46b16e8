package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Limits is the typed read view of a merged configuration tree that rule
// evaluators consume. Unknown keys in the tree are ignored; the tree itself
// (not this view) is what gets checksummed.
type Limits struct {
	Threshold float64             `mapstructure:"threshold"`
	PassRate  float64             `mapstructure:"pass_rate"`
	Rules     RuleLimits          `mapstructure:"rules"`
	Weights   map[string]int      `mapstructure:"weights"`
	Buckets   map[string][]string `mapstructure:"buckets"`
}

// RuleLimits groups the per-area thresholds under the "rules" key.
type RuleLimits struct {
	Title   TitleLimits   `mapstructure:"title"`
	Content ContentLimits `mapstructure:"content"`
	Code    CodeLimits    `mapstructure:"code"`
	Special SpecialLimits `mapstructure:"special"`
	Color   ColorLimits   `mapstructure:"color"`
}

// TitleLimits bounds slide titles.
type TitleLimits struct {
	Required bool `mapstructure:"required"`
	MaxMain  int  `mapstructure:"max_main"`
	MaxSub   int  `mapstructure:"max_sub"`
}

// ContentLimits bounds prose density per slide.
type ContentLimits struct {
	MaxChars         int `mapstructure:"max_chars"`
	MinChars         int `mapstructure:"min_chars"`
	ExerciseMaxChars int `mapstructure:"exercise_max_chars"`
	MaxLines         int `mapstructure:"max_lines"`
	MaxBullets       int `mapstructure:"max_bullets"`
	MaxBulletLen     int `mapstructure:"max_bullet_len"`
}

// CodeLimits bounds fenced code blocks.
type CodeLimits struct {
	MaxSimple  int `mapstructure:"max_simple"`
	MaxComplex int `mapstructure:"max_complex"`
	MaxLineLen int `mapstructure:"max_line_len"`
}

// SpecialLimits holds the fixed character equivalences used by the adjusted
// content count: dense visual content is cheaper per displayed character
// than prose.
type SpecialLimits struct {
	TableCharEq int `mapstructure:"table_char_eq"`
	ChartCharEq int `mapstructure:"chart_char_eq"`
	CodeCharEq  int `mapstructure:"code_char_eq"`
}

// ColorLimits holds the contrast thresholds and palette cap.
type ColorLimits struct {
	MinContrastWarn  float64 `mapstructure:"min_contrast_warn"`
	MinContrastError float64 `mapstructure:"min_contrast_error"`
	MaxColors        int     `mapstructure:"max_colors"`
}

// DecodeLimits converts a merged configuration tree into its typed view.
// json.Number leaves decode into the numeric fields; a value that cannot
// be coerced is a request-level error.
func DecodeLimits(cfg Config) (Limits, error) {
	var lim Limits
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &lim,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Limits{}, fmt.Errorf("building limits decoder: %w", err)
	}
	if err := dec.Decode(cfg); err != nil {
		return Limits{}, fmt.Errorf("decoding limits: %w", err)
	}
	return lim, nil
}

// DefaultLimits returns the typed view of Defaults().
func DefaultLimits() Limits {
	lim, err := DecodeLimits(Defaults())
	if err != nil {
		panic(fmt.Sprintf("defaults do not decode: %v", err))
	}
	return lim
}
