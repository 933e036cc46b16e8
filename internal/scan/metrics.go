package scan

import "encoding/json"

// CodeBlock is one fenced block: line count plus the language tag that
// trails the opening fence.
type CodeBlock struct {
	Lines int
	Lang  string
}

// MarshalJSON emits the wire pair [lines, lang].
func (b CodeBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{b.Lines, b.Lang})
}

// Image is one Markdown image occurrence.
type Image struct {
	Alt string
	URL string
}

// MarshalJSON emits the wire pair [alt, url].
func (im Image) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{im.Alt, im.URL})
}

// ColorInfo is one parsed color declaration with its contrast against the
// white background.
type ColorInfo struct {
	Raw      string
	RGB      RGB
	Contrast float64
}

// MarshalJSON emits the wire triple [raw, [r,g,b], contrast].
func (ci ColorInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{ci.Raw, ci.RGB, ci.Contrast})
}

// Metrics is the deterministic, primitive-only feature record for one
// slide. Field order mirrors the wire format.
type Metrics struct {
	TitleLength          int         `json:"title_length"`
	ContentChars         int         `json:"content_chars"`
	ContentCharsAdjusted int         `json:"content_chars_adjusted"`
	Bullets              int         `json:"bullets"`
	Lines                int         `json:"lines"`
	CodeBlocks           []CodeBlock `json:"code_blocks"`
	HasTable             bool        `json:"has_table"`
	HasChart             bool        `json:"has_chart"`
	IsExercise           bool        `json:"is_exercise"`
	Images               []Image     `json:"images"`
	Colors               []ColorInfo `json:"colors"`
	MinContrast          *float64    `json:"min_contrast"`
	UniqueColors         int         `json:"unique_colors"`
	BareURLs             int         `json:"bare_urls"`
}
