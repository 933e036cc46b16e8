// Package config manages the layered analyzer configuration: built-in
// defaults, request-level overrides, and per-slide patches, plus the
// canonical serialization that checksums and the cache file depend on.
package config

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Config is a raw configuration tree as decoded from JSON. Numeric leaves
// stay json.Number so canonical serialization preserves their literal form
// ("3.0" does not collapse to "3").
type Config = map[string]any

// Defaults returns a fresh copy of the built-in configuration. Every call
// allocates new maps, so callers may merge into the result freely.
func Defaults() Config {
	return Config{
		"threshold": json.Number("70"),
		"pass_rate": json.Number("0.8"),
		"rules": map[string]any{
			"title": map[string]any{
				"required": true,
				"max_main": json.Number("35"),
				"max_sub":  json.Number("50"),
			},
			"content": map[string]any{
				"max_chars":          json.Number("350"),
				"min_chars":          json.Number("50"),
				"exercise_max_chars": json.Number("450"),
				"max_lines":          json.Number("15"),
				"max_bullets":        json.Number("6"),
				"max_bullet_len":     json.Number("80"),
			},
			"code": map[string]any{
				"max_simple":   json.Number("10"),
				"max_complex":  json.Number("5"),
				"max_line_len": json.Number("100"),
			},
			"special": map[string]any{
				"table_char_eq": json.Number("100"),
				"chart_char_eq": json.Number("100"),
				"code_char_eq":  json.Number("150"),
			},
			"color": map[string]any{
				"min_contrast_warn":  json.Number("4.5"),
				"min_contrast_error": json.Number("3.0"),
				"max_colors":         json.Number("6"),
			},
		},
		"weights": map[string]any{
			"title/required":             json.Number("20"),
			"title/too_long":             json.Number("10"),
			"content/too_long":           json.Number("15"),
			"content/too_short":          json.Number("5"),
			"bullets/too_many":           json.Number("10"),
			"bullets/too_long":           json.Number("5"),
			"code/too_long":              json.Number("8"),
			"code/long_line":             json.Number("5"),
			"lines/too_many":             json.Number("10"),
			"accessibility/alt_required": json.Number("8"),
			"links/bare_urls":            json.Number("3"),
			"structure/duplicate_titles": json.Number("5"),
			"meta/theme_required":        json.Number("5"),
			"color/low_contrast":         json.Number("10"),
			"color/too_many":             json.Number("5"),
			"color/unlabeled":            json.Number("5"),
		},
		"buckets": map[string]any{
			"content": []any{"title/*", "content/*", "bullets/*", "lines/*", "structure/*"},
			"code":    []any{"code/*"},
			"layout":  []any{"meta/*", "structure/*"},
			"a11y":    []any{"accessibility/*", "links/*"},
			"color":   []any{"color/*"},
		},
	}
}

// DeepMerge merges src into dst: nested objects merge recursively, every
// other value in src replaces the one in dst. dst is mutated and returned.
func DeepMerge(dst, src Config) Config {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				DeepMerge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// Clone returns a deep copy of cfg. Merging into the copy never mutates
// the original.
func Clone(cfg Config) Config {
	out := make(Config, len(cfg))
	for k, v := range cfg {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return Clone(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return tv
	}
}

// Effective layers the given overlays over fresh defaults, in order.
// Later overlays win.
func Effective(overlays ...Config) Config {
	cfg := Defaults()
	for _, o := range overlays {
		DeepMerge(cfg, o)
	}
	return cfg
}

// Canonical serializes v as compact JSON with sorted object keys and no
// HTML escaping. Checksums and the cache file both use this form.
func Canonical(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("canonical encode: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Checksum returns "sha1:" plus the hex digest of cfg's canonical form.
func Checksum(cfg Config) (string, error) {
	canon, err := Canonical(cfg)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(canon))
	return "sha1:" + hex.EncodeToString(sum[:]), nil
}

// DecodeJSON decodes data into v keeping numbers as json.Number. Trailing
// non-whitespace after the value is an error.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
