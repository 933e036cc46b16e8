package deck

import "strings"

// ExtractFrontmatter splits a leading "---" delimited block of flat
// key: value pairs off a slide's text. The first colon splits key and
// value; lines without one are skipped. Returns the metadata and the
// remaining content, trimmed. An unterminated block consumes the rest of
// the slide.
func ExtractFrontmatter(text string) (map[string]string, string) {
	lines := strings.Split(text, "\n")
	meta := map[string]string{}
	i := 0

	if i < len(lines) && strings.TrimSpace(lines[i]) == "---" {
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) != "---" {
			line := strings.TrimSpace(lines[i])
			if key, value, ok := strings.Cut(line, ":"); ok {
				meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
			i++
		}
		i++
	}
	if i > len(lines) {
		i = len(lines)
	}

	return meta, strings.TrimSpace(strings.Join(lines[i:], "\n"))
}
