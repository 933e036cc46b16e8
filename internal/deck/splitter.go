package deck

import "strings"

// Split divides document lines into slide texts. A separator is a line that
// trims to exactly "---"; separators inside fenced code do not split. A
// leading document-level frontmatter block is discarded. Slide texts are
// trimmed and empty slides dropped.
func Split(lines []string) []string {
	var slides []string
	var buf []string
	inCode := false
	fence := ""

	i := 0
	if i < len(lines) && strings.TrimSpace(lines[i]) == "---" {
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) != "---" {
			i++
		}
		i++
	}
	if i > len(lines) {
		i = len(lines)
	}

	flush := func() {
		if len(buf) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(buf, "\n"))
		if joined != "" {
			slides = append(slides, joined)
		}
		buf = nil
	}

	for _, line := range lines[i:] {
		stripped := strings.TrimSpace(line)

		if !inCode {
			if f, ok := fenceToken(stripped); ok {
				inCode = true
				fence = f
				buf = append(buf, line)
				continue
			}
			if stripped == "---" {
				flush()
				continue
			}
			buf = append(buf, line)
			continue
		}

		buf = append(buf, line)
		if strings.HasPrefix(stripped, fence) {
			inCode = false
			fence = ""
		}
	}
	flush()

	return slides
}

func fenceToken(stripped string) (string, bool) {
	if strings.HasPrefix(stripped, "```") {
		return "```", true
	}
	if strings.HasPrefix(stripped, "~~~") {
		return "~~~", true
	}
	return "", false
}
