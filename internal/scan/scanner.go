// Package scan extracts deterministic per-slide feature metrics: character
// and line accounting, code blocks, images, colors and contrast, bare URLs.
package scan

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/nibzard/slidegauge/internal/config"
)

var (
	bulletRe   = regexp.MustCompile(`^\s*[-*+]\s+`)
	exerciseRe = regexp.MustCompile(`(?i)\b(exercise|practice)\b`)
	colorRe    = regexp.MustCompile(`(?i)color:\s*([^;'"]+)`)
	bareURLRe  = regexp.MustCompile(`https?://[^\s)]+`)
	mdLinkRe   = regexp.MustCompile(`\[[^\]]*\]\(https?://[^)]+\)`)
)

// markdown is the shared parser used for image extraction. The default
// goldmark instance is stateless and safe for concurrent Parse calls.
var markdown = goldmark.New()

// FindTitle locates the slide's title heading: the first "# " line, or the
// first "## " line when no level-1 heading yields text. Malformed
// concatenations such as "# Title## Subtitle" keep only the text before the
// lower-level marker. Returns the line index (-1 when absent) and the text.
func FindTitle(lines []string) (int, string) {
	titleIdx := -1
	title := ""

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "# ") {
			head, _, _ := strings.Cut(stripped, "##")
			title = strings.TrimSpace(strings.TrimLeft(head, "#"))
			titleIdx = i
			break
		}
	}

	if title == "" {
		for i, line := range lines {
			stripped := strings.TrimSpace(line)
			if strings.HasPrefix(stripped, "## ") {
				head, _, _ := strings.Cut(stripped, "###")
				title = strings.TrimSpace(head[3:])
				titleIdx = i
				break
			}
		}
	}

	return titleIdx, title
}

// Scan runs the single-pass feature extraction over slide text. Character
// counts are in runes. The title line and fenced code lines are excluded
// from content accounting; an unclosed trailing fence contributes nothing.
func Scan(text string, lim config.Limits) Metrics {
	lines := strings.Split(text, "\n")
	m := Metrics{
		Lines:      len(lines),
		CodeBlocks: []CodeBlock{},
		Images:     []Image{},
		Colors:     []ColorInfo{},
	}

	titleIdx, title := FindTitle(lines)
	m.TitleLength = utf8.RuneCountInString(title)

	inCode := false
	fence := ""
	lang := ""
	codeLines := 0

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if !inCode && (strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~")) {
			inCode = true
			fence = stripped[:3]
			lang = strings.TrimSpace(stripped[3:])
			codeLines = 0
			continue
		}
		if inCode && strings.HasPrefix(stripped, fence) {
			inCode = false
			m.CodeBlocks = append(m.CodeBlocks, CodeBlock{Lines: codeLines, Lang: lang})
			continue
		}
		if inCode {
			codeLines++
			continue
		}

		if i == titleIdx {
			continue
		}

		m.ContentChars += utf8.RuneCountInString(line)

		lower := strings.ToLower(stripped)
		switch {
		case strings.Contains(line, "| ") && strings.Contains(line, " | "):
			m.ContentCharsAdjusted += lim.Rules.Special.TableCharEq
			m.HasTable = true
		case strings.Contains(lower, "mermaid"):
			m.ContentCharsAdjusted += lim.Rules.Special.ChartCharEq
			m.HasChart = true
		default:
			m.ContentCharsAdjusted += utf8.RuneCountInString(line)
		}

		if bulletRe.MatchString(line) {
			m.Bullets++
		}
		if strings.Contains(line, "|") {
			m.HasTable = true
		}
		if strings.Contains(lower, "mermaid") {
			m.HasChart = true
		}
		if exerciseRe.MatchString(line) || strings.Contains(line, `class="exercise"`) {
			m.IsExercise = true
		}

		m.Images = append(m.Images, extractImages(stripped)...)

		for _, match := range colorRe.FindAllStringSubmatch(line, -1) {
			raw := match[1]
			rgb, ok := ParseColor(raw)
			if !ok {
				continue
			}
			m.Colors = append(m.Colors, ColorInfo{
				Raw:      raw,
				RGB:      rgb,
				Contrast: ContrastRatio(rgb, White),
			})
		}

		if bareURLRe.MatchString(line) && !mdLinkRe.MatchString(line) {
			m.BareURLs++
		}
	}

	if len(m.Colors) > 0 {
		minContrast := m.Colors[0].Contrast
		uniq := make(map[RGB]struct{}, len(m.Colors))
		for _, c := range m.Colors {
			if c.Contrast < minContrast {
				minContrast = c.Contrast
			}
			uniq[c.RGB] = struct{}{}
		}
		m.MinContrast = &minContrast
		m.UniqueColors = len(uniq)
	}

	return m
}

// extractImages pulls Markdown image occurrences out of a single line via
// the goldmark AST, in source order. The line arrives pre-trimmed so
// indentation cannot turn it into an indented code block.
func extractImages(line string) []Image {
	if !strings.Contains(line, "![") {
		return nil
	}

	source := []byte(line)
	doc := markdown.Parser().Parse(gtext.NewReader(source))

	var images []Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			images = append(images, Image{
				Alt: nodeText(img, source),
				URL: string(img.Destination),
			})
		}
		return ast.WalkContinue, nil
	})
	return images
}

// nodeText concatenates the plain text under a node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return sb.String()
}
