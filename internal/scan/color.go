package scan

import (
	"strconv"
	"strings"
)

// RGB is a parsed 24-bit color. It marshals as a three-element JSON array.
type RGB [3]int

// White is the fixed background all contrast ratios are measured against.
var White = RGB{255, 255, 255}

// ParseColor parses a CSS color literal: hex #rrggbb or rgb(r,g,b) with
// each channel in 0-255. Unparseable values report ok=false; the scanner
// drops them rather than surfacing an error.
func ParseColor(s string) (RGB, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	if strings.HasPrefix(s, "#") && len(s) == 7 {
		r, errR := strconv.ParseInt(s[1:3], 16, 0)
		g, errG := strconv.ParseInt(s[3:5], 16, 0)
		b, errB := strconv.ParseInt(s[5:7], 16, 0)
		if errR != nil || errG != nil || errB != nil {
			return RGB{}, false
		}
		return RGB{int(r), int(g), int(b)}, true
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) < 3 {
			return RGB{}, false
		}
		var c RGB
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return RGB{}, false
			}
			c[i] = n
		}
		return c, true
	}

	return RGB{}, false
}

// RelativeLuminance computes luminance with channels normalized to [0,1].
func RelativeLuminance(c RGB) float64 {
	r := float64(c[0]) / 255.0
	g := float64(c[1]) / 255.0
	b := float64(c[2]) / 255.0
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio computes the WCAG contrast ratio between c and bg.
func ContrastRatio(c, bg RGB) float64 {
	l1 := RelativeLuminance(c)
	l2 := RelativeLuminance(bg)
	hi, lo := l1, l2
	if l2 > l1 {
		hi, lo = l2, l1
	}
	return (hi + 0.05) / (lo + 0.05)
}
