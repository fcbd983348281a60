package peek

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	maxBoxWidth = 150
	truncMarker = " ... "
	linePrefix  = "| "
)

// boxHeader is the one-line label set into the top and bottom borders.
func boxHeader(expr, typeName, file string, line int) string {
	return fmt.Sprintf(" %s :: %s @ %s:%d ", expr, typeName, filepath.Base(file), line)
}

// boxWidth is the border width for lines under header, capped at
// maxBoxWidth.
func boxWidth(lines []string, header string) int {
	first := 0
	if len(lines) > 0 {
		first = runewidth.StringWidth(lines[0])
	}
	return min(max(first+3, runewidth.StringWidth(header)+10), maxBoxWidth)
}

// drawBar returns the border body shared by the top and bottom edges.
func drawBar(header string, width int) string {
	var sb strings.Builder
	sb.WriteString("==")
	sb.WriteString(header)
	sb.WriteString(strings.Repeat("=", max(width-runewidth.StringWidth(header)-2, 0)))
	if width >= maxBoxWidth {
		sb.WriteString(truncMarker)
	}
	return sb.String()
}

// drawBox frames lines under header. Lines holding newlines are split and
// each piece prefixed separately.
func drawBox(lines []string, header string) string {
	bar := drawBar(header, boxWidth(lines, header))
	var sb strings.Builder
	sb.WriteString("\n/")
	sb.WriteString(bar)
	sb.WriteString("\\\n")
	for _, line := range lines {
		for sub := range strings.SplitSeq(line, "\n") {
			sb.WriteString(linePrefix)
			sb.WriteString(sub)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\\")
	sb.WriteString(bar)
	sb.WriteString("/\n")
	return sb.String()
}
