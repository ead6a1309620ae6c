package mcp

import (
	"strings"
	"unicode"
)

// cleanOutput collapses runs of blank lines in console output and trims
// leading and trailing blank lines.
func cleanOutput(raw string) string {
	lines := strings.Split(raw, "\n")
	var out []string
	blankCount := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankCount++
			if blankCount <= 1 {
				out = append(out, "")
			}
			continue
		}
		blankCount = 0
		out = append(out, stripControlChars(strings.TrimRight(line, " \t")))
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// cleanCommand reduces agent-supplied console input to a single line.
func cleanCommand(input string) string {
	input = strings.ReplaceAll(input, "\r", " ")
	input = strings.ReplaceAll(input, "\n", " ")
	return strings.TrimSpace(stripControlChars(input))
}

// truncate shortens s for log previews.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// stripControlChars removes control characters from a line,
// preserving tabs and newlines.
func stripControlChars(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if r == '\t' || r == '\n' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
