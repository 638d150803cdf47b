// Package textfit fits text to a cell width: whitespace-preferring
// wrapping and start/middle/end truncation with an ellipsis marker.
// Widths are display cells (go-runewidth), not bytes or runes.
package textfit

import (
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// Ellipsis is the marker inserted where truncation drops characters.
const Ellipsis = "…"

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap breaks s into lines of at most width cells, preferring to break
// at whitespace boundaries. Words wider than the line are hard-broken.
// A non-positive width yields no lines. Existing newlines are
// respected.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapLine(para, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineWidth = 0
	}

	for _, word := range splitWords(s) {
		w := runewidth.StringWidth(word)

		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}

		if w > width {
			// Hard-break an oversized word.
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if lineWidth+rw > width {
					flush()
				}
				line.WriteRune(r)
				lineWidth += rw
			}
			continue
		}

		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitWords splits on runs of spaces.
func splitWords(s string) []string {
	return strings.Fields(s)
}

// TruncateEnd fits s into width cells, dropping the tail and ending
// with the ellipsis when anything is dropped.
func TruncateEnd(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	return takeLeft(s, width-1) + Ellipsis
}

// TruncateStart fits s into width cells, dropping the head and
// starting with the ellipsis when anything is dropped.
func TruncateStart(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	return Ellipsis + takeRight(s, width-1)
}

// TruncateMiddle fits s into width cells, dropping the middle and
// joining the halves with the ellipsis when anything is dropped.
func TruncateMiddle(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	keep := width - 1
	left := keep / 2
	right := keep - left
	return takeLeft(s, left) + Ellipsis + takeRight(s, right)
}

// takeLeft returns the longest prefix of s within width cells.
func takeLeft(s string, width int) string {
	var sb strings.Builder
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if used+rw > width {
			break
		}
		sb.WriteRune(r)
		used += rw
	}
	return sb.String()
}

// takeRight returns the longest suffix of s within width cells.
func takeRight(s string, width int) string {
	runes := []rune(s)
	used := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if used+rw > width {
			break
		}
		used += rw
		start = i
	}
	return string(runes[start:])
}
