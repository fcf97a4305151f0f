// Package textfmt lays out OCR text and file names for fixed-width output.
package textfmt

import (
	"strings"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateMiddle keeps the start and the end of text, so a long file name
// still shows its extension.
func TruncateMiddle(text string, maxRunes int) string {
	r := []rune(text)
	if maxRunes <= 1 || len(r) <= maxRunes {
		return text
	}
	tail := (maxRunes - 1) / 2
	head := maxRunes - 1 - tail
	return string(r[:head]) + Ellipsis + string(r[len(r)-tail:])
}

// WrapToWidth wraps text at word boundaries. Words longer than width are
// split; blank lines are kept. A width of zero or less returns text as is.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur []rune
		for _, w := range words {
			wr := []rune(w)
			switch {
			case len(cur) == 0:
			case len(cur)+1+len(wr) <= width:
				cur = append(cur, ' ')
			default:
				out = append(out, string(cur))
				cur = cur[:0]
			}
			for len(wr) > width {
				if len(cur) > 0 {
					out = append(out, string(cur))
					cur = cur[:0]
				}
				out = append(out, string(wr[:width]))
				wr = wr[width:]
			}
			cur = append(cur, wr...)
		}
		out = append(out, string(cur))
	}
	return strings.Join(out, "\n")
}

// Indent prefixes every non-empty line of text.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
