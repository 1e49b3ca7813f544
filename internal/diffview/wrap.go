package diffview

import (
	"strings"

	"critview/internal/highlight"
)

// Wrap word-wraps text to maxWidth character cells, honoring explicit line
// breaks. Words are packed greedily; a word longer than maxWidth is
// hard-split into maxWidth-sized chunks. maxWidth == 0 yields nil; empty
// input yields one empty row.
func Wrap(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			out = append(out, "")
			continue
		}

		var current string
		currentLen := 0
		for _, word := range strings.Fields(raw) {
			wordLen := len([]rune(word))
			switch {
			case currentLen == 0:
				if wordLen > maxWidth {
					chunks := chunkRunes(word, maxWidth)
					out = append(out, chunks[:len(chunks)-1]...)
					last := chunks[len(chunks)-1]
					if len([]rune(last)) == maxWidth {
						out = append(out, last)
					} else {
						current = last
						currentLen = len([]rune(last))
					}
				} else {
					current = word
					currentLen = wordLen
				}
			case currentLen+1+wordLen <= maxWidth:
				current += " " + word
				currentLen += 1 + wordLen
			default:
				out = append(out, current)
				current = ""
				currentLen = 0
				if wordLen > maxWidth {
					chunks := chunkRunes(word, maxWidth)
					out = append(out, chunks[:len(chunks)-1]...)
					last := chunks[len(chunks)-1]
					if len([]rune(last)) == maxWidth {
						out = append(out, last)
					} else {
						current = last
						currentLen = len([]rune(last))
					}
				} else {
					current = word
					currentLen = wordLen
				}
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}

	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

// WrapPreserve wraps by splitting into maxWidth-sized character chunks,
// preserving explicit breaks and never re-flowing words. Used for code.
func WrapPreserve(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			out = append(out, "")
			continue
		}
		out = append(out, chunkRunes(raw, maxWidth)...)
	}
	return out
}

// chunkRunes splits s into maxWidth-rune chunks; the last chunk may be
// shorter but is never empty.
func chunkRunes(s string, maxWidth int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > maxWidth {
		out = append(out, string(runes[:maxWidth]))
		runes = runes[maxWidth:]
	}
	return append(out, string(runes))
}

// WrapSpans wraps a styled-run sequence with the same character accounting
// as WrapPreserve; styles split only at wrap boundaries.
func WrapSpans(spans []highlight.Span, maxWidth int) [][]highlight.Span {
	if maxWidth <= 0 {
		return nil
	}

	var lines [][]highlight.Span
	var current []highlight.Span
	width := 0

	for _, span := range spans {
		remaining := []rune(span.Text)
		for len(remaining) > 0 {
			available := maxWidth - width
			if available == 0 {
				lines = append(lines, current)
				current = nil
				width = 0
				continue
			}
			n := min(len(remaining), available)
			current = append(current, highlight.Span{
				Text:   string(remaining[:n]),
				Color:  span.Color,
				Bold:   span.Bold,
				Italic: span.Italic,
			})
			width += n
			remaining = remaining[n:]
			if width >= maxWidth {
				lines = append(lines, current)
				current = nil
				width = 0
			}
		}
	}

	if len(current) > 0 || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

// wrappedLine is one display row of a wrapped line: styled runs when
// highlighting is available, plain text otherwise.
type wrappedLine struct {
	Spans []highlight.Span
	Text  string
}

// wrapContent wraps using the highlight spans when present so styled and
// plain rendering agree on character positions.
func wrapContent(spans []highlight.Span, text string, maxWidth int) []wrappedLine {
	if maxWidth <= 0 {
		return []wrappedLine{{}}
	}
	if len(spans) > 0 {
		wrapped := WrapSpans(spans, maxWidth)
		out := make([]wrappedLine, len(wrapped))
		for i, w := range wrapped {
			out[i] = wrappedLine{Spans: w}
		}
		return out
	}

	wrapped := WrapPreserve(text, maxWidth)
	out := make([]wrappedLine, len(wrapped))
	for i, w := range wrapped {
		out[i] = wrappedLine{Text: w}
	}
	return out
}

// wrapRows is the row-unit height of a line at maxWidth.
func wrapRows(text string, maxWidth int) int {
	if maxWidth <= 0 {
		return 1
	}
	n := len(WrapPreserve(text, maxWidth))
	if n < 1 {
		return 1
	}
	return n
}
