package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Text writes s from x, y over the existing background and returns the columns used.
// Clipped at maxW columns when maxW > 0.
func (b *RenderBuffer) Text(x, y int, s string, fg RGB, attrs Attr, maxW int) int {
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if maxW > 0 && col+w > maxW {
			break
		}
		b.SetFgOnly(x+col, y, r, fg, attrs)
		if w == 2 {
			b.SetFgOnly(x+col+1, y, 0, fg, attrs)
		}
		col += w
	}
	return col
}

// TextWidth is the display width of s
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to maxWidth columns, ending with an ellipsis when cut
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// WrapText breaks text into lines of at most width columns at word boundaries.
// Hard newlines are kept; an empty input line yields an empty output line.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur strings.Builder
		curW := 0
		for _, word := range words {
			ww := runewidth.StringWidth(word)
			// Break overlong words so they never exceed the width
			for ww > width {
				if curW > 0 {
					lines = append(lines, cur.String())
					cur.Reset()
					curW = 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if ww == 0 {
				continue
			}
			if curW > 0 && curW+1+ww > width {
				lines = append(lines, cur.String())
				cur.Reset()
				curW = 0
			}
			if curW > 0 {
				cur.WriteByte(' ')
				curW++
			}
			cur.WriteString(word)
			curW += ww
		}
		if curW > 0 {
			lines = append(lines, cur.String())
		}
	}
	return lines
}
