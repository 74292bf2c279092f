package render

// LineType specifies border characters
type LineType uint8

const (
	LineSingle LineType = iota
	LineDouble
	LineRounded
	LineHeavy
	LineNone
)

// boxChars holds border runes: TL, T, TR, L, R, BL, B, BR
type boxChars [8]rune

var boxSets = [...]boxChars{
	LineSingle:  {'┌', '─', '┐', '│', '│', '└', '─', '┘'},
	LineDouble:  {'╔', '═', '╗', '║', '║', '╚', '═', '╝'},
	LineRounded: {'╭', '─', '╮', '│', '│', '╰', '─', '╯'},
	LineHeavy:   {'┏', '━', '┓', '┃', '┃', '┗', '━', '┛'},
	LineNone:    {' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '},
}

// Box draws a border with a filled interior
func (b *RenderBuffer) Box(x, y, w, h int, line LineType, fg, bg RGB) {
	if w < 2 || h < 2 {
		return
	}
	chars := boxSets[line]
	b.Fill(x, y, w, h, bg)

	b.SetWithBg(x, y, chars[0], fg, bg)
	b.SetWithBg(x+w-1, y, chars[2], fg, bg)
	b.SetWithBg(x, y+h-1, chars[5], fg, bg)
	b.SetWithBg(x+w-1, y+h-1, chars[7], fg, bg)
	for col := x + 1; col < x+w-1; col++ {
		b.SetWithBg(col, y, chars[1], fg, bg)
		b.SetWithBg(col, y+h-1, chars[6], fg, bg)
	}
	for row := y + 1; row < y+h-1; row++ {
		b.SetWithBg(x, row, chars[3], fg, bg)
		b.SetWithBg(x+w-1, row, chars[4], fg, bg)
	}
}
