package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// RenderBuffer composites cells for one frame. Each cell carries a depth so
// scene passes can occlude each other; overlay passes ignore depth.
type RenderBuffer struct {
	width, height int

	cells []Cell
	depth []float64
	// bgSet marks cells whose background was written this frame
	bgSet []bool
}

// blankCell is what Clear fills with; rune 0 marks the tail of a wide glyph
var blankCell = Cell{Rune: ' ', Fg: RgbStar, Bg: RgbBackground, Attrs: AttrNone}

// NewRenderBuffer creates a cleared buffer of the given size
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize changes dimensions and clears; storage is reused when it is large enough
func (b *RenderBuffer) Resize(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	n := b.width * b.height
	if cap(b.cells) < n {
		b.cells = make([]Cell, n)
		b.depth = make([]float64, n)
		b.bgSet = make([]bool, n)
	}
	b.cells, b.depth, b.bgSet = b.cells[:n], b.depth[:n], b.bgSet[:n]
	b.Clear()
}

func (b *RenderBuffer) Width() int  { return b.width }
func (b *RenderBuffer) Height() int { return b.height }

// Clear blanks every cell and resets depth to infinity
func (b *RenderBuffer) Clear() {
	far := math.Inf(1)
	for i := range b.cells {
		b.cells[i] = blankCell
		b.depth[i] = far
	}
	clear(b.bgSet)
}

// index returns the flat offset of x, y and whether it lies on the buffer
func (b *RenderBuffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width + x, true
}

// Cell returns the composited cell at x, y
func (b *RenderBuffer) Cell(x, y int) Cell {
	if i, ok := b.index(x, y); ok {
		return b.cells[i]
	}
	return Cell{}
}

// Depth returns the nearest solid depth at x, y; +Inf when nothing solid is there
func (b *RenderBuffer) Depth(x, y int) float64 {
	if i, ok := b.index(x, y); ok {
		return b.depth[i]
	}
	return math.Inf(-1)
}

// Visible reports whether a fragment at depth z would pass the depth test
func (b *RenderBuffer) Visible(x, y int, z float64) bool {
	i, ok := b.index(x, y)
	return ok && z < b.depth[i]
}

// Set composites a cell. mode selects the operator and which planes it touches;
// a zero rune keeps the existing glyph.
func (b *RenderBuffer) Set(x, y int, r rune, fg, bg RGB, mode BlendMode, alpha float64, attrs Attr) {
	i, ok := b.index(x, y)
	if !ok {
		return
	}
	b.compose(i, r, fg, bg, mode, alpha, attrs)
}

func (b *RenderBuffer) compose(i int, r rune, fg, bg RGB, mode BlendMode, alpha float64, attrs Attr) {
	dst := &b.cells[i]
	op, planes := uint8(mode)&0x0F, uint8(mode)&0xF0
	if r != 0 {
		dst.Rune, dst.Attrs = r, attrs
	}
	if planes&flagBg != 0 {
		dst.Bg = apply(op, dst.Bg, bg, alpha)
		b.bgSet[i] = true
	}
	if planes&flagFg != 0 {
		dst.Fg = apply(op, dst.Fg, fg, alpha)
	}
}

// SetDepth composites like Set when z is nearer than what the cell holds.
// Solid fragments claim the cell's depth; translucent ones only test against it.
func (b *RenderBuffer) SetDepth(x, y int, z float64, solid bool, r rune, fg, bg RGB, mode BlendMode, alpha float64) bool {
	i, ok := b.index(x, y)
	if !ok || z >= b.depth[i] {
		return false
	}
	b.compose(i, r, fg, bg, mode, alpha, AttrNone)
	if solid {
		b.depth[i] = z
	}
	return true
}

// SetFgOnly writes glyph, foreground and attrs over the existing background
func (b *RenderBuffer) SetFgOnly(x, y int, r rune, fg RGB, attrs Attr) {
	if i, ok := b.index(x, y); ok {
		bg := b.cells[i].Bg
		b.cells[i] = Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs}
	}
}

// SetBgOnly recolors the background and keeps the glyph
func (b *RenderBuffer) SetBgOnly(x, y int, bg RGB) {
	if i, ok := b.index(x, y); ok {
		b.cells[i].Bg = bg
		b.bgSet[i] = true
	}
}

// SetWithBg replaces a cell outright
func (b *RenderBuffer) SetWithBg(x, y int, r rune, fg, bg RGB) {
	if i, ok := b.index(x, y); ok {
		b.cells[i] = Cell{Rune: r, Fg: fg, Bg: bg}
		b.bgSet[i] = true
	}
}

// Fill paints a rectangle's background and blanks its glyphs
func (b *RenderBuffer) Fill(x, y, w, h int, bg RGB) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			b.SetWithBg(col, row, ' ', bg, bg)
		}
	}
}

// FlushToScreen copies the buffer to s without calling Show
func (b *RenderBuffer) FlushToScreen(s tcell.Screen, mode ColorMode) {
	for i, c := range b.cells {
		if c.Rune == 0 {
			continue
		}
		style := tcell.StyleDefault.
			Foreground(ToTcell(c.Fg, mode)).
			Background(ToTcell(c.Bg, mode)).
			Attributes(c.Attrs)
		s.SetContent(i%b.width, i/b.width, c.Rune, nil, style)
	}
}
