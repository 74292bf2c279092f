package render

import "github.com/gdamore/tcell/v2"

// Attr is the text attribute mask written to the screen
type Attr = tcell.AttrMask

// AttrNone clears every attribute
const AttrNone = tcell.AttrNone

// Cell is one composited terminal cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

const (
	bold      = tcell.AttrBold
	italic    = tcell.AttrItalic
	underline = tcell.AttrUnderline
)
