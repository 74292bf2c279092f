package render

import (
	"strings"

	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/ui"
)

// Overlay layout
const (
	panelMinWidth  = 28
	panelWidthFrac = 0.36
	panelMargin    = 2
	panelPadX      = 2
	interstitialBg = 0.6
	typingCursor   = '▌'
)

// Fixed overlay copy
const (
	welcomeTagline  = "a journey through the collective"
	welcomePrompt   = "scroll ↓ to begin"
	interstitialSub = "meet the collective"
	closeHint       = "esc to close"
)

// OverlayRenderer draws the board: panels, welcome, interstitial and finale
type OverlayRenderer struct{}

// NewOverlayRenderer creates the overlay layer
func NewOverlayRenderer() *OverlayRenderer {
	return &OverlayRenderer{}
}

// Render implements Renderer
func (o *OverlayRenderer) Render(ctx Context, buf *RenderBuffer) {
	b := ctx.Board
	if b == nil || buf.Width() == 0 || buf.Height() == 0 {
		return
	}

	if b.Flag(ui.FlagWelcome) {
		o.welcome(buf, b.Title)
	}
	if b.Mentor.Visible {
		o.panel(buf, b, b.Mentor, "")
	}
	if b.Galaxy.Visible {
		o.panel(buf, b, b.Galaxy, "")
	}
	if b.Lines > 0 {
		o.closing(buf, b)
	}
	if b.Flag(ui.FlagFinaleSignature) {
		sig := "~ " + b.Title + " ~"
		centered(buf, buf.Height()-4, sig, RgbSignature, bold|italic)
	}
	if b.Member.Visible {
		o.panel(buf, b, b.Member, closeHint)
	}
	if b.Flag(ui.FlagInterstitial) {
		o.interstitial(buf, b.Title)
	}
}

func (o *OverlayRenderer) welcome(buf *RenderBuffer, title string) {
	y := buf.Height() / 3
	centered(buf, y, title, RgbPanelTitle, bold)
	centered(buf, y+2, welcomeTagline, RgbPanelText, AttrNone)
	centered(buf, y+4, welcomePrompt, RgbHint, AttrNone)
}

// interstitial darkens the whole frame and announces the next segment
func (o *OverlayRenderer) interstitial(buf *RenderBuffer, title string) {
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			buf.Set(x, y, 0, RGBBlack, RGBBlack, BlendAlpha, interstitialBg, AttrNone)
		}
	}
	y := buf.Height()/2 - 1
	centered(buf, y, "✦  "+title+"  ✦", RgbInterstitial, bold)
	centered(buf, y+2, interstitialSub, RgbPanelText, AttrNone)
}

func (o *OverlayRenderer) closing(buf *RenderBuffer, b *ui.Board) {
	n := min(b.Lines, len(b.Closing))
	y := buf.Height()/2 - n
	for i := 0; i < n; i++ {
		centered(buf, y+2*i, b.Closing[i], RgbPanelText, AttrNone)
	}
}

// PanelRect returns the panel box for a side and content height
func PanelRect(screenW, screenH int, side roster.Side, contentRows int) (x, y, w, h int) {
	w = max(panelMinWidth, int(float64(screenW)*panelWidthFrac))
	w = min(w, screenW-2*panelMargin)
	h = min(contentRows+2, screenH-2)
	x = panelMargin
	if side == roster.SideRight {
		x = screenW - w - panelMargin
	}
	y = max(0, (screenH-h)/2)
	return x, y, w, h
}

// panel draws one detail overlay; the typed prefix grows inside a box sized for the full text
func (o *OverlayRenderer) panel(buf *RenderBuffer, b *ui.Board, p ui.Panel, footer string) {
	innerW := max(panelMinWidth, int(float64(buf.Width())*panelWidthFrac)) - 2 - 2*panelPadX
	innerW = min(innerW, buf.Width()-2*panelMargin-2-2*panelPadX)
	if innerW <= 0 {
		return
	}

	full := strings.Join(p.Lines, "\n")
	typedText := b.Text(p.Target)
	body := WrapText(full, innerW)
	static := WrapText(p.Static, innerW)

	rows := len(body)
	if len(static) > 0 {
		rows += 1 + len(static)
	}
	if len(p.Links) > 0 {
		rows += 2
	}
	if footer != "" {
		rows++
	}

	x, y, w, h := PanelRect(buf.Width(), buf.Height(), p.Side, rows)
	buf.Box(x, y, w, h, LineRounded, RgbPanelBorder, RgbPanelBg)
	if p.Title != "" {
		title := Truncate(" "+p.Title+" ", w-4)
		buf.Text(x+2, y, title, RgbPanelTitle, bold, 0)
	}

	left, row, bottom := x+1+panelPadX, y+1, y+h-1
	typed := WrapText(typedText, innerW)
	if typedText == "" {
		typed = nil
	}
	for i, line := range typed {
		if row >= bottom {
			return
		}
		attrs := AttrNone
		if i == 0 {
			attrs = bold
		}
		col := buf.Text(left, row, line, RgbPanelText, attrs, innerW)
		if i == len(typed)-1 && len(typedText) < len(full) {
			buf.SetFgOnly(left+col, row, typingCursor, RgbPanelTitle, AttrNone)
		}
		row++
	}
	// Reserve the full text height so the rest of the panel does not jump while typing
	row = y + 1 + len(body)

	if len(static) > 0 && typedText == full {
		row++
		for _, line := range static {
			if row >= bottom {
				return
			}
			buf.Text(left, row, line, RgbPanelText, AttrNone, innerW)
			row++
		}
	} else if len(static) > 0 {
		row += 1 + len(static)
	}

	if len(p.Links) > 0 {
		row++
		if row < bottom {
			col := left
			for _, l := range p.Links {
				if left+innerW-col <= 0 {
					break
				}
				fg, attrs := RgbLink, underline
				if !l.Enabled {
					fg, attrs = RgbPanelDim, AttrNone
				}
				col += buf.Text(col, row, "["+l.Label+"]", fg, attrs, left+innerW-col) + 1
			}
		}
		row++
	}
	if footer != "" && row < bottom {
		buf.Text(left+innerW-TextWidth(footer), row, footer, RgbPanelDim, AttrNone, 0)
	}
}

// centered writes s centered on row y
func centered(buf *RenderBuffer, y int, s string, fg RGB, attrs Attr) {
	s = Truncate(s, buf.Width())
	buf.Text((buf.Width()-TextWidth(s))/2, y, s, fg, attrs, 0)
}
