package render

import (
	"fmt"

	"github.com/lixenwraith/starfolio/hint"
	"github.com/lixenwraith/starfolio/ui"
)

// Hint copy, calm and urgent variants
const (
	hintScroll       = "scroll ↓"
	hintScrollUrgent = "»  scroll ↓ to continue  «"
	hintTouch        = "click the sun or a member  ·  enter to continue"
	hintTouchUrgent  = "»  click the sun to reveal the next orbit  «"
)

// HudRenderer draws the guidance hint, status line and progress rail
type HudRenderer struct{}

// NewHudRenderer creates the HUD layer
func NewHudRenderer() *HudRenderer {
	return &HudRenderer{}
}

// HintText returns the line shown for a hint kind, empty for none
func HintText(k hint.Kind, urgent bool, remaining int) string {
	switch k {
	case hint.KindScroll:
		if urgent {
			return hintScrollUrgent
		}
		return hintScroll
	case hint.KindTouch:
		s := hintTouch
		if urgent {
			s = hintTouchUrgent
		}
		if remaining > 0 {
			s += fmt.Sprintf("  (%d left)", remaining)
		}
		return s
	}
	return ""
}

// Render implements Renderer
func (h *HudRenderer) Render(ctx Context, buf *RenderBuffer) {
	w, ht := buf.Width(), buf.Height()
	if w == 0 || ht < 3 {
		return
	}

	if s := HintText(ctx.Hint, ctx.Urgent, ctx.Remaining); s != "" {
		fg, attrs := RgbHint, AttrNone
		if ctx.Urgent {
			fg, attrs = RgbHintUrgent, bold
		}
		centered(buf, ht-3, s, fg, attrs)
	}

	// Status line: hover readout left, mute and progress right
	right := fmt.Sprintf("%3d%%", int(ctx.Progress*100+0.5))
	if ctx.Locked {
		right = "locked  " + right
	}
	if ctx.Muted {
		right = "muted  " + right
	}
	rw := TextWidth(right)
	buf.Text(w-rw-1, ht-1, right, RgbStatus, AttrNone, 0)
	if ctx.Board != nil && ctx.Board.Status != "" {
		buf.Text(1, ht-1, ctx.Board.Status, RgbStatus, AttrNone, max(0, w-rw-3))
	}

	if ctx.Board != nil && ctx.Board.Flag(ui.FlagScrollContent) {
		h.rail(buf, ctx.Progress)
	}
}

// rail draws a one-column scroll position indicator on the right edge
func (h *HudRenderer) rail(buf *RenderBuffer, progress float64) {
	x := buf.Width() - 1
	rows := buf.Height() - 2
	if rows <= 0 {
		return
	}
	thumb := int(progress * float64(rows-1))
	for y := 0; y < rows; y++ {
		g, fg := '│', RgbPanelDim
		if y == thumb {
			g, fg = '┃', RgbPanelBorder
		}
		buf.SetFgOnly(x, y, g, fg, AttrNone)
	}
}
