package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/starfolio/interact"
	"github.com/lixenwraith/starfolio/parameter"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/ui"
)

// HandleEvent applies one terminal event and reports whether the loop should continue
func (c *Context) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		c.Render.Resize(w, h)
		c.camera.Width, c.camera.Height = w, h

	case *tcell.EventKey:
		c.Gate.Activate()
		c.Hints.Activity()
		return c.handleKey(ev)

	case *tcell.EventMouse:
		c.handleMouse(ev)

	case *tcell.EventInterrupt:
		// Posted by the roster watcher; the rebuild runs here, on the loop
		if r, ok := ev.Data().(*roster.Roster); ok {
			if err := c.Rebuild(r); err != nil {
				c.log.Errorw("roster rebuild failed", "error", err)
			}
		}
	}
	return true
}

func (c *Context) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		c.closeMember()
	case tcell.KeyEnter:
		c.advance()
	case tcell.KeyDown:
		c.scrollBy(1)
	case tcell.KeyUp:
		c.scrollBy(-1)
	case tcell.KeyPgDn:
		c.scrollBy(parameter.PageNotches)
	case tcell.KeyPgUp:
		c.scrollBy(-parameter.PageNotches)
	case tcell.KeyHome:
		if !c.Hints.ScrollLocked() {
			c.Scroll.JumpTo(0)
		}
	case tcell.KeyEnd:
		if !c.Hints.ScrollLocked() {
			c.Scroll.JumpTo(c.Scroll.Duration())
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'm', 'M':
			muted := c.Gate.ToggleMute()
			c.log.Debugw("audio toggled", "muted", muted)
		case ' ':
			c.advance()
		case 'j':
			c.scrollBy(1)
		case 'k':
			c.scrollBy(-1)
		}
	}
	return true
}

func (c *Context) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	c.pointerX, c.pointerY, c.pointer = x, y, true

	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelDown != 0:
		c.Hints.Activity()
		c.scrollBy(1)
		return
	case btn&tcell.WheelUp != 0:
		c.Hints.Activity()
		c.scrollBy(-1)
		return
	}

	if btn&tcell.Button1 != 0 {
		if !c.pressed {
			c.pressed = true
			c.Gate.Activate()
			c.Hints.Activity()
			c.Drag.Press(x, y)
			return
		}
		c.Drag.Move(x, y)
		return
	}

	if c.pressed {
		c.pressed = false
		if c.Drag.Release() {
			c.click(x, y)
		}
	}
}

// scrollBy moves the target n notches unless the central lock holds it
func (c *Context) scrollBy(n float64) {
	if c.Hints.ScrollLocked() {
		return
	}
	c.Scroll.Nudge(n)
}

// click resolves a pointer click: a token opens its detail, the sun advances,
// empty space dismisses the detail
func (c *Context) click(x, y int) {
	hit, ok := interact.Pick(c.camera, x, y, interact.Targets(c.Root))
	if !ok {
		c.closeMember()
		return
	}
	if hit.Target.ID == interact.SunID {
		c.advance()
		return
	}
	c.openMember(hit.Target.ID)
}

func (c *Context) openMember(id int) {
	if c.Board.Member.Visible && c.Board.Member.Index == id {
		return
	}
	m, ok := c.Roster.Member(id)
	if !ok {
		c.log.Warnw("click on unknown member", "member", id)
		return
	}
	wasOpen := c.Board.Member.Visible
	c.Typer.Cancel(ui.TargetMember)
	c.Board.ShowMember(m)
	c.Typer.Start(ui.TargetMember, m.Name)
	if !wasOpen {
		c.Hints.OverlayOpened()
	}
	c.log.Debugw("member opened", "member", id)
}

func (c *Context) closeMember() {
	if !c.Board.Member.Visible {
		return
	}
	c.Typer.Cancel(ui.TargetMember)
	c.Board.HideMember()
	c.Hints.OverlayClosed()
}

// advance autoplays to the next stop. While the central lock holds, the stop
// is the end of the next batch cycle; otherwise the next checkpoint.
func (c *Context) advance() {
	if c.Scroll.Autoplaying() {
		return
	}
	pos := c.Scroll.Pos()
	if c.Hints.ScrollLocked() {
		stop, ok := c.Director.NextStop(pos)
		if !ok {
			c.log.Warnw("scroll locked with no batch left to reveal, releasing")
			for k := range max(1, len(c.Root.Batches)) {
				c.Hints.BranchRevealed(k)
			}
			return
		}
		c.Scroll.Autoplay(stop)
		return
	}
	for _, cp := range c.Director.Checkpoints() {
		if cp.At > pos+1e-6 {
			c.Scroll.Autoplay(c.gate(cp.At))
			return
		}
	}
}

// gate caps t at the sun while batches remain unrevealed, so autoplay cannot
// skip the central phase
func (c *Context) gate(t float64) float64 {
	if sun := c.Director.SunArrival(); c.gated(sun) && t > sun {
		return sun
	}
	return t
}
