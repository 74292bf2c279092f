package engine

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/starfolio/core"
	"github.com/lixenwraith/starfolio/interact"
	"github.com/lixenwraith/starfolio/parameter"
	"github.com/lixenwraith/starfolio/render"
	"github.com/lixenwraith/starfolio/scene"
)

// Run drives frames at the configured rate until ctx ends or input asks to quit.
// Events are read on their own goroutine and applied between frames.
func (c *Context) Run(ctx context.Context) error {
	ticker := c.clock.Ticker(c.cfg.FrameInterval())
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	c.last = c.clock.Now()
	c.Frame()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !c.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			c.Frame()
		}
	}
}

// Frame advances every collaborator by the wall time since the last frame and
// draws. A panic inside one frame is logged and the frame dropped.
func (c *Context) Frame() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("frame panic recovered", "frame", c.frames, "panic", r)
		}
	}()

	now := c.clock.Now()
	dt := min(now.Sub(c.last), parameter.MaxFrameStep)
	c.last = now

	c.Scheduler.RunDue()

	if sun := c.Director.SunArrival(); c.gated(sun) {
		c.Scroll.Limit(sun)
	}
	pos := c.Scroll.Step(dt)
	shot := c.Director.Seek(pos)

	for _, tok := range c.Root.Tokens() {
		tok.Surface()
	}

	c.Drag.Update()
	c.camera.Eye = shot.Eye
	c.camera.Target = shot.Look
	yaw, pitch := c.Drag.Rotation()
	elapsed := now.Sub(c.start).Seconds()

	scene.Animate(c.Root, scene.Input{
		Elapsed:  elapsed,
		Camera:   c.camera,
		SunYaw:   shot.SunYaw + yaw,
		SunPitch: pitch,
		Reveal:   shot.Reveal,
		Hover:    max(c.hover, 0),
	})
	c.updateHover()

	c.Typer.Update()
	c.Hints.Tick(dt)

	c.Render.RenderFrame(render.Context{
		Camera:    c.camera,
		Root:      c.Root,
		Board:     c.Board,
		Elapsed:   elapsed,
		Progress:  c.Scroll.Progress(),
		Phase:     c.Director.Phase(),
		Hint:      c.Hints.Visible(),
		Urgent:    c.Hints.Urgent(),
		Locked:    c.Hints.ScrollLocked(),
		Remaining: c.Hints.Remaining(),
		Muted:     c.Gate.Muted(),
		Hover:     c.hover,
	})
	c.frames++
}

// gated reports whether the position must hold at the sun: the central
// phase has not been completed and the position has not passed it
func (c *Context) gated(sun float64) bool {
	return !c.Hints.ScrollLocked() &&
		c.Hints.Remaining() > 0 &&
		len(c.Root.Batches) > 0 &&
		c.Scroll.Pos() <= sun+1e-9
}

// updateHover picks under the pointer and mirrors the result to the status line
func (c *Context) updateHover() {
	c.hover = 0
	status := ""
	if c.pointer && !c.Drag.Dragging() {
		if hit, ok := interact.Pick(c.camera, c.pointerX, c.pointerY, interact.Targets(c.Root)); ok {
			c.hover = hit.Target.ID
			if hit.Target.ID == interact.SunID {
				status = c.Roster.Title
			} else if m, ok := c.Roster.Member(hit.Target.ID); ok {
				status = m.Name
			}
		}
	}
	c.Board.Status = status
}

// Elapsed returns wall time since the context started
func (c *Context) Elapsed() time.Duration {
	return c.clock.Now().Sub(c.start)
}
