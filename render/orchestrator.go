package render

import (
	"cmp"
	"slices"

	"github.com/gdamore/tcell/v2"
)

type pass struct {
	renderer Renderer
	priority Priority
}

// Orchestrator owns the frame buffer and runs registered passes in priority order
type Orchestrator struct {
	screen tcell.Screen
	mode   ColorMode
	buffer *RenderBuffer
	passes []pass
}

// NewOrchestrator creates an orchestrator sized to screen
func NewOrchestrator(screen tcell.Screen, mode ColorMode) *Orchestrator {
	w, h := screen.Size()
	return &Orchestrator{
		screen: screen,
		mode:   mode,
		buffer: NewRenderBuffer(w, h),
	}
}

// Register adds a pass; equal priorities run in registration order
func (o *Orchestrator) Register(r Renderer, priority Priority) {
	o.passes = append(o.passes, pass{renderer: r, priority: priority})
	slices.SortStableFunc(o.passes, func(a, b pass) int {
		return cmp.Compare(a.priority, b.priority)
	})
}

// Resize matches the buffer to the terminal and forces a full repaint
func (o *Orchestrator) Resize(width, height int) {
	o.buffer.Resize(width, height)
	o.screen.Sync()
}

// Buffer exposes the last composited frame
func (o *Orchestrator) Buffer() *RenderBuffer {
	return o.buffer
}

// RenderFrame clears, runs every visible pass, then flushes and shows
func (o *Orchestrator) RenderFrame(ctx Context) {
	o.buffer.Clear()
	ctx.Width, ctx.Height = o.buffer.Width(), o.buffer.Height()
	for _, p := range o.passes {
		if t, ok := p.renderer.(VisibilityToggle); ok && !t.IsVisible() {
			continue
		}
		p.renderer.Render(ctx, o.buffer)
	}
	o.buffer.FlushToScreen(o.screen, o.mode)
	o.screen.Show()
}
