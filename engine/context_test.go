package engine

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/starfolio/config"
	"github.com/lixenwraith/starfolio/director"
	"github.com/lixenwraith/starfolio/render"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/ui"
)

type fakeBackend struct {
	inits, plays int
}

func (f *fakeBackend) Init(beep.SampleRate) error { f.inits++; return nil }
func (f *fakeBackend) Play(beep.Streamer)         { f.plays++ }
func (f *fakeBackend) Close() error               { return nil }

type fixture struct {
	ctx    *Context
	clock  *clock.Mock
	screen tcell.SimulationScreen
	audio  *fakeBackend
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	cfg.Seed = 7
	cfg.TextureSize = 16
	cfg.ColorMode = "truecolor"

	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		clock:  clock.NewMock(),
		screen: screen,
		audio:  &fakeBackend{},
		logs:   logs,
	}
	c, err := New(Options{
		Config: cfg,
		Roster: roster.Default(),
		Screen: screen,
		Clock:  f.clock,
		Audio:  f.audio,
		Log:    zap.New(core).Sugar(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	f.ctx = c
	return f
}

// frames advances the mock clock one frame at a time
func (f *fixture) frames(n int) {
	for range n {
		f.clock.Add(100 * time.Millisecond)
		f.ctx.Frame()
	}
}

// until steps frames until cond holds or the budget runs out
func (f *fixture) until(t *testing.T, budget int, cond func() bool) {
	t.Helper()
	for range budget {
		if cond() {
			return
		}
		f.frames(1)
	}
	require.True(t, cond(), "condition not reached in %d frames", budget)
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

// reachSun scrolls to the end and lets the gate hold the position at the sun
func (f *fixture) reachSun(t *testing.T) {
	t.Helper()
	f.ctx.HandleEvent(key(tcell.KeyEnd, 0))
	f.until(t, 400, func() bool { return f.ctx.Hints.ScrollLocked() })
}

// TestScrollGatedAtSun verifies scrolling cannot pass the sun before the batches are revealed
func TestScrollGatedAtSun(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	sun := c.Director.SunArrival()

	f.reachSun(t)
	assert.InDelta(t, sun, c.Scroll.Pos(), 1e-6)
	assert.Equal(t, director.PhaseCentral, c.Director.Phase())
	assert.Equal(t, len(c.Root.Batches), c.Hints.Remaining())

	// Locked: wheel and keys leave the target alone
	target := c.Scroll.Target()
	c.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	c.HandleEvent(key(tcell.KeyPgDn, 0))
	c.HandleEvent(key(tcell.KeyEnd, 0))
	assert.Equal(t, target, c.Scroll.Target())
	f.frames(20)
	assert.InDelta(t, sun, c.Scroll.Pos(), 1e-6)
}

// TestAdvanceRevealsEachBatch verifies Enter autoplays one batch cycle at a time until scrolling unlocks
func TestAdvanceRevealsEachBatch(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.reachSun(t)

	batches := len(c.Root.Batches)
	require.Greater(t, batches, 0)
	for k := range batches {
		require.True(t, c.Hints.ScrollLocked(), "locked before batch %d", k)
		c.HandleEvent(key(tcell.KeyEnter, 0))
		require.True(t, c.Scroll.Autoplaying())

		// Input during autoplay is ignored
		assert.False(t, c.Scroll.Nudge(1))

		f.until(t, 400, func() bool { return !c.Scroll.Autoplaying() })
		assert.Equal(t, batches-k-1, c.Hints.Remaining())
	}
	assert.False(t, c.Hints.ScrollLocked())
	assert.Equal(t, director.PhaseVoid, c.Director.Phase())

	// Scrolling resumes past the sun
	pos := c.Scroll.Pos()
	c.HandleEvent(key(tcell.KeyPgDn, 0))
	f.frames(30)
	assert.Greater(t, c.Scroll.Pos(), pos)
}

// TestSpaceAdvancesToCheckpoint verifies the unlocked advance stops at the next checkpoint
func TestSpaceAdvancesToCheckpoint(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.frames(1)

	c.HandleEvent(key(tcell.KeyRune, ' '))
	require.True(t, c.Scroll.Autoplaying())
	f.until(t, 400, func() bool { return !c.Scroll.Autoplaying() })

	var next float64
	for _, cp := range c.Director.Checkpoints() {
		if cp.At > 1e-6 {
			next = cp.At
			break
		}
	}
	assert.InDelta(t, next, c.Scroll.Pos(), 1e-9)
}

// TestMemberClickNoDuplicate verifies clicking an open member does not restart its reveal
func TestMemberClickNoDuplicate(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.frames(1)
	id := c.Roster.Members[0].ID

	before := c.Hints.Visible()
	c.openMember(id)
	require.True(t, c.Board.Member.Visible)
	assert.True(t, c.Typer.Active(ui.TargetMember))

	f.frames(1)
	typed := c.Board.Text(ui.TargetMember)
	require.NotEmpty(t, typed)

	c.openMember(id)
	assert.Equal(t, typed, c.Board.Text(ui.TargetMember), "reveal not restarted")

	c.HandleEvent(key(tcell.KeyEscape, 0))
	assert.False(t, c.Board.Member.Visible)
	assert.False(t, c.Typer.Active(ui.TargetMember))
	assert.Equal(t, before, c.Hints.Visible(), "hint restored after close")
}

// TestSwitchMemberKeepsSuppression verifies opening another member replaces the panel in place
func TestSwitchMemberKeepsSuppression(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.frames(1)
	a, b := c.Roster.Members[0], c.Roster.Members[1]

	c.openMember(a.ID)
	c.openMember(b.ID)
	assert.Equal(t, b.ID, c.Board.Member.Index)
	assert.Equal(t, b.Name, c.Board.Member.Title)

	c.closeMember()
	c.closeMember()
	assert.False(t, c.Board.Member.Visible)
}

// TestAudioWaitsForGesture verifies typewriter clicks are dropped until a key or click
func TestAudioWaitsForGesture(t *testing.T) {
	f := newFixture(t)
	c := f.ctx

	c.openMember(c.Roster.Members[0].ID)
	f.frames(20)
	assert.Zero(t, f.audio.inits)
	assert.Zero(t, c.Gate.Played())

	// Wheel is not an activation gesture
	c.HandleEvent(tcell.NewEventMouse(5, 5, tcell.WheelDown, tcell.ModNone))
	assert.Zero(t, f.audio.inits)

	c.HandleEvent(key(tcell.KeyRune, 'x'))
	c.closeMember()
	c.openMember(c.Roster.Members[1].ID)
	f.frames(20)
	assert.Equal(t, 1, f.audio.inits)
	assert.Positive(t, c.Gate.Played())
	assert.Equal(t, c.Gate.Played(), f.audio.plays)

	c.HandleEvent(key(tcell.KeyRune, 'm'))
	assert.True(t, c.Gate.Muted())
}

// TestQuitKeys verifies q and Ctrl-C end the loop and other keys do not
func TestQuitKeys(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.ctx.HandleEvent(key(tcell.KeyRune, 'q')))
	assert.False(t, f.ctx.HandleEvent(key(tcell.KeyCtrlC, 0)))
	assert.True(t, f.ctx.HandleEvent(key(tcell.KeyDown, 0)))
}

// TestResize verifies a resize reaches the buffer and the camera aspect
func TestResize(t *testing.T) {
	f := newFixture(t)
	f.screen.SetSize(60, 20)
	f.ctx.HandleEvent(tcell.NewEventResize(60, 20))
	assert.Equal(t, 60, f.ctx.Render.Buffer().Width())
	assert.Equal(t, 20, f.ctx.Camera().Height)
}

type panicRenderer struct{}

func (panicRenderer) Render(render.Context, *render.RenderBuffer) { panic("renderer exploded") }

// TestFramePanicRecovered verifies a panic inside a frame is logged and the loop survives
func TestFramePanicRecovered(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.frames(2)
	require.Equal(t, uint64(2), c.Frames())

	c.Render.Register(panicRenderer{}, render.PriorityHUD+1)
	assert.NotPanics(t, func() { f.frames(3) })
	assert.Equal(t, uint64(2), c.Frames())
	assert.Equal(t, 3, f.logs.FilterMessage("frame panic recovered").Len())
}

// TestCloseReleasesEverything verifies close disposes every allocation and is idempotent
func TestCloseReleasesEverything(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.frames(5)
	root := c.Root
	require.Positive(t, root.Resources.Live())

	require.NoError(t, c.Close())
	assert.Zero(t, root.Resources.Live())
	assert.NoError(t, c.Close())
}

// TestRebuildKeepsPosition verifies a rebuild swaps the world and keeps the scroll position
func TestRebuildKeepsPosition(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	c.HandleEvent(key(tcell.KeyPgDn, 0))
	f.frames(40)
	pos := c.Scroll.Pos()
	require.Positive(t, pos)
	old := c.Root

	next := roster.Default()
	next.Title = "rebuilt"
	require.NoError(t, c.Rebuild(next))

	assert.Zero(t, old.Resources.Live())
	assert.NotSame(t, old, c.Root)
	assert.InDelta(t, pos, c.Scroll.Pos(), 1e-9)
	assert.Equal(t, "rebuilt", c.Board.Title)
	f.frames(2)
}

// TestRunQuitsOnKey verifies Run returns once a quit key arrives
func TestRunQuitsOnKey(t *testing.T) {
	f := newFixture(t)
	f.screen.PostEvent(key(tcell.KeyRune, 'q'))

	done := make(chan error, 1)
	go func() { done <- f.ctx.Run(context.Background()) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

// TestHoverStatus verifies hovering the sun names the collective on the status line
func TestHoverStatus(t *testing.T) {
	f := newFixture(t)
	c := f.ctx
	f.reachSun(t)

	x, y, _, ok := c.Camera().Project(c.Root.Sun.Core.WorldPosition())
	require.True(t, ok)
	c.HandleEvent(tcell.NewEventMouse(int(x), int(y), tcell.ButtonNone, tcell.ModNone))
	f.frames(1)
	assert.Equal(t, c.Roster.Title, c.Board.Status)

	c.HandleEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	f.frames(1)
	assert.Empty(t, c.Board.Status)
}

// TestInterruptRebuilds verifies a posted roster replaces the world on the loop
func TestInterruptRebuilds(t *testing.T) {
	f := newFixture(t)
	old := f.ctx.Root

	next := roster.Default()
	next.Title = "reloaded"
	assert.True(t, f.ctx.HandleEvent(tcell.NewEventInterrupt(next)))
	assert.Equal(t, "reloaded", f.ctx.Board.Title)
	assert.Zero(t, old.Resources.Live())

	// Unrelated interrupts are ignored
	assert.True(t, f.ctx.HandleEvent(tcell.NewEventInterrupt("noise")))
	assert.Equal(t, "reloaded", f.ctx.Board.Title)
}
