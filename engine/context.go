package engine

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/audio"
	"github.com/lixenwraith/starfolio/config"
	"github.com/lixenwraith/starfolio/director"
	"github.com/lixenwraith/starfolio/hint"
	"github.com/lixenwraith/starfolio/interact"
	"github.com/lixenwraith/starfolio/render"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/scene"
	"github.com/lixenwraith/starfolio/ui"
)

// Options are the external collaborators of a Context
type Options struct {
	Config    *config.Config
	Roster    *roster.Roster
	Screen    tcell.Screen         // initialized by the caller
	Clock     clock.Clock          // nil selects the wall clock
	Audio     audio.Backend        // nil selects the system speaker
	Portraits scene.PortraitSource // nil keeps every token on its fallback
	Log       *zap.SugaredLogger
}

// Context is the composition root: it owns the world and every collaborator
// the frame loop drives. All fields are touched only from the loop goroutine.
type Context struct {
	// ===== Immutable After Init =====

	cfg       *config.Config
	screen    tcell.Screen
	clock     clock.Clock
	log       *zap.SugaredLogger
	portraits scene.PortraitSource
	bgCtx     context.Context
	cancel    context.CancelFunc

	Gate      *audio.Gate
	Drag      *interact.Drag
	Scheduler *Scheduler
	Render    *render.Orchestrator

	// ===== Rebuilt With The World =====

	Roster   *roster.Roster
	Root     *scene.Root
	Board    *ui.Board
	Typer    *interact.Typewriter
	Hints    *hint.Machine
	Director *director.Director
	Scroll   *Scroll

	// ===== Frame State =====

	camera   scene.Camera
	start    time.Time
	last     time.Time
	frames   uint64
	pointerX int
	pointerY int
	pointer  bool // pointer position known
	pressed  bool
	hover    int
	closed   bool
}

// New builds the world for opts.Roster and wires the frame loop collaborators
func New(opts Options) (*Context, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Roster == nil {
		opts.Roster = roster.Default()
	}
	if opts.Screen == nil {
		return nil, errors.New("engine: nil screen")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Speaker()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	cfg := opts.Config

	bg, cancel := context.WithCancel(context.Background())
	c := &Context{
		cfg:       cfg,
		screen:    opts.Screen,
		clock:     opts.Clock,
		log:       opts.Log,
		portraits: opts.Portraits,
		bgCtx:     bg,
		cancel:    cancel,
		Gate:      audio.NewGate(opts.Audio, cfg.Audio, cfg.Volume, opts.Log.Named("audio")),
		Drag:      interact.NewDrag(cfg.FPS, cfg.DragSensitivity),
		Scheduler: NewScheduler(opts.Clock, opts.Log.Named("scheduler")),
		Render:    render.NewOrchestrator(opts.Screen, render.ParseColorMode(cfg.ColorMode)),
	}
	c.Render.Register(render.NewSceneRenderer(), render.PriorityScene)
	c.Render.Register(render.NewOverlayRenderer(), render.PriorityOverlay)
	c.Render.Register(render.NewHudRenderer(), render.PriorityHUD)

	w, h := opts.Screen.Size()
	c.camera = scene.NewCamera(w, h)
	c.start = c.clock.Now()
	c.last = c.start

	if err := c.build(opts.Roster, 0); err != nil {
		cancel()
		return nil, err
	}
	return c, nil
}

// build constructs the world and everything keyed to it, then seeks to pos
func (c *Context) build(r *roster.Roster, pos float64) error {
	log := c.log
	root := scene.Build(scene.BuildConfig{
		Roster:      r,
		Seed:        c.cfg.Seed,
		TextureSize: c.cfg.TextureSize,
		Portraits:   c.portraits,
		Context:     c.bgCtx,
		Log:         log.Named("scene"),
	})
	if len(root.Failures) > 0 {
		log.Warnw("scene built with failures", "groups", root.Failures)
	}

	board := ui.NewBoard(r.Title, r.Closing)
	typer := interact.NewTypewriter(c.clock, c.cfg.TypewriterInterval.D(), board, c.Gate)
	hints, err := hint.New(hint.Options{
		Branches:    max(1, len(root.Batches)),
		UrgentDelay: c.cfg.HintUrgentDelay.D(),
		Log:         log.Named("hint"),
	})
	if err != nil {
		return multierr.Append(errors.Wrap(err, "engine: hint machine"), root.Dispose())
	}

	pace := director.DefaultPacing()
	pace.Scale(c.cfg.TimeScale)
	pace.Interstitial = c.cfg.InterstitialDuration.D()
	dir := director.New(root, r, director.Sinks{
		Board:     board,
		Typer:     typer,
		Hints:     hints,
		Scheduler: c.Scheduler,
		Log:       log.Named("director"),
	}, pace)

	c.Roster, c.Root, c.Board, c.Typer, c.Hints, c.Director = r, root, board, typer, hints, dir
	c.Scroll = NewScroll(dir.Duration(), c.cfg.ScrollRows, c.cfg.DocumentRows, c.cfg.ScrollEase, c.cfg.AutoplaySpeed)
	c.Scroll.JumpTo(pos)
	c.Scroll.Step(time.Hour)
	c.hover = 0

	dir.Seek(c.Scroll.Pos())
	log.Infow("world ready",
		"duration", dir.Duration(),
		"tokens", len(root.Tokens()),
		"resources", root.Resources.Live(),
	)
	return nil
}

// Rebuild tears the world down and builds r in its place, keeping the scroll
// position. Used by roster hot reload.
func (c *Context) Rebuild(r *roster.Roster) error {
	pos := 0.0
	if c.Scroll != nil {
		pos = c.Scroll.Pos()
	}
	err := c.teardownWorld()
	if berr := c.build(r, pos); berr != nil {
		return multierr.Append(err, berr)
	}
	return err
}

// teardownWorld disposes the world and drops everything keyed to it
func (c *Context) teardownWorld() error {
	c.Scheduler.Clear()
	if c.Typer != nil {
		for _, target := range []string{ui.TargetMentor, ui.TargetMember, ui.TargetGalaxy} {
			c.Typer.Cancel(target)
		}
	}
	if c.Root == nil {
		return nil
	}
	err := c.Root.Dispose()
	if live := c.Root.Resources.Live(); live != 0 {
		err = multierr.Append(err, errors.Errorf("engine: %d resources still live after dispose", live))
	}
	c.Root = nil
	return err
}

// Close stops background loads, disposes every allocation and releases the
// audio device. Safe to call more than once.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()
	return multierr.Combine(
		c.teardownWorld(),
		c.Gate.Close(),
	)
}

// Frames returns the number of frames rendered
func (c *Context) Frames() uint64 {
	return c.frames
}

// Camera returns the camera of the last frame
func (c *Context) Camera() scene.Camera {
	return c.camera
}

// Hover returns the member id under the pointer, interact.SunID for the sun, zero for none
func (c *Context) Hover() int {
	return c.hover
}
