// Package director lays the cinematic path out on a timeline and routes the
// resulting discrete changes to the overlay board, the typewriter, the hint
// machine and scene visibility.
//
// Every visible side effect is a keyed timeline state, so scrubbing back
// over a segment undoes it. The only wall-clock effect is the arrival
// interstitial, which is scheduled on the forward crossing and cancelled on
// the backward one.
package director

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/parameter"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/scene"
	"github.com/lixenwraith/starfolio/timeline"
	"github.com/lixenwraith/starfolio/ui"
)

// Timeline keys
const (
	KeyCameraPos  = "camera.pos"
	KeyCameraLook = "camera.look"
	KeySunYaw     = "sun.yaw"

	KeyWelcome   = "ui.welcome"
	KeyContent   = "ui.scroll-content"
	KeySignature = "ui.finale-signature"

	KeyMentorPanel = "panel.mentor"
	KeyGalaxyPanel = "panel.galaxy"
	KeyPhase       = "phase"
	KeyFinaleLines = "finale.lines"
)

// Phases along the path
const (
	PhaseIntro    = "intro"
	PhaseTravel   = "travel"
	PhaseCentral  = "central"
	PhaseVoid     = "void"
	PhaseGalaxies = "galaxies"
	PhaseFinale   = "finale"
)

// BatchVisKey is the visibility key of token batch k
func BatchVisKey(k int) string { return fmt.Sprintf("vis.batch-%d", k) }

// BatchRevealKey is the orbit extension key of token batch k
func BatchRevealKey(k int) string { return fmt.Sprintf("batch-%d.reveal", k) }

// GalaxyVisKey is the visibility key of background galaxy k
func GalaxyVisKey(k int) string { return fmt.Sprintf("vis.galaxy-%d", k) }

// Typer reveals text on a board target
type Typer interface {
	Start(target, text string)
	Cancel(target string) bool
	Duration(text string) time.Duration
}

// Hints receives phase changes and reading holds
type Hints interface {
	EnterCentral()
	LeaveCentral()
	BranchRevealed(k int)
	Finale()
	Hold(d time.Duration)
}

// Scheduler runs fn once after d of wall time unless cancelled
type Scheduler interface {
	After(d time.Duration, fn func()) uint64
	Cancel(id uint64) bool
}

// Pacing sets segment lengths in timeline seconds
type Pacing struct {
	EntryHold     float64
	MentorTravel  float64
	ReadPad       float64
	SunTravel     float64
	BatchReveal   float64
	BatchHold     float64
	BatchRetract  float64
	VoidTravel    float64
	GalaxyTravel  float64
	FinaleTravel  float64
	FinaleStagger float64
	FinaleTail    float64

	Interstitial time.Duration
}

// DefaultPacing returns the tuned segment lengths
func DefaultPacing() Pacing {
	return Pacing{
		EntryHold:     parameter.EntryHold,
		MentorTravel:  parameter.MentorTravel,
		ReadPad:       parameter.ReadPad,
		SunTravel:     parameter.SunTravel,
		BatchReveal:   parameter.BatchReveal,
		BatchHold:     parameter.BatchHold,
		BatchRetract:  parameter.BatchRetract,
		VoidTravel:    parameter.VoidTravel,
		GalaxyTravel:  parameter.GalaxyTravel,
		FinaleTravel:  parameter.FinaleTravel,
		FinaleStagger: parameter.FinaleStagger,
		FinaleTail:    parameter.FinaleTail,
		Interstitial:  parameter.InterstitialDuration,
	}
}

// Scale stretches every path segment by f; the interstitial is wall-clock and unaffected
func (p *Pacing) Scale(f float64) {
	if f <= 0 || f == 1 {
		return
	}
	for _, v := range []*float64{
		&p.EntryHold, &p.MentorTravel, &p.ReadPad, &p.SunTravel,
		&p.BatchReveal, &p.BatchHold, &p.BatchRetract, &p.VoidTravel,
		&p.GalaxyTravel, &p.FinaleTravel, &p.FinaleStagger, &p.FinaleTail,
	} {
		*v *= f
	}
}

// Sinks are the collaborators the director drives
type Sinks struct {
	Board     *ui.Board
	Typer     Typer
	Hints     Hints
	Scheduler Scheduler
	Log       *zap.SugaredLogger
}

// Checkpoint is a named stop on the path
type Checkpoint struct {
	Name     string  `json:"name"`
	At       float64 `json:"at"`
	Progress float64 `json:"progress"`
	Phase    string  `json:"phase"`
}

// Shot is the camera and sun pose the scene animates from
type Shot struct {
	Eye    mgl64.Vec3
	Look   mgl64.Vec3
	SunYaw float64
	Reveal []float64
}

// Director owns the timeline and applies its discrete changes
type Director struct {
	tl     *timeline.Timeline
	root   *scene.Root
	roster *roster.Roster
	sinks  Sinks
	pace   Pacing
	log    *zap.SugaredLogger

	phase        string
	interstitial uint64
	batchEnds    []float64
	sunAt        float64
}

// New builds the full path for root and wires the state sink
func New(root *scene.Root, r *roster.Roster, sinks Sinks, pace Pacing) *Director {
	if sinks.Log == nil {
		sinks.Log = zap.NewNop().Sugar()
	}
	d := &Director{
		tl:     timeline.New(sinks.Log),
		root:   root,
		roster: r,
		sinks:  sinks,
		pace:   pace,
		log:    sinks.Log,
	}
	d.build()
	d.tl.OnState(d.apply)
	return d
}

// Timeline exposes the underlying axis
func (d *Director) Timeline() *timeline.Timeline {
	return d.tl
}

// Duration returns the axis length
func (d *Director) Duration() float64 {
	return d.tl.Duration()
}

// Phase returns the phase last applied
func (d *Director) Phase() string {
	return d.phase
}

// Seek moves the axis to t and returns the shot to render
func (d *Director) Seek(t float64) Shot {
	return d.shot(d.tl.Seek(t))
}

// Resolve evaluates the shot at t without applying anything
func (d *Director) Resolve(t float64) Shot {
	return d.shot(d.tl.Resolve(t))
}

func (d *Director) shot(f timeline.Frame) Shot {
	s := Shot{
		Eye:    f.Vec(KeyCameraPos),
		Look:   f.Vec(KeyCameraLook),
		SunYaw: f.Scalar(KeySunYaw),
		Reveal: make([]float64, len(d.root.Batches)),
	}
	for k := range s.Reveal {
		s.Reveal[k] = f.Scalar(BatchRevealKey(k))
	}
	return s
}

// Checkpoints lists every label with its normalized progress
func (d *Director) Checkpoints() []Checkpoint {
	dur := d.tl.Duration()
	labels := d.tl.Labels()
	out := make([]Checkpoint, 0, len(labels))
	for _, l := range labels {
		p := 0.0
		if dur > 0 {
			p = l.At / dur
		}
		out = append(out, Checkpoint{
			Name:     l.Name,
			At:       l.At,
			Progress: p,
			Phase:    d.tl.Resolve(l.At).State(KeyPhase),
		})
	}
	return out
}

// NextStop returns the end of the first batch cycle after t
// Used to autoplay through the central phase while scrolling is locked
func (d *Director) NextStop(t float64) (float64, bool) {
	for _, end := range d.batchEnds {
		if end > t+1e-9 {
			return end, true
		}
	}
	return 0, false
}

// SunArrival is the time of the central checkpoint
func (d *Director) SunArrival() float64 {
	return d.sunAt
}

// holdFor sizes a reading hold from the typed text
func (d *Director) holdFor(text string) float64 {
	if d.sinks.Typer == nil {
		return d.pace.ReadPad
	}
	return d.sinks.Typer.Duration(text).Seconds() + d.pace.ReadPad
}

// MentorText is the typed body of mentor panel i
func MentorText(m roster.Mentor) string {
	return strings.Join(ui.MentorLines(m), "\n")
}

// GalaxyText is the typed bio of galaxy g
func GalaxyText(g roster.Galaxy) string {
	return g.Title + "\n\n" + g.Bio
}

func (d *Director) build() {
	tl, p := d.tl, d.pace
	v3 := func(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }

	tl.Initial(KeyCameraPos, v3(parameter.EntryEye))
	tl.Initial(KeyCameraLook, v3(parameter.EntryLook))
	tl.Initial(KeySunYaw, mgl64.Vec3{})
	tl.Default(KeyPhase, PhaseIntro)
	tl.Default(KeyMentorPanel, timeline.Off)
	tl.Default(KeyGalaxyPanel, timeline.Off)
	tl.Default(KeyFinaleLines, "0")
	tl.Default(KeySignature, timeline.Off)
	for k := range d.root.Batches {
		tl.Initial(BatchRevealKey(k), mgl64.Vec3{})
		tl.Default(BatchVisKey(k), timeline.Off)
	}
	for k := range d.root.Galaxies {
		tl.Default(GalaxyVisKey(k), timeline.Off)
	}

	t := 0.0
	tl.Label("entry", t)
	tl.Between(KeyWelcome, t, t+p.EntryHold, timeline.On)
	t += p.EntryHold
	tl.Set(KeyPhase, t, PhaseTravel)
	contentFrom := t

	for i, pl := range d.root.Planets {
		at := pl.Node.Base.Position
		tl.To(KeyCameraPos, t, p.MentorTravel, at.Add(pl.CameraOffset), timeline.InOutCubic)
		tl.To(KeyCameraLook, t, p.MentorTravel, at.Add(pl.LookOffset), timeline.InOutCubic)
		t += p.MentorTravel

		hold := d.holdFor(MentorText(pl.Mentor))
		tl.Label(fmt.Sprintf("mentor-%d", i+1), t)
		tl.Between(KeyMentorPanel, t, t+hold, strconv.Itoa(i))
		t += hold
	}

	sun := scene.SunPosition()
	tl.To(KeyCameraPos, t, p.SunTravel, sun.Add(v3(parameter.SunEye)), timeline.InOutSine)
	tl.To(KeyCameraLook, t, p.SunTravel, sun, timeline.InOutSine)
	tl.Label("to-sun", t)
	t += p.SunTravel
	tl.Set(KeyContent, contentFrom, timeline.On)
	tl.Set(KeyContent, t, timeline.Off)

	d.sunAt = t
	tl.Label("sun", t)
	tl.Set(KeyPhase, t, PhaseCentral)
	tl.Cue(t, "interstitial", d.showInterstitial, d.hideInterstitial)

	yaw := 0.0
	for k := range d.root.Batches {
		start := t
		cycle := p.BatchReveal + p.BatchHold + p.BatchRetract
		tl.Label(fmt.Sprintf("batch-%d", k+1), start)
		tl.Between(BatchVisKey(k), start, start+cycle, timeline.On)
		tl.ToScalar(BatchRevealKey(k), start, p.BatchReveal, 1, timeline.OutQuad)
		tl.ToScalar(BatchRevealKey(k), start+p.BatchReveal+p.BatchHold, p.BatchRetract, 0, timeline.InOutSine)

		yaw += 2 * math.Pi / float64(len(d.root.Batches))
		tl.ToScalar(KeySunYaw, start, cycle, yaw, timeline.InOutSine)

		k := k
		tl.Cue(start+p.BatchReveal, fmt.Sprintf("batch-%d-revealed", k+1), func() error {
			if d.sinks.Hints != nil {
				d.sinks.Hints.BranchRevealed(k)
			}
			return nil
		}, nil)
		t += cycle
		d.batchEnds = append(d.batchEnds, t)
	}

	tl.Label("void", t)
	tl.Set(KeyPhase, t, PhaseVoid)
	tl.To(KeyCameraPos, t, p.VoidTravel, sun.Add(v3(parameter.VoidEye)), timeline.InOutSine)
	tl.To(KeyCameraLook, t, p.VoidTravel, mgl64.Vec3{0, 0, parameter.GalaxyStart}, timeline.InOutSine)
	t += p.VoidTravel

	if len(d.root.Galaxies) > 0 {
		tl.Set(KeyPhase, t, PhaseGalaxies)
	}
	for k, g := range d.root.Galaxies {
		at := g.Node.Base.Position
		start := t
		tl.To(KeyCameraPos, t, p.GalaxyTravel, at.Add(g.CameraOffset), timeline.InOutCubic)
		tl.To(KeyCameraLook, t, p.GalaxyTravel, at, timeline.InOutCubic)
		t += p.GalaxyTravel

		hold := d.holdFor(GalaxyText(g.Bio))
		tl.Label(fmt.Sprintf("galaxy-%d", k+1), t)
		tl.Between(KeyGalaxyPanel, t, t+hold, strconv.Itoa(k))
		t += hold
		tl.Between(GalaxyVisKey(k), start, t+p.GalaxyTravel*0.5, timeline.On)
	}

	var last mgl64.Vec3
	if n := len(d.root.Galaxies); n > 0 {
		last = d.root.Galaxies[n-1].Node.Base.Position
	} else {
		last = mgl64.Vec3{0, 0, parameter.GalaxyStart}
	}
	tl.Label("finale", t)
	tl.Set(KeyPhase, t, PhaseFinale)
	tl.To(KeyCameraPos, t, p.FinaleTravel, last.Add(v3(parameter.FinaleEye)), timeline.InOutSine)
	tl.To(KeyCameraLook, t, p.FinaleTravel, mgl64.Vec3{0, 0, last[2] - parameter.GalaxySpacing}, timeline.InOutSine)
	t += p.FinaleTravel * 0.5
	for i := range d.roster.Closing {
		tl.Set(KeyFinaleLines, t, strconv.Itoa(i+1))
		t += p.FinaleStagger
	}
	tl.Set(KeySignature, t, timeline.On)
	tl.SetDuration(max(t, tl.Duration()) + p.FinaleTail)
}

// apply routes one discrete change to its collaborator
func (d *Director) apply(key, value string) error {
	switch {
	case key == KeyWelcome:
		d.board().SetFlag(ui.FlagWelcome, value == timeline.On)
	case key == KeyContent:
		d.board().SetFlag(ui.FlagScrollContent, value == timeline.On)
	case key == KeySignature:
		d.board().SetFlag(ui.FlagFinaleSignature, value == timeline.On)
	case key == KeyMentorPanel:
		return d.applyMentor(value)
	case key == KeyGalaxyPanel:
		return d.applyGalaxy(value)
	case key == KeyFinaleLines:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "finale lines %q", value)
		}
		d.board().Lines = min(n, len(d.roster.Closing))
	case key == KeyPhase:
		d.applyPhase(value)
	case strings.HasPrefix(key, "vis.batch-"):
		k, err := strconv.Atoi(strings.TrimPrefix(key, "vis.batch-"))
		if err != nil {
			return errors.Wrap(err, key)
		}
		d.root.SetBatchVisible(k, value == timeline.On)
	case strings.HasPrefix(key, "vis.galaxy-"):
		k, err := strconv.Atoi(strings.TrimPrefix(key, "vis.galaxy-"))
		if err != nil {
			return errors.Wrap(err, key)
		}
		d.root.SetGalaxyVisible(k, value == timeline.On)
	default:
		return errors.Errorf("unrouted key %q", key)
	}
	return nil
}

func (d *Director) board() *ui.Board {
	return d.sinks.Board
}

func (d *Director) applyMentor(value string) error {
	if d.sinks.Typer != nil {
		d.sinks.Typer.Cancel(ui.TargetMentor)
	}
	if value == timeline.Off {
		d.board().HideMentor()
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 || i >= len(d.root.Planets) {
		return errors.Errorf("mentor panel %q out of range", value)
	}
	m := d.root.Planets[i].Mentor
	d.board().ShowMentor(i, m)
	d.typeOut(ui.TargetMentor, MentorText(m))
	return nil
}

func (d *Director) applyGalaxy(value string) error {
	if d.sinks.Typer != nil {
		d.sinks.Typer.Cancel(ui.TargetGalaxy)
	}
	if value == timeline.Off {
		d.board().HideGalaxy()
		return nil
	}
	k, err := strconv.Atoi(value)
	if err != nil || k < 0 || k >= len(d.root.Galaxies) {
		return errors.Errorf("galaxy panel %q out of range", value)
	}
	g := d.root.Galaxies[k].Bio
	d.board().ShowGalaxy(k, g)
	d.typeOut(ui.TargetGalaxy, GalaxyText(g))
	return nil
}

// typeOut starts a reveal and masks hints until it has been read
func (d *Director) typeOut(target, text string) {
	if d.sinks.Typer == nil {
		d.board().SetText(target, text)
		return
	}
	d.sinks.Typer.Start(target, text)
	if d.sinks.Hints != nil {
		pad := time.Duration(d.pace.ReadPad * float64(time.Second))
		d.sinks.Hints.Hold(d.sinks.Typer.Duration(text) + pad)
	}
}

func (d *Director) applyPhase(next string) {
	prev := d.phase
	d.phase = next
	if prev == next || d.sinks.Hints == nil {
		return
	}
	d.log.Debugw("phase", "from", prev, "to", next)
	if prev == PhaseCentral {
		d.sinks.Hints.LeaveCentral()
	}
	switch next {
	case PhaseCentral:
		d.sinks.Hints.EnterCentral()
	case PhaseFinale:
		d.sinks.Hints.Finale()
	}
}

// showInterstitial announces the sun on a real crossing only; a rebuilt
// director catching up past the sun stays quiet
func (d *Director) showInterstitial() error {
	if d.tl.Replaying() {
		return nil
	}
	d.board().SetFlag(ui.FlagInterstitial, true)
	if d.sinks.Scheduler == nil {
		return nil
	}
	if d.interstitial != 0 {
		d.sinks.Scheduler.Cancel(d.interstitial)
	}
	d.interstitial = d.sinks.Scheduler.After(d.pace.Interstitial, func() {
		d.interstitial = 0
		d.board().SetFlag(ui.FlagInterstitial, false)
	})
	return nil
}

func (d *Director) hideInterstitial() error {
	if d.interstitial != 0 && d.sinks.Scheduler != nil {
		d.sinks.Scheduler.Cancel(d.interstitial)
		d.interstitial = 0
	}
	d.board().SetFlag(ui.FlagInterstitial, false)
	return nil
}
