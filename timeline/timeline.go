// Package timeline maps one progress axis onto continuous values, discrete
// states and crossing cues.
//
// Resolution is a pure function of time: Resolve(t) never depends on how
// the cursor got to t. Seek applies the difference from the previously
// applied frame, so scrubbing back over a region undoes exactly what
// scrubbing forward did.
package timeline

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Tween interpolates one key over [Start, End]
type Tween struct {
	Key        string
	Start, End float64
	From, To   mgl64.Vec3
	Ease       Ease
}

// at evaluates the tween, clamping outside its interval
func (tw *Tween) at(t float64) mgl64.Vec3 {
	span := tw.End - tw.Start
	if span <= 0 || t >= tw.End {
		return tw.To
	}
	if t <= tw.Start {
		return tw.From
	}
	f := tw.Ease((t - tw.Start) / span)
	return tw.From.Add(tw.To.Sub(tw.From).Mul(f))
}

// step sets a discrete key at a time
type step struct {
	at    float64
	value string
}

// Cue fires once per crossing of At
// Forward runs when the cursor moves from a < At to b >= At,
// Backward when it moves from a >= At to b < At
type Cue struct {
	At       float64
	Name     string
	Forward  func() error
	Backward func() error
}

// Label names a checkpoint on the axis
type Label struct {
	Name string
	At   float64
}

// Frame is the resolved state at one time
type Frame struct {
	Time   float64
	Values map[string]mgl64.Vec3
	States map[string]string
}

// Vec returns a tweened vector, zero when unknown
func (f Frame) Vec(key string) mgl64.Vec3 {
	return f.Values[key]
}

// Scalar returns the X component of a tweened key
func (f Frame) Scalar(key string) float64 {
	return f.Values[key][0]
}

// State returns a discrete value, empty when unset
func (f Frame) State(key string) string {
	return f.States[key]
}

// Discrete flag values
const (
	On  = "on"
	Off = ""
)

// StateSink receives discrete changes during Seek
type StateSink func(key, value string) error

// Timeline is built once and then only its cursor moves
type Timeline struct {
	log *zap.SugaredLogger

	duration float64
	initial  map[string]mgl64.Vec3
	tweens   map[string][]Tween
	defaults map[string]string
	steps    map[string][]step
	cues     []Cue
	labels   []Label

	onState StateSink

	cursor  float64
	applied   map[string]string
	seeded    bool
	replaying bool
}

// New creates an empty timeline
func New(log *zap.SugaredLogger) *Timeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Timeline{
		log:      log,
		initial:  make(map[string]mgl64.Vec3),
		tweens:   make(map[string][]Tween),
		defaults: make(map[string]string),
		steps:    make(map[string][]step),
		applied:  make(map[string]string),
	}
}

// OnState installs the sink notified of discrete changes
func (tl *Timeline) OnState(sink StateSink) {
	tl.onState = sink
}

// Initial sets the value a key holds before its first tween
func (tl *Timeline) Initial(key string, v mgl64.Vec3) *Timeline {
	tl.initial[key] = v
	return tl
}

// To tweens key from wherever it is at start to v over dur
// Tweens on one key must be added in time order
func (tl *Timeline) To(key string, start, dur float64, v mgl64.Vec3, ease Ease) *Timeline {
	if ease == nil {
		ease = Linear
	}
	if dur < 0 {
		dur = 0
	}
	if list := tl.tweens[key]; len(list) > 0 && start < list[len(list)-1].Start {
		tl.log.Warnw("tween added out of order", "key", key, "start", start)
	}
	tl.tweens[key] = append(tl.tweens[key], Tween{
		Key:   key,
		Start: start,
		End:   start + dur,
		From:  tl.value(key, start),
		To:    v,
		Ease:  ease,
	})
	tl.extend(start + dur)
	return tl
}

// ToScalar tweens the X component of key
func (tl *Timeline) ToScalar(key string, start, dur, v float64, ease Ease) *Timeline {
	return tl.To(key, start, dur, mgl64.Vec3{v, 0, 0}, ease)
}

// Default sets the value a discrete key holds before its first Set
func (tl *Timeline) Default(key, value string) *Timeline {
	tl.defaults[key] = value
	return tl
}

// Set switches a discrete key to value at time at
func (tl *Timeline) Set(key string, at float64, value string) *Timeline {
	if _, ok := tl.defaults[key]; !ok {
		tl.defaults[key] = Off
	}
	list := append(tl.steps[key], step{at: at, value: value})
	sort.SliceStable(list, func(i, j int) bool { return list[i].at < list[j].at })
	tl.steps[key] = list
	tl.extend(at)
	return tl
}

// Between sets key to value over [from, to) and back to its default afterwards
func (tl *Timeline) Between(key string, from, to float64, value string) *Timeline {
	tl.Set(key, from, value)
	return tl.Set(key, to, tl.defaults[key])
}

// Cue registers a crossing callback; either direction may be nil
func (tl *Timeline) Cue(at float64, name string, forward, backward func() error) *Timeline {
	tl.cues = append(tl.cues, Cue{At: at, Name: name, Forward: forward, Backward: backward})
	slices.SortStableFunc(tl.cues, func(a, b Cue) int { return cmpFloat(a.At, b.At) })
	tl.extend(at)
	return tl
}

// Label names a checkpoint
func (tl *Timeline) Label(name string, at float64) *Timeline {
	tl.labels = append(tl.labels, Label{Name: name, At: at})
	slices.SortStableFunc(tl.labels, func(a, b Label) int { return cmpFloat(a.At, b.At) })
	return tl
}

// SetDuration fixes the axis length; shorter than the content is ignored
func (tl *Timeline) SetDuration(d float64) {
	tl.extend(d)
}

func (tl *Timeline) extend(t float64) {
	if t > tl.duration {
		tl.duration = t
	}
}

// Duration returns the axis length
func (tl *Timeline) Duration() float64 {
	return tl.duration
}

// Labels returns checkpoints in time order
func (tl *Timeline) Labels() []Label {
	return slices.Clone(tl.labels)
}

// LabelTime looks up a checkpoint
func (tl *Timeline) LabelTime(name string) (float64, bool) {
	for _, l := range tl.labels {
		if l.Name == name {
			return l.At, true
		}
	}
	return 0, false
}

// Cues returns registered cues in time order
func (tl *Timeline) Cues() []Cue {
	return slices.Clone(tl.cues)
}

// Keys returns every continuous and discrete key, sorted
func (tl *Timeline) Keys() (values, states []string) {
	for k := range tl.tweens {
		values = append(values, k)
	}
	for k := range tl.initial {
		if _, ok := tl.tweens[k]; !ok {
			values = append(values, k)
		}
	}
	for k := range tl.defaults {
		states = append(states, k)
	}
	sort.Strings(values)
	sort.Strings(states)
	return values, states
}

// value resolves one continuous key at t
func (tl *Timeline) value(key string, t float64) mgl64.Vec3 {
	list := tl.tweens[key]
	v := tl.initial[key]
	for i := range list {
		if list[i].Start > t {
			break
		}
		v = list[i].at(t)
	}
	return v
}

// state resolves one discrete key at t; a step at exactly t is applied
func (tl *Timeline) state(key string, t float64) string {
	v := tl.defaults[key]
	for _, s := range tl.steps[key] {
		if s.at > t {
			break
		}
		v = s.value
	}
	return v
}

// Clamp bounds t to the axis
func (tl *Timeline) Clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	return math.Min(t, tl.duration)
}

// Resolve evaluates every key at t without side effects
func (tl *Timeline) Resolve(t float64) Frame {
	t = tl.Clamp(t)
	f := Frame{
		Time:   t,
		Values: make(map[string]mgl64.Vec3, len(tl.tweens)+len(tl.initial)),
		States: make(map[string]string, len(tl.defaults)),
	}
	for k, v := range tl.initial {
		f.Values[k] = v
	}
	for k := range tl.tweens {
		f.Values[k] = tl.value(k, t)
	}
	for k := range tl.defaults {
		f.States[k] = tl.state(k, t)
	}
	return f
}

// Progress converts a normalized position to axis time
func (tl *Timeline) Progress(p float64) float64 {
	return tl.Clamp(p * tl.duration)
}

// Cursor returns the last sought time
func (tl *Timeline) Cursor() float64 {
	return tl.cursor
}

// Seek moves the cursor to t, emits discrete changes in key order and
// fires crossed cues in crossing order. Callback failures are logged and
// never interrupt the move.
func (tl *Timeline) Seek(t float64) Frame {
	t = tl.Clamp(t)
	f := tl.Resolve(t)
	from := tl.cursor

	keys := make([]string, 0, len(f.States))
	for k := range f.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := f.States[k]
		if prev, ok := tl.applied[k]; ok && prev == v && tl.seeded {
			continue
		}
		tl.applied[k] = v
		if tl.onState != nil {
			tl.guard("state "+k, func() error { return tl.onState(k, v) })
		}
	}

	if tl.seeded {
		tl.crossCues(from, t)
	} else {
		// First seek replays every cue up to t so one-shot effects match a forward scrub
		tl.replaying = true
		tl.crossCues(math.Inf(-1), t)
		tl.replaying = false
	}
	tl.seeded = true
	tl.cursor = t
	return f
}

// Replaying reports whether cues are firing as part of the first seek's
// catch-up rather than a real crossing
func (tl *Timeline) Replaying() bool {
	return tl.replaying
}

func (tl *Timeline) crossCues(a, b float64) {
	switch {
	case b > a:
		for _, c := range tl.cues {
			if c.At > a && c.At <= b && c.Forward != nil {
				tl.guard("cue "+c.Name, c.Forward)
			}
		}
	case b < a:
		for i := len(tl.cues) - 1; i >= 0; i-- {
			c := tl.cues[i]
			if c.At > b && c.At <= a && c.Backward != nil {
				tl.guard("cue "+c.Name, c.Backward)
			}
		}
	}
}

// guard runs fn, logging an error or panic instead of propagating it
func (tl *Timeline) guard(what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			tl.log.Errorw("timeline callback panicked", "callback", what, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		tl.log.Warnw("timeline callback failed", "callback", what, "error", err)
	}
}

// Applied returns a copy of the discrete state last emitted
func (tl *Timeline) Applied() map[string]string {
	out := make(map[string]string, len(tl.applied))
	for k, v := range tl.applied {
		out[k] = v
	}
	return out
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
