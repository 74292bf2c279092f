// Package hint decides which guidance affordance is on screen.
//
// The state graph lives in a TOML definition run by engine/fsm; this package
// owns the scroll lock, the remaining branch counter and idle escalation, and
// is the only way to mutate any of them.
package hint

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/asset"
	"github.com/lixenwraith/starfolio/engine/fsm"
)

// State names used by the definition
const (
	StateScroll     = "Scroll"
	StateTouch      = "Touch"
	StateSuppressed = "Suppressed"
	StateOff        = "Off"
)

// Triggers understood by the definition
const (
	TriggerEnterCentral = "EnterCentral"
	TriggerLeaveCentral = "LeaveCentral"
	TriggerBranchDone   = "BranchDone"
	TriggerOverlayOpen  = "OverlayOpen"
	TriggerOverlayClose = "OverlayClose"
	TriggerFinale       = "Finale"
)

// Kind is the visible affordance
type Kind int

const (
	KindNone Kind = iota
	KindScroll
	KindTouch
)

func (k Kind) String() string {
	switch k {
	case KindScroll:
		return "scroll"
	case KindTouch:
		return "touch"
	}
	return "none"
}

// Options configure a Machine
type Options struct {
	Branches    int           // batches that must be revealed to unlock scrolling
	UrgentDelay time.Duration // idle time before a visible hint escalates; zero disables
	Definition  []byte        // TOML graph; nil selects asset.DefaultHintFSMConfig
	Log         *zap.SugaredLogger
}

// Machine tracks the hint shown for the current phase and input activity
type Machine struct {
	fsm *fsm.Machine[*Machine]
	log *zap.SugaredLogger

	branches    int
	urgentDelay time.Duration

	locked  bool
	touched map[int]bool
	idle    time.Duration
	hold    time.Duration
}

// New loads the definition and enters the initial state
func New(opts Options) (*Machine, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Branches < 1 {
		return nil, errors.Errorf("hint: need at least one branch, got %d", opts.Branches)
	}
	def := opts.Definition
	if def == nil {
		def = []byte(asset.DefaultHintFSMConfig)
	}

	h := &Machine{
		fsm:         fsm.NewMachine[*Machine](),
		log:         opts.Log,
		branches:    opts.Branches,
		urgentDelay: opts.UrgentDelay,
		touched:     make(map[int]bool, opts.Branches),
	}
	h.register()

	if err := h.fsm.LoadConfig(def); err != nil {
		return nil, errors.Wrap(err, "hint: load definition")
	}
	for _, name := range []string{StateScroll, StateTouch, StateSuppressed, StateOff} {
		if _, ok := h.fsm.GetStateID(name); !ok {
			return nil, errors.Errorf("hint: definition lacks state %q", name)
		}
	}
	if err := h.fsm.Init(h); err != nil {
		return nil, errors.Wrap(err, "hint: init")
	}
	return h, nil
}

func (h *Machine) register() {
	h.fsm.RegisterGuard("ScrollLocked", func(h *Machine) bool { return h.locked })
	h.fsm.RegisterGuard("ScrollUnlocked", func(h *Machine) bool { return !h.locked })
	h.fsm.RegisterAction("ResetIdle", func(h *Machine, _ map[string]any) { h.idle = 0 })
	h.fsm.RegisterAction("Trace", func(h *Machine, args map[string]any) {
		h.log.Debugw("hint", "state", args["hint"], "locked", h.locked, "remaining", h.Remaining())
	})
}

func (h *Machine) fire(trigger string) {
	if h.fsm.HandleEvent(h, trigger) {
		h.idle = 0
	}
}

// EnterCentral locks scrolling until every branch has been revealed and
// switches the scroll hint to the touch hint. Branches already revealed
// earlier in the session stay counted, so re-entering after completion
// does not lock again.
func (h *Machine) EnterCentral() {
	if h.State() == StateOff {
		return
	}
	h.locked = h.Remaining() > 0
	h.fire(TriggerEnterCentral)
}

// LeaveCentral releases the lock without touching the branch count
func (h *Machine) LeaveCentral() {
	h.locked = false
	h.fire(TriggerLeaveCentral)
}

// BranchRevealed counts batch k once; the last distinct batch unlocks scrolling
func (h *Machine) BranchRevealed(k int) {
	if k < 0 || k >= h.branches || h.touched[k] {
		return
	}
	h.touched[k] = true
	if h.Remaining() == 0 {
		h.locked = false
	}
	h.fire(TriggerBranchDone)
}

// OverlayOpened hides any hint until OverlayClosed
func (h *Machine) OverlayOpened() {
	h.fire(TriggerOverlayOpen)
}

// OverlayClosed restores the hint active before the overlay opened
func (h *Machine) OverlayClosed() {
	h.fire(TriggerOverlayClose)
}

// Finale turns hints off for the rest of the session
func (h *Machine) Finale() {
	h.locked = false
	h.fire(TriggerFinale)
}

// Activity records relevant input, cancelling escalation
func (h *Machine) Activity() {
	h.idle = 0
}

// Hold hides the hint for d without changing state, e.g. while text is typed
func (h *Machine) Hold(d time.Duration) {
	if d > h.hold {
		h.hold = d
	}
	h.idle = 0
}

// Tick advances idle and hold timers
func (h *Machine) Tick(dt time.Duration) {
	h.fsm.Update(h, dt)
	if h.hold > 0 {
		h.hold = max(h.hold-dt, 0)
		return
	}
	h.idle += dt
}

// State returns the active state name
func (h *Machine) State() string {
	return h.fsm.State()
}

// Visible returns the hint to draw, at most one
func (h *Machine) Visible() Kind {
	if h.hold > 0 {
		return KindNone
	}
	switch h.fsm.State() {
	case StateScroll:
		return KindScroll
	case StateTouch:
		return KindTouch
	}
	return KindNone
}

// Urgent reports whether the visible hint has idled past the escalation delay
func (h *Machine) Urgent() bool {
	return h.urgentDelay > 0 && h.Visible() != KindNone && h.idle >= h.urgentDelay
}

// ScrollLocked reports whether scroll input must be ignored
func (h *Machine) ScrollLocked() bool {
	return h.locked
}

// Remaining returns the branches still to be revealed
func (h *Machine) Remaining() int {
	return h.branches - len(h.touched)
}
