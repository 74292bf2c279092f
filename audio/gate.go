// Package audio synthesizes typewriter clicks behind a gate that stays shut
// until the first user gesture.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// State is the lifecycle of the audio resource
type State int

const (
	// Uninitialized drops every click; nothing has touched the device
	Uninitialized State = iota
	// Active has attempted device init exactly once; clicks play unless silent or muted
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "uninitialized"
}

// Backend is an output device
type Backend interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Close() error
}

// speakerBackend plays through the system speaker
type speakerBackend struct{}

// Speaker returns the default beep speaker backend
func Speaker() Backend { return speakerBackend{} }

func (speakerBackend) Init(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(50*time.Millisecond))
}

func (speakerBackend) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerBackend) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// Gate owns the audio resource and its one-way activation
type Gate struct {
	mu      sync.Mutex
	state   State
	silent  bool // device init failed; behaves as Active without output
	muted   bool
	enabled bool
	volume  float64
	backend Backend
	log     *zap.SugaredLogger
	seed    int64
	played  int
}

// NewGate creates a gate; disabled gates activate silently
func NewGate(backend Backend, enabled bool, volume float64, log *zap.SugaredLogger) *Gate {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if backend == nil {
		backend = Speaker()
	}
	return &Gate{backend: backend, enabled: enabled, volume: volume, log: log}
}

// Activate opens the gate on the first user gesture; later calls are no-ops
// A device failure leaves the gate active but silent
func (g *Gate) Activate() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Active {
		return
	}
	g.state = Active
	if !g.enabled {
		g.silent = true
		return
	}
	if err := g.backend.Init(sampleRate); err != nil {
		g.silent = true
		g.log.Warnw("audio unavailable, continuing silent", "error", errors.Wrap(err, "speaker init"))
		return
	}
	g.log.Debugw("audio active", "rate", int(sampleRate))
}

// Click plays one typewriter tick if the gate is open and audible
func (g *Gate) Click() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Active || g.silent || g.muted {
		return
	}
	g.seed++
	g.played++
	g.backend.Play(NewClick(sampleRate, g.volume, g.seed))
}

// ToggleMute flips the mute flag and returns the new value
func (g *Gate) ToggleMute() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.muted = !g.muted
	return g.muted
}

// Muted reports the user mute toggle
func (g *Gate) Muted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.muted
}

// State returns the lifecycle state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Silent reports whether an active gate produces no output
func (g *Gate) Silent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.silent
}

// Played returns the number of clicks sent to the device
func (g *Gate) Played() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.played
}

// Close releases the device if it was opened
func (g *Gate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Active || g.silent {
		return nil
	}
	g.silent = true
	return errors.Wrap(g.backend.Close(), "close audio")
}
