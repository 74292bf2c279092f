package engine

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

type deferred struct {
	id uint64
	at time.Time
	fn func()
}

// Scheduler runs one-shot callbacks on the frame loop once their wall-clock
// deadline passes. Nothing runs on a timer goroutine; RunDue is called at the
// top of every frame, so callbacks see the same single-threaded state as input
// handlers.
type Scheduler struct {
	clock clock.Clock
	log   *zap.SugaredLogger

	mu      sync.Mutex
	pending map[uint64]deferred
	nextID  uint64
}

// NewScheduler creates an empty scheduler reading clk
func NewScheduler(clk clock.Clock, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		clock:   clk,
		log:     log,
		pending: make(map[uint64]deferred),
	}
}

// After schedules fn to run d from now and returns its id; ids are never zero
func (s *Scheduler) After(d time.Duration, fn func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.pending[s.nextID] = deferred{id: s.nextID, at: s.clock.Now().Add(d), fn: fn}
	return s.nextID
}

// Cancel drops a pending callback; false if it already ran or never existed
func (s *Scheduler) Cancel(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// Pending returns the number of callbacks waiting
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Clear drops every pending callback
func (s *Scheduler) Clear() {
	s.mu.Lock()
	clear(s.pending)
	s.mu.Unlock()
}

// RunDue runs every callback whose deadline has passed, earliest first, and
// returns how many ran. A panicking callback is logged and the rest still run.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()

	s.mu.Lock()
	var due []deferred
	for id, d := range s.pending {
		if !d.at.After(now) {
			due = append(due, d)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(due, func(a, b deferred) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	for _, d := range due {
		s.run(d)
	}
	return len(due)
}

func (s *Scheduler) run(d deferred) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("deferred callback panicked", "id", d.id, "panic", r)
		}
	}()
	d.fn()
}
