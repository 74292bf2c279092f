package engine

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const scrollSnap = 1e-3

// Scroll maps wheel and key input onto a timeline position. Input moves a
// target; a critically damped spring pulls the position toward it every frame
// and never carries it past the target. Autoplay instead walks the
// position linearly to a stop and ignores input until it arrives.
type Scroll struct {
	duration float64
	notch    float64 // timeline seconds per wheel notch
	ease     float64 // spring angular frequency
	speed    float64

	// spring is rebuilt when the frame step changes
	spring   harmonica.Spring
	springDt time.Duration

	pos      float64
	vel      float64
	target   float64
	autoplay bool
}

// NewScroll maps a document of documentRows rows, moved scrollRows per notch, onto duration
func NewScroll(duration float64, scrollRows, documentRows int, ease, speed float64) *Scroll {
	s := &Scroll{ease: ease, speed: speed}
	s.SetDuration(duration, scrollRows, documentRows)
	return s
}

// SetDuration rescales the mapping, keeping position and target in range
func (s *Scroll) SetDuration(duration float64, scrollRows, documentRows int) {
	s.duration = math.Max(0, duration)
	s.notch = 0
	if documentRows > 0 {
		s.notch = s.duration * float64(scrollRows) / float64(documentRows)
	}
	s.pos = s.clamp(s.pos)
	s.target = s.clamp(s.target)
}

func (s *Scroll) clamp(t float64) float64 {
	return math.Max(0, math.Min(s.duration, t))
}

// Nudge moves the target by n notches, negative scrolls back; ignored during autoplay
func (s *Scroll) Nudge(n float64) bool {
	if s.autoplay {
		return false
	}
	s.target = s.clamp(s.target + n*s.notch)
	return true
}

// JumpTo sets the target directly; ignored during autoplay
func (s *Scroll) JumpTo(t float64) bool {
	if s.autoplay {
		return false
	}
	s.target = s.clamp(t)
	return true
}

// Autoplay walks the position to t at the autoplay speed
func (s *Scroll) Autoplay(t float64) {
	s.target = s.clamp(t)
	s.autoplay = s.target != s.pos
	s.vel = 0
}

// Autoplaying reports whether an autoplay is in progress
func (s *Scroll) Autoplaying() bool {
	return s.autoplay
}

// Limit keeps position and target at or before t
func (s *Scroll) Limit(t float64) {
	s.target = math.Min(s.target, t)
	if s.pos > t {
		s.pos, s.vel = t, 0
	}
	if s.autoplay && s.pos == s.target {
		s.autoplay = false
	}
}

// Step advances the position by dt and returns it
func (s *Scroll) Step(dt time.Duration) float64 {
	sec := dt.Seconds()
	if sec <= 0 {
		return s.pos
	}
	if s.autoplay {
		d := s.target - s.pos
		move := s.speed * sec
		if math.Abs(d) <= move {
			s.pos = s.target
			s.autoplay = false
		} else {
			s.pos += math.Copysign(move, d)
		}
		return s.pos
	}
	if dt != s.springDt {
		s.spring = harmonica.NewSpring(sec, s.ease, 1.0)
		s.springDt = dt
	}
	before := s.target - s.pos
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	after := s.target - s.pos
	if math.Abs(after) < scrollSnap || (before != 0 && math.Signbit(after) != math.Signbit(before)) {
		s.pos, s.vel = s.target, 0
	}
	return s.pos
}

// Pos is the current timeline position
func (s *Scroll) Pos() float64 { return s.pos }

// Target is where the position is heading
func (s *Scroll) Target() float64 { return s.target }

// Duration is the mapped axis length
func (s *Scroll) Duration() float64 { return s.duration }

// Progress is the position normalized to [0, 1]
func (s *Scroll) Progress() float64 {
	if s.duration <= 0 {
		return 0
	}
	return s.pos / s.duration
}
