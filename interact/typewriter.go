package interact

import (
	"sort"
	"time"
	"unicode"

	"github.com/benbjohnson/clock"
)

// TextSink receives the revealed prefix of a target's text
type TextSink interface {
	SetText(target, text string)
}

// Clicker plays one typewriter tick
type Clicker interface {
	Click()
}

type reveal struct {
	runes []rune
	shown int
	start time.Time
}

// Typewriter reveals text one character per interval, at most one reveal per target
// Driven from the frame loop through Update; it never spawns goroutines
type Typewriter struct {
	clock    clock.Clock
	interval time.Duration
	sink     TextSink
	click    Clicker

	active map[string]*reveal
}

// NewTypewriter creates a typewriter writing to sink and ticking click
func NewTypewriter(clk clock.Clock, interval time.Duration, sink TextSink, click Clicker) *Typewriter {
	if interval <= 0 {
		interval = 30 * time.Millisecond
	}
	return &Typewriter{
		clock:    clk,
		interval: interval,
		sink:     sink,
		click:    click,
		active:   make(map[string]*reveal),
	}
}

// Start begins revealing text on target, cancelling any in-flight reveal there
func (tw *Typewriter) Start(target, text string) {
	tw.Cancel(target)
	tw.active[target] = &reveal{runes: []rune(text), start: tw.clock.Now()}
	tw.sink.SetText(target, "")
}

// Cancel stops the reveal on target, leaving whatever was already shown
func (tw *Typewriter) Cancel(target string) bool {
	if _, ok := tw.active[target]; !ok {
		return false
	}
	delete(tw.active, target)
	return true
}

// Finish reveals the rest of target's text immediately
func (tw *Typewriter) Finish(target string) {
	if r, ok := tw.active[target]; ok {
		r.shown = len(r.runes)
		tw.sink.SetText(target, string(r.runes))
		delete(tw.active, target)
	}
}

// Update reveals every character now due, one click per visible character
func (tw *Typewriter) Update() {
	if len(tw.active) == 0 {
		return
	}
	now := tw.clock.Now()

	// Stable order keeps click and sink ordering deterministic
	targets := make([]string, 0, len(tw.active))
	for t := range tw.active {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		r := tw.active[target]
		due := min(int(now.Sub(r.start)/tw.interval)+1, len(r.runes))
		if due <= r.shown {
			continue
		}
		for i := r.shown; i < due; i++ {
			if tw.click != nil && !unicode.IsSpace(r.runes[i]) {
				tw.click.Click()
			}
		}
		r.shown = due
		tw.sink.SetText(target, string(r.runes[:due]))
		if due == len(r.runes) {
			delete(tw.active, target)
		}
	}
}

// Active reports whether target has an in-flight reveal
func (tw *Typewriter) Active(target string) bool {
	_, ok := tw.active[target]
	return ok
}

// Count returns the number of in-flight reveals
func (tw *Typewriter) Count() int {
	return len(tw.active)
}

// Duration is how long a full reveal of text takes
func (tw *Typewriter) Duration(text string) time.Duration {
	return time.Duration(len([]rune(text))) * tw.interval
}
