package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Click shape
const (
	ClickDuration = 22 * time.Millisecond
	clickAttack   = 1 * time.Millisecond
	clickTau      = 4 * time.Millisecond
	clickTone     = 2300.0
	clickNoiseMix = 0.35
	clickToneMix  = 0.25
)

// sample produces the n-th mono sample of a generator
type sample func(n int) float64

// sine returns a pure tone at hz
func sine(hz float64, rate beep.SampleRate) sample {
	step := 2 * math.Pi * hz / float64(rate)
	return func(n int) float64 {
		return math.Sin(step * float64(n))
	}
}

// whiteNoise returns uniform noise in [-1, 1) from a seeded source
func whiteNoise(seed int64) sample {
	rng := rand.New(rand.NewSource(seed))
	return func(int) float64 {
		return rng.Float64()*2 - 1
	}
}

// envelope ramps linearly over attack samples, then falls off with time constant tau
func envelope(attack, tau int) func(n int) float64 {
	t := math.Max(float64(tau), 1)
	return func(n int) float64 {
		if n < attack {
			return float64(n) / float64(attack)
		}
		return math.Exp(-float64(n-attack) / t)
	}
}

// burst renders gen through env for exactly length samples
func burst(gen sample, env func(int) float64, length int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= length {
			return 0, false
		}
		n := min(len(samples), length-pos)
		for i := range n {
			v := gen(pos) * env(pos)
			samples[i] = [2]float64{v, v}
			pos++
		}
		return n, true
	})
}

// gain scales s linearly; zero and below are silent
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

// NewClick synthesizes one typewriter tick: a noise burst over a high
// sine, both decaying within a few milliseconds
func NewClick(rate beep.SampleRate, volume float64, seed int64) beep.Streamer {
	length := rate.N(ClickDuration)
	attack := rate.N(clickAttack)
	noise := burst(whiteNoise(seed), envelope(attack, rate.N(clickTau)), length)
	tone := burst(sine(clickTone, rate), envelope(attack, rate.N(2*clickTau)), length)
	return gain(beep.Mix(gain(noise, clickNoiseMix), gain(tone, clickToneMix)), volume)
}
