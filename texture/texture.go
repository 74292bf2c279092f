// Package texture synthesizes every surface the scene draws: planet noise,
// gas bands, cloud shells, glow sprites, text labels and avatar fallbacks.
//
// Generators are pure functions of their options. A zero seed draws fresh
// randomness on each call so repeated builds look different; any other seed
// yields the same image for the same options.
package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/noise"
	"github.com/anthonynsimon/bild/transform"
	"github.com/fogleman/gg"
)

// Size bounds for generated images
const (
	MinSize     = 8
	MaxSize     = 1024
	DefaultSize = 128
)

// Kind selects the generator
type Kind int

const (
	KindNoise Kind = iota
	KindGasBands
	KindClouds
	KindGlow
	KindTextLabel
	KindAvatarFallback
)

var kindNames = [...]string{
	KindNoise:          "noise",
	KindGasBands:       "gas-bands",
	KindClouds:         "clouds",
	KindGlow:           "glow",
	KindTextLabel:      "text-label",
	KindAvatarFallback: "avatar-fallback",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Kinds lists every generator in declaration order
func Kinds() []Kind {
	return []Kind{KindNoise, KindGasBands, KindClouds, KindGlow, KindTextLabel, KindAvatarFallback}
}

// Options parameterize a generator
type Options struct {
	Base  color.RGBA
	Size  int
	Label string
	Seed  int64
}

// ClampSize bounds a requested edge length to [MinSize, MaxSize]; zero selects DefaultSize
func ClampSize(n int) int {
	switch {
	case n == 0:
		return DefaultSize
	case n < MinSize:
		return MinSize
	case n > MaxSize:
		return MaxSize
	}
	return n
}

// Generate dispatches to the generator for kind
func Generate(kind Kind, opts Options) *image.RGBA {
	opts.Size = ClampSize(opts.Size)
	switch kind {
	case KindGasBands:
		return GasBands(opts)
	case KindClouds:
		return Clouds(opts)
	case KindGlow:
		return Glow(opts)
	case KindTextLabel:
		return TextLabel(opts)
	case KindAvatarFallback:
		return AvatarFallback(opts)
	default:
		return Noise(opts)
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// lattice fills an n×n grayscale grid from rng, used as low-frequency noise once upsampled
func lattice(rng *rand.Rand, n int) *image.RGBA {
	if n < 2 {
		n = 2
	}
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := uint8(rng.Intn(256))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// Noise produces a mottled planet surface tinted by the base color
func Noise(opts Options) *image.RGBA {
	size := ClampSize(opts.Size)
	rng := newRand(opts.Seed)

	smooth := transform.Resize(lattice(rng, 10), size, size, transform.Linear)

	var grain *image.RGBA
	if opts.Seed != 0 {
		grain = transform.Resize(lattice(rng, max(size/4, 2)), size, size, transform.Linear)
	} else {
		grain = noise.Generate(size, size, &noise.Options{NoiseFn: noise.Uniform, Monochrome: true})
	}

	mixed := blend.Opacity(smooth, grain, 0.25)
	out := image.NewRGBA(mixed.Bounds())
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			l := float64(mixed.RGBAAt(x, y).R) / 255
			out.SetRGBA(x, y, scale(opts.Base, 0.45+0.8*l))
		}
	}
	return out
}

// GasBands produces horizontal banding for gas giants
func GasBands(opts Options) *image.RGBA {
	size := ClampSize(opts.Size)
	rng := newRand(opts.Seed)

	bands := 4 + rng.Float64()*5
	phaseA := rng.Float64() * 2 * math.Pi
	phaseB := rng.Float64() * 2 * math.Pi
	dark := scale(opts.Base, 0.55)
	light := scale(opts.Base, 1.35)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		fy := float64(y) / float64(size)
		v := 0.5 + 0.3*math.Sin(fy*2*math.Pi*bands+phaseA) + 0.15*math.Sin(fy*2*math.Pi*bands*2.7+phaseB)
		v += (rng.Float64() - 0.5) * 0.08
		row := mix(dark, light, clamp01(v))
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, row)
		}
	}
	return blur.Gaussian(img, 1.0)
}

// Clouds produces a translucent shell layered over a planet core
func Clouds(opts Options) *image.RGBA {
	size := ClampSize(opts.Size)
	rng := newRand(opts.Seed)
	fs := float64(size)

	dc := gg.NewContext(size, size)
	puffs := 12 + rng.Intn(16)
	for i := 0; i < puffs; i++ {
		x := rng.Float64() * fs
		y := fs*0.1 + rng.Float64()*fs*0.8
		rx := fs * (0.05 + rng.Float64()*0.18)
		ry := rx * (0.3 + rng.Float64()*0.4)
		dc.SetRGBA(1, 1, 1, 0.12+rng.Float64()*0.25)
		dc.DrawEllipse(x, y, rx, ry)
		dc.Fill()
	}
	return blur.Gaussian(dc.Image(), fs/48)
}

// Glow produces a radial falloff sprite, opaque at the center
func Glow(opts Options) *image.RGBA {
	size := ClampSize(opts.Size)
	c := float64(size) / 2

	grad := gg.NewRadialGradient(c, c, 0, c, c, c)
	base := opts.Base
	grad.AddColorStop(0, color.RGBA{base.R, base.G, base.B, 255})
	grad.AddColorStop(0.35, color.RGBA{base.R, base.G, base.B, 140})
	grad.AddColorStop(1, color.RGBA{base.R, base.G, base.B, 0})

	dc := gg.NewContext(size, size)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()
	return clone.AsRGBA(dc.Image())
}

// TextLabel renders opts.Label centered on a transparent strip a quarter as tall as it is wide
func TextLabel(opts Options) *image.RGBA {
	w := ClampSize(opts.Size)
	h := max(w/4, MinSize)

	dc := gg.NewContext(w, h)
	dc.SetFontFace(Face(float64(h) * 0.55))

	cx, cy := float64(w)/2, float64(h)/2
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawStringAnchored(opts.Label, cx+1, cy+1, 0.5, 0.5)
	dc.SetColor(opts.Base)
	dc.DrawStringAnchored(opts.Label, cx, cy, 0.5, 0.5)
	return clone.AsRGBA(dc.Image())
}

// AvatarFallback renders an opaque disc in the base color with a contrasting
// ring and the label (the member id) centered on it
func AvatarFallback(opts Options) *image.RGBA {
	size := ClampSize(opts.Size)
	fs := float64(size)
	c := fs / 2

	base := opts.Base
	base.A = 255

	dc := gg.NewContext(size, size)
	dc.DrawCircle(c, c, c*0.92)
	dc.SetColor(base)
	dc.Fill()

	dc.SetLineWidth(math.Max(1, fs*0.06))
	dc.SetColor(scale(base, 1.5))
	dc.DrawCircle(c, c, c*0.86)
	dc.Stroke()

	dc.SetFontFace(Face(fs * 0.42))
	dc.SetColor(Contrast(base))
	dc.DrawStringAnchored(opts.Label, c, c, 0.5, 0.5)
	return clone.AsRGBA(dc.Image())
}

// Sample reads img at normalized (u, v); u wraps, v clamps
func Sample(img *image.RGBA, u, v float64) color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	u -= math.Floor(u)
	v = clamp01(v)
	x := min(int(u*float64(w)), w-1)
	y := min(int(v*float64(h)), h-1)
	return img.RGBAAt(b.Min.X+x, b.Min.Y+y)
}
