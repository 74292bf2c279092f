package render

import (
	"image/color"
)

// RGB is an opaque 8-bit color kept independent of tcell
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// FromRGBA drops alpha
func FromRGBA(c color.RGBA) RGB {
	return RGB{c.R, c.G, c.B}
}

func clamp(v float64) uint8 {
	switch {
	case v >= 255:
		return 255
	case v <= 0:
		return 0
	}
	return uint8(v)
}

// zip combines a and b channel by channel
func zip(a, b RGB, f func(x, y uint8) uint8) RGB {
	return RGB{f(a.R, b.R), f(a.G, b.G), f(a.B, b.B)}
}

// Lerp moves from a toward b by t, clamped to [0, 1]
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return zip(a, b, func(x, y uint8) uint8 {
		return clamp(float64(x) + t*(float64(y)-float64(x)))
	})
}

// Blend is plain alpha compositing of src over dst
func Blend(dst, src RGB, alpha float64) RGB {
	return Lerp(dst, src, alpha)
}

// Add sums channels with saturation, faded in by alpha
func Add(dst, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	sum := zip(dst, src, func(x, y uint8) uint8 {
		return uint8(min(int(x)+int(y), 255))
	})
	return Lerp(dst, sum, alpha)
}

// Screen inverts, multiplies and inverts again, faded in by alpha
func Screen(dst, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	lit := zip(dst, src, func(x, y uint8) uint8 {
		return 255 - uint8((255-int(x))*(255-int(y))/255)
	})
	return Lerp(dst, lit, alpha)
}

// Scale multiplies every channel by factor with saturation
func Scale(c RGB, factor float64) RGB {
	return RGB{clamp(float64(c.R) * factor), clamp(float64(c.G) * factor), clamp(float64(c.B) * factor)}
}

// Luma is Rec. 601 brightness in [0, 255]
func Luma(c RGB) int {
	return (int(c.R)*299 + int(c.G)*587 + int(c.B)*114) / 1000
}
