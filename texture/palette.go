package texture

import (
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var regular *truetype.Font

func init() {
	var err error
	regular, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Face returns the label font at the given point size
func Face(points float64) font.Face {
	return truetype.NewFace(regular, &truetype.Options{Size: math.Max(points, 4)})
}

// goldenAngle spreads consecutive ids around the hue wheel
const goldenAngle = 137.50776405003785

// MemberColor derives a stable, saturated color from a member id
func MemberColor(id int) color.RGBA {
	h := math.Mod(float64(id)*goldenAngle, 360)
	if h < 0 {
		h += 360
	}
	return toRGBA(colorful.Hcl(h, 0.55, 0.68).Clamped())
}

// ParseHex decodes "#rrggbb", falling back to fallback on error
func ParseHex(s string, fallback color.RGBA) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return toRGBA(c)
}

// Contrast returns black or white, whichever reads better on c
func Contrast(c color.RGBA) color.RGBA {
	cc, _ := colorful.MakeColor(color.RGBA{c.R, c.G, c.B, 255})
	_, _, l := cc.Hcl()
	if l > 0.6 {
		return color.RGBA{10, 10, 20, 255}
	}
	return color.RGBA{250, 250, 250, 255}
}

// Mix interpolates a→b in Lab space
func Mix(a, b color.RGBA, t float64) color.RGBA {
	return mix(a, b, t)
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(color.RGBA{a.R, a.G, a.B, 255})
	cb, _ := colorful.MakeColor(color.RGBA{b.R, b.G, b.B, 255})
	out := toRGBA(ca.BlendLab(cb, clamp01(t)).Clamped())
	out.A = uint8(float64(a.A) + (float64(b.A)-float64(a.A))*clamp01(t))
	return out
}

// scale multiplies each channel by f, preserving alpha
func scale(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: clampByte(float64(c.R) * f),
		G: clampByte(float64(c.G) * f),
		B: clampByte(float64(c.B) * f),
		A: 255,
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

func clampByte(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
