package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClampSize verifies requested sizes are bounded
func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSize, ClampSize(0))
	assert.Equal(t, MinSize, ClampSize(1))
	assert.Equal(t, MinSize, ClampSize(-50))
	assert.Equal(t, 300, ClampSize(300))
	assert.Equal(t, MaxSize, ClampSize(1<<20))
}

// TestGenerateAllKinds verifies every generator returns an image of the clamped size
func TestGenerateAllKinds(t *testing.T) {
	base := color.RGBA{200, 120, 60, 255}
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			img := Generate(k, Options{Base: base, Size: 5000, Label: "7", Seed: 3})
			require.NotNil(t, img)
			assert.Equal(t, MaxSize, img.Bounds().Dx())
		})
	}
}

// TestSeededDeterministic verifies a non-zero seed reproduces the same pixels
func TestSeededDeterministic(t *testing.T) {
	opts := Options{Base: color.RGBA{90, 140, 220, 255}, Size: 64, Seed: 42}
	for _, k := range []Kind{KindNoise, KindGasBands, KindClouds} {
		a := Generate(k, opts)
		b := Generate(k, opts)
		assert.Equal(t, a.Pix, b.Pix, k.String())
	}
}

// TestUnseededVaries verifies the default path yields cosmetic variety
func TestUnseededVaries(t *testing.T) {
	opts := Options{Base: color.RGBA{90, 140, 220, 255}, Size: 64}
	a := Noise(opts)
	b := Noise(opts)
	assert.NotEqual(t, a.Pix, b.Pix)
}

// TestAvatarFallbackVisible verifies the fallback disc is opaque, colored and labeled
func TestAvatarFallbackVisible(t *testing.T) {
	base := MemberColor(12)
	img := AvatarFallback(Options{Base: base, Size: 64, Label: "12"})

	// Just off-center avoids the glyph strokes; the disc fill must show through
	px := img.RGBAAt(32, 8)
	assert.Equal(t, uint8(255), px.A)
	assert.InDelta(t, int(base.R), int(px.R), 2)
	assert.InDelta(t, int(base.G), int(px.G), 2)

	// The label must put at least some contrasting pixels in the middle band
	contrast := Contrast(base)
	found := false
	for y := 20; y < 44 && !found; y++ {
		for x := 16; x < 48; x++ {
			p := img.RGBAAt(x, y)
			if near(p, contrast, 40) {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected label pixels on the disc")

	// Corners stay transparent so the token reads as a disc
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

// TestMemberColorDistinct verifies neighbouring ids get visibly different colors
func TestMemberColorDistinct(t *testing.T) {
	seen := map[color.RGBA]int{}
	for id := 1; id <= 30; id++ {
		c := MemberColor(id)
		assert.Equal(t, c, MemberColor(id), "stable for id %d", id)
		if prev, ok := seen[c]; ok {
			t.Fatalf("ids %d and %d share color %v", prev, id, c)
		}
		seen[c] = id
	}
}

// TestSampleWraps verifies u wraps and v clamps
func TestSampleWraps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 0, 255, 255})

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, Sample(img, 1.1, -3))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, Sample(img, 0.9, 9))
}

// TestParseHexFallback verifies bad hex input returns the fallback
func TestParseHexFallback(t *testing.T) {
	fb := color.RGBA{1, 2, 3, 255}
	assert.Equal(t, fb, ParseHex("nope", fb))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, ParseHex("#ff0000", fb))
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= tol && d(a.G, b.G) <= tol && d(a.B, b.B) <= tol && a.A > 200
}
