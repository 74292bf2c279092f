package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDepthTest verifies nearer solid fragments win and translucent ones never claim depth
func TestDepthTest(t *testing.T) {
	buf := NewRenderBuffer(4, 2)
	red, blue := RGB{255, 0, 0}, RGB{0, 0, 255}

	require.True(t, buf.SetDepth(1, 1, 5, true, 'a', red, red, BlendReplace, 1))
	assert.False(t, buf.SetDepth(1, 1, 9, true, 'b', blue, blue, BlendReplace, 1))
	assert.Equal(t, 'a', buf.Cell(1, 1).Rune)
	assert.Equal(t, 5.0, buf.Depth(1, 1))

	require.True(t, buf.SetDepth(1, 1, 2, false, 0, RGB{}, blue, BlendAlphaBg, 0.5))
	assert.Equal(t, 5.0, buf.Depth(1, 1), "translucent fragment must not write depth")
	assert.Equal(t, 'a', buf.Cell(1, 1).Rune)
	assert.Equal(t, Blend(red, blue, 0.5), buf.Cell(1, 1).Bg)

	buf.Clear()
	assert.True(t, math.IsInf(buf.Depth(1, 1), 1))
	assert.Equal(t, RgbBackground, buf.Cell(1, 1).Bg)
}

// TestOutOfBoundsIgnored verifies writes outside the grid are dropped
func TestOutOfBoundsIgnored(t *testing.T) {
	buf := NewRenderBuffer(2, 2)
	buf.SetWithBg(-1, 0, 'x', RGBWhite, RGBWhite)
	buf.SetWithBg(2, 1, 'x', RGBWhite, RGBWhite)
	assert.False(t, buf.Visible(5, 5, 0))
	assert.Equal(t, Cell{}, buf.Cell(9, 9))
}

// TestResizeKeepsCapacity verifies shrinking reuses storage and clears
func TestResizeKeepsCapacity(t *testing.T) {
	buf := NewRenderBuffer(10, 10)
	buf.SetWithBg(0, 0, 'x', RGBWhite, RGBWhite)
	buf.Resize(3, 2)
	assert.Equal(t, 3, buf.Width())
	assert.Equal(t, 2, buf.Height())
	assert.Equal(t, ' ', buf.Cell(0, 0).Rune)
}

// TestBlendOps verifies the compositing operators
func TestBlendOps(t *testing.T) {
	dark := RGB{40, 40, 40}
	mid := RGB{128, 64, 0}

	assert.Equal(t, mid, Blend(dark, mid, 1))
	assert.Equal(t, dark, Blend(dark, mid, 0))

	s := Screen(dark, mid, 1)
	assert.GreaterOrEqual(t, s.R, mid.R)
	assert.GreaterOrEqual(t, s.G, dark.G)

	assert.Equal(t, RGB{255, 255, 255}, Add(RGB{200, 200, 200}, RGB{100, 100, 100}, 1))
	assert.Equal(t, RGB{20, 20, 20}, Scale(dark, 0.5))
	assert.Equal(t, RGB{84, 52, 20}, Lerp(dark, mid, 0.5))
}

// TestRGBTo256 verifies palette mapping picks the cube or gray ramp
func TestRGBTo256(t *testing.T) {
	assert.Equal(t, uint8(16), RGBTo256(RGBBlack))
	assert.Equal(t, uint8(231), RGBTo256(RGBWhite))
	assert.Equal(t, uint8(196), RGBTo256(RGB{255, 0, 0}))
	assert.Equal(t, uint8(21), RGBTo256(RGB{0, 0, 255}))

	gray := RGBTo256(RGB{128, 128, 128})
	assert.GreaterOrEqual(t, gray, uint8(232))
}

// TestParseColorMode verifies explicit config values bypass detection
func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorMode256, ParseColorMode("256"))
	assert.Equal(t, ColorModeTrueColor, ParseColorMode("truecolor"))

	t.Setenv("COLORTERM", "truecolor")
	assert.Equal(t, ColorModeTrueColor, ParseColorMode("auto"))
}

// TestWrapText verifies word wrapping, hard breaks and overlong words
func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, WrapText("the quick brown fox", 10))
	assert.Equal(t, []string{"a", "", "b"}, WrapText("a\n\nb", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, WrapText("abcdefghij", 4))
	assert.Nil(t, WrapText("x", 0))

	for _, line := range WrapText("界界界 界界", 4) {
		assert.LessOrEqual(t, TextWidth(line), 4)
	}
}

// TestTruncate verifies display-width truncation with ellipsis
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "long…", Truncate("long text", 5))
	assert.Equal(t, "…", Truncate("long", 1))
	assert.Equal(t, "", Truncate("long", 0))
}

// TestWideRuneText verifies double-width runes occupy two cells
func TestWideRuneText(t *testing.T) {
	buf := NewRenderBuffer(6, 1)
	n := buf.Text(0, 0, "界a", RGBWhite, AttrNone, 0)
	assert.Equal(t, 3, n)
	assert.Equal(t, '界', buf.Cell(0, 0).Rune)
	assert.Equal(t, rune(0), buf.Cell(1, 0).Rune)
	assert.Equal(t, 'a', buf.Cell(2, 0).Rune)
}
