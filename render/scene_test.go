package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/starfolio/scene"
)

const (
	testW = 80
	testH = 24
)

// testWorld is a single sphere at the origin seen from +Z
func testWorld() (*scene.Root, scene.Camera) {
	root := &scene.Root{Scene: scene.NewNode("scene", scene.KindGroup, scene.Identity())}
	ball := scene.NewNode("ball", scene.KindSphere, scene.Identity())
	ball.Radius = 2
	ball.Color = color.RGBA{200, 100, 50, 255}
	root.Scene.Add(ball)

	cam := scene.NewCamera(testW, testH)
	cam.Eye = mgl64.Vec3{0, 0, 10}
	cam.Target = mgl64.Vec3{}
	return root, cam
}

func renderScene(root *scene.Root, cam scene.Camera) *RenderBuffer {
	buf := NewRenderBuffer(testW, testH)
	NewSceneRenderer().Render(Context{Root: root, Camera: cam}, buf)
	return buf
}

// TestSphereClaimsDepth verifies an opaque sphere paints its disc and front-surface depth
func TestSphereClaimsDepth(t *testing.T) {
	root, cam := testWorld()
	buf := renderScene(root, cam)

	cx, cy := testW/2, testH/2
	assert.InDelta(t, 8.0, buf.Depth(cx, cy), 0.1)
	assert.NotEqual(t, RgbBackground, buf.Cell(cx, cy).Bg)
	assert.True(t, math.IsInf(buf.Depth(0, 0), 1), "corners stay empty")
}

// TestHiddenSubtreeSkipped verifies invisible nodes draw nothing
func TestHiddenSubtreeSkipped(t *testing.T) {
	root, cam := testWorld()
	root.Scene.Children[0].Visible = false
	buf := renderScene(root, cam)
	assert.Equal(t, RgbBackground, buf.Cell(testW/2, testH/2).Bg)
}

// TestPointsDepthTested verifies particles behind a solid are hidden and ones in front show
func TestPointsDepthTested(t *testing.T) {
	root, cam := testWorld()
	pts := scene.NewNode("pts", scene.KindPoints, scene.Identity())
	pts.Points = []scene.Point{
		{Pos: mgl64.Vec3{0, 0, -20}, Color: color.RGBA{255, 255, 255, 255}, Glyph: 'x'},
	}
	root.Scene.Add(pts)

	buf := renderScene(root, cam)
	assert.Equal(t, ' ', buf.Cell(testW/2, testH/2).Rune, "behind the sphere")

	pts.Points = append(pts.Points, scene.Point{Pos: mgl64.Vec3{0, 0, 5}, Color: color.RGBA{255, 255, 255, 255}, Glyph: '+'})
	buf = renderScene(root, cam)
	assert.Equal(t, '+', buf.Cell(testW/2, testH/2).Rune, "in front of the sphere")
}

// TestTranslucentBehindSolid verifies a translucent sprite only shows where nothing nearer is solid
func TestTranslucentBehindSolid(t *testing.T) {
	root, cam := testWorld()
	before := renderScene(root, cam).Cell(testW/2, testH/2)

	glow := scene.NewNode("glow", scene.KindSprite, scene.At(mgl64.Vec3{0, 0, -5}))
	glow.Radius = 10
	glow.Opacity = 0.5
	glow.Color = color.RGBA{0, 120, 255, 255}
	root.Scene.Add(glow)

	buf := renderScene(root, cam)
	assert.Equal(t, before, buf.Cell(testW/2, testH/2))
	assert.NotEqual(t, RgbBackground, buf.Cell(15, 2).Bg)
}

// TestBehindCameraCulled verifies objects behind the eye are not projected
func TestBehindCameraCulled(t *testing.T) {
	root, cam := testWorld()
	cam.Eye, cam.Target = mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, -20}
	buf := renderScene(root, cam)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			require.Equal(t, RgbBackground, buf.Cell(x, y).Bg)
		}
	}
}

// TestLabelSpriteDrawsText verifies labeled sprites render their text centered
func TestLabelSpriteDrawsText(t *testing.T) {
	root, cam := testWorld()
	root.Scene.Children[0].Visible = false
	label := scene.NewNode("label", scene.KindSprite, scene.Identity())
	label.Label = "SUN"
	label.Radius = 1
	label.Color = color.RGBA{255, 255, 255, 255}
	root.Scene.Add(label)

	buf := renderScene(root, cam)
	_, y, ok := findText(buf, "SUN")
	require.True(t, ok)
	assert.Equal(t, testH/2, y)
}

// TestLineGlyph verifies stroke selection by slope
func TestLineGlyph(t *testing.T) {
	assert.Equal(t, '─', lineGlyph(10, 0))
	assert.Equal(t, '│', lineGlyph(0, 5))
	assert.Equal(t, '╲', lineGlyph(4, 2))
	assert.Equal(t, '╱', lineGlyph(4, -2))
}

// findText locates s in the buffer, one cell per rune
func findText(buf *RenderBuffer, s string) (x, y int, ok bool) {
	want := []rune(s)
	for y = 0; y < buf.Height(); y++ {
		row := make([]rune, buf.Width())
		for x := range row {
			row[x] = buf.Cell(x, y).Rune
		}
		for x = 0; x+len(want) <= len(row); x++ {
			match := true
			for i, r := range want {
				if row[x+i] != r {
					match = false
					break
				}
			}
			if match {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
