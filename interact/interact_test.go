package interact

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/scene"
)

type textLog struct {
	text   map[string]string
	writes map[string]int
}

func newTextLog() *textLog {
	return &textLog{text: map[string]string{}, writes: map[string]int{}}
}

func (l *textLog) SetText(target, text string) {
	l.text[target] = text
	l.writes[target]++
}

type clickCounter int

func (c *clickCounter) Click() { *c++ }

// TestTypewriterReveal verifies characters appear one interval apart with a click each
func TestTypewriterReveal(t *testing.T) {
	clk := clock.NewMock()
	sink := newTextLog()
	var clicks clickCounter
	tw := NewTypewriter(clk, 50*time.Millisecond, sink, &clicks)

	tw.Start("member", "Ada L")
	tw.Update()
	assert.Equal(t, "A", sink.text["member"])

	clk.Add(149 * time.Millisecond)
	tw.Update()
	assert.Equal(t, "Ada", sink.text["member"])

	clk.Add(time.Second)
	tw.Update()
	assert.Equal(t, "Ada L", sink.text["member"])
	assert.Equal(t, clickCounter(4), clicks, "spaces do not click")
	assert.False(t, tw.Active("member"))
	assert.Equal(t, 250*time.Millisecond, tw.Duration("Ada L"))
}

// TestTypewriterRestartCancels verifies rapid restarts never overlap on one target
func TestTypewriterRestartCancels(t *testing.T) {
	clk := clock.NewMock()
	sink := newTextLog()
	var clicks clickCounter
	tw := NewTypewriter(clk, 40*time.Millisecond, sink, &clicks)

	for i := 0; i < 10; i++ {
		tw.Start("member", "Grace")
		clk.Add(10 * time.Millisecond)
		tw.Update()
		assert.Equal(t, 1, tw.Count())
	}
	clk.Add(time.Second)
	tw.Update()
	assert.Equal(t, "Grace", sink.text["member"])
	assert.Zero(t, tw.Count())
	// Each restart showed only its first letter, then one reveal finished the word
	assert.Equal(t, clickCounter(10+4), clicks)
}

// TestTypewriterTargetsIndependent verifies reveals on different targets run side by side
func TestTypewriterTargetsIndependent(t *testing.T) {
	clk := clock.NewMock()
	sink := newTextLog()
	tw := NewTypewriter(clk, 10*time.Millisecond, sink, nil)
	tw.Start("a", "xx")
	tw.Start("b", "yyyy")
	assert.Equal(t, 2, tw.Count())
	tw.Finish("b")
	assert.Equal(t, "yyyy", sink.text["b"])
	assert.True(t, tw.Cancel("a"))
	assert.False(t, tw.Cancel("a"))
}

// TestDragEasesTowardTarget verifies the rotation lags then settles on the target
func TestDragEasesTowardTarget(t *testing.T) {
	d := NewDrag(30, 0.05)
	d.Press(10, 10)
	require.True(t, d.Move(30, 10))
	assert.True(t, d.Dragging())
	assert.False(t, d.Release(), "moved press is not a click")

	ty, _ := d.Target()
	assert.InDelta(t, 1.0, ty, 1e-9)

	d.Update()
	y, _ := d.Rotation()
	assert.Greater(t, y, 0.0)
	assert.Less(t, y, ty)

	for i := 0; i < 300; i++ {
		d.Update()
	}
	y, _ = d.Rotation()
	assert.InDelta(t, ty, y, 1e-3)
}

// TestDragPressReleaseIsClick verifies a stationary press reports a click
func TestDragPressReleaseIsClick(t *testing.T) {
	d := NewDrag(30, 0.05)
	d.Press(4, 4)
	assert.False(t, d.Move(4, 4))
	assert.True(t, d.Release())
	assert.False(t, d.Release())
}

// TestDragPitchClamped verifies vertical drag cannot flip the object
func TestDragPitchClamped(t *testing.T) {
	d := NewDrag(30, 0.05)
	d.Press(0, 0)
	d.Move(0, 500)
	_, p := d.Target()
	assert.InDelta(t, d.pitchLimit, p, 1e-9)
}

// TestRaySphere verifies near-side hits and misses
func TestRaySphere(t *testing.T) {
	o := mgl64.Vec3{0, 0, 10}
	d := mgl64.Vec3{0, 0, -1}
	dist, ok := RaySphere(o, d, mgl64.Vec3{}, 2)
	require.True(t, ok)
	assert.InDelta(t, 8, dist, 1e-9)

	_, ok = RaySphere(o, d, mgl64.Vec3{5, 0, 0}, 2)
	assert.False(t, ok)

	_, ok = RaySphere(o, d, mgl64.Vec3{0, 0, 20}, 2)
	assert.False(t, ok, "sphere behind the origin")
}

// TestPickNearestToken verifies picking through a projected token finds it and ignores hidden batches
func TestPickNearestToken(t *testing.T) {
	r := scene.Build(scene.BuildConfig{Roster: roster.Default(), Seed: 5, TextureSize: 16})
	cam := scene.NewCamera(160, 50)
	cam.Eye = scene.SunPosition().Add(mgl64.Vec3{0, 6, 45})
	cam.Target = scene.SunPosition()

	r.SetBatchVisible(0, true)
	scene.Animate(r, scene.Input{Elapsed: 2, Camera: cam, Reveal: []float64{1, 1, 1}})

	tok := r.Batches[0].Tokens[0]
	x, y, _, ok := cam.Project(tok.Node.WorldPosition())
	require.True(t, ok)

	hit, ok := Pick(cam, int(x), int(y), Targets(r))
	require.True(t, ok)
	assert.Equal(t, tok.Member.ID, hit.Target.ID)

	for _, tg := range Targets(r) {
		if tg.ID != SunID {
			assert.Equal(t, 0, r.Token(tg.ID).Batch, "hidden batches are not pickable")
		}
	}

	sx, sy, _, ok := cam.Project(scene.SunPosition())
	require.True(t, ok)
	r.SetBatchVisible(0, false)
	hit, ok = Pick(cam, int(sx), int(sy), Targets(r))
	require.True(t, ok)
	assert.Equal(t, SunID, hit.Target.ID)
}
