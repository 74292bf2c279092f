package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellAspect is the height:width ratio of a terminal cell
const CellAspect = 2.0

// Camera projects world space onto a grid of terminal cells
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FovY   float64 // radians
	Near   float64
	Far    float64
	Width  int // cells
	Height int // cells
}

// NewCamera creates a camera with the default lens
func NewCamera(width, height int) Camera {
	return Camera{
		Eye:    mgl64.Vec3{0, 0, 1},
		Up:     mgl64.Vec3{0, 1, 0},
		FovY:   mgl64.DegToRad(55),
		Near:   0.1,
		Far:    4000,
		Width:  width,
		Height: height,
	}
}

// View returns the look-at matrix
func (c Camera) View() mgl64.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	// Degenerate when looking straight along up; nudge the target
	target := c.Target
	if d := target.Sub(c.Eye); d.Len() == 0 {
		target = c.Eye.Add(mgl64.Vec3{0, 0, -1})
	} else if math.Abs(d.Normalize().Dot(up.Normalize())) > 0.9999 {
		target = target.Add(mgl64.Vec3{0, 0, -1e-3})
	}
	return mgl64.LookAtV(c.Eye, target, up)
}

// Projection returns the perspective matrix, corrected for tall cells
func (c Camera) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = float64(c.Width) / (float64(c.Height) * CellAspect)
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Project maps a world point to cell coordinates with y growing downward
// depth is the view-space distance in front of the eye; ok is false behind it
func (c Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	view := c.View()
	vp := mgl64.TransformCoordinate(p, view)
	depth = -vp[2]
	if depth <= c.Near {
		return 0, 0, depth, false
	}
	win := mgl64.Project(p, view, c.Projection(), 0, 0, c.Width, c.Height)
	return win[0], float64(c.Height) - win[1], depth, true
}

// ScaleAt returns how many cell rows one world unit spans at the given depth
func (c Camera) ScaleAt(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return float64(c.Height) / (2 * depth * math.Tan(c.FovY/2))
}

// Ray returns the world-space ray through cell (x, y)
func (c Camera) Ray(x, y float64) (origin, dir mgl64.Vec3, err error) {
	view, proj := c.View(), c.Projection()
	wy := float64(c.Height) - y
	near, err := mgl64.UnProject(mgl64.Vec3{x, wy, 0}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return origin, dir, err
	}
	far, err := mgl64.UnProject(mgl64.Vec3{x, wy, 1}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return origin, dir, err
	}
	return near, far.Sub(near).Normalize(), nil
}
