// Package interact turns pointer input into scene intent: ray picking,
// drag-to-rotate and the typewriter reveal.
package interact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/starfolio/scene"
)

// SunID identifies the central object among pick targets
const SunID = -1

// Target is a pickable sphere
type Target struct {
	ID     int // member id, or SunID
	Center mgl64.Vec3
	Radius float64
}

// Hit is the nearest intersection along a pick ray
type Hit struct {
	Target   Target
	Distance float64
}

// Targets collects every pickable object currently shown
func Targets(r *scene.Root) []Target {
	var out []Target
	if r == nil {
		return out
	}
	for _, tok := range r.Tokens() {
		if !tok.Node.Shown() {
			continue
		}
		out = append(out, Target{
			ID:     tok.Member.ID,
			Center: tok.Node.WorldPosition(),
			Radius: tok.Node.Radius * tok.Node.WorldScale(),
		})
	}
	if r.Sun != nil && r.Sun.Core != nil && r.Sun.Core.Shown() {
		out = append(out, Target{
			ID:     SunID,
			Center: r.Sun.Core.WorldPosition(),
			Radius: r.Sun.Radius,
		})
	}
	return out
}

// Pick casts a ray through cell (col, row) and returns the nearest target hit
func Pick(cam scene.Camera, col, row int, targets []Target) (Hit, bool) {
	o, d, err := cam.Ray(float64(col)+0.5, float64(row)+0.5)
	if err != nil {
		return Hit{}, false
	}
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, t := range targets {
		if dist, ok := RaySphere(o, d, t.Center, t.Radius); ok && dist < best.Distance {
			best = Hit{Target: t, Distance: dist}
			found = true
		}
	}
	return best, found
}

// RaySphere returns the distance along unit direction d to the first
// intersection with the sphere, ignoring hits behind the origin
func RaySphere(o, d, c mgl64.Vec3, r float64) (float64, bool) {
	oc := o.Sub(c)
	b := oc.Dot(d)
	cc := oc.Dot(oc) - r*r
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
