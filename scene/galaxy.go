package scene

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/starfolio/texture"
)

// GalaxyKind selects the particle distribution of a galaxy
type GalaxyKind int

const (
	GalaxySpiral GalaxyKind = iota
	GalaxyElliptical
	GalaxyGrandSpiral
)

func (k GalaxyKind) String() string {
	switch k {
	case GalaxySpiral:
		return "spiral"
	case GalaxyElliptical:
		return "elliptical"
	case GalaxyGrandSpiral:
		return "grand-spiral"
	}
	return "unknown"
}

// GalaxySequence is the order background galaxies appear in
var GalaxySequence = []GalaxyKind{GalaxySpiral, GalaxyElliptical, GalaxyGrandSpiral, GalaxySpiral}

// galaxyParams shape one distribution
type galaxyParams struct {
	count  int
	radius float64
	arms   int
	twist  float64
	inner  color.RGBA
	outer  color.RGBA
}

// GalaxyPoints generates particles for kind within radius, in the galaxy's local XZ plane
func GalaxyPoints(kind GalaxyKind, rng *rand.Rand, count int, radius float64, inner, outer color.RGBA) []Point {
	p := galaxyParams{count: count, radius: radius, inner: inner, outer: outer}
	switch kind {
	case GalaxyElliptical:
		return elliptical(rng, p)
	case GalaxyGrandSpiral:
		p.arms, p.twist = 2, 0.32
		return grandSpiral(rng, p)
	default:
		p.arms, p.twist = 3+rng.Intn(2), 2.6
		return spiral(rng, p)
	}
}

// spiral places points along arms whose angle grows linearly with radius
func spiral(rng *rand.Rand, p galaxyParams) []Point {
	pts := make([]Point, 0, p.count)
	for i := 0; i < p.count; i++ {
		r := math.Pow(rng.Float64(), 0.6) * p.radius
		arm := float64(rng.Intn(p.arms)) * 2 * math.Pi / float64(p.arms)
		theta := arm + r/p.radius*p.twist*math.Pi + rng.NormFloat64()*0.28*(1-r/p.radius*0.5)
		y := rng.NormFloat64() * p.radius * 0.03 * (1 - r/p.radius)
		pts = append(pts, Point{
			Pos:   mgl64.Vec3{r * math.Cos(theta), y, r * math.Sin(theta)},
			Color: texture.Mix(p.inner, p.outer, r/p.radius),
		})
	}
	return pts
}

// elliptical fills a flattened ellipsoid with density falling off from the core
func elliptical(rng *rand.Rand, p galaxyParams) []Point {
	pts := make([]Point, 0, p.count)
	for i := 0; i < p.count; i++ {
		v := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if v.Len() == 0 {
			continue
		}
		r := math.Abs(rng.NormFloat64()) * 0.4
		if r > 1 {
			r = 1
		}
		v = v.Normalize().Mul(r * p.radius)
		v = mgl64.Vec3{v[0] * 1.5, v[1] * 0.55, v[2]}
		pts = append(pts, Point{
			Pos:   v,
			Color: texture.Mix(p.inner, p.outer, r),
		})
	}
	return pts
}

// grandSpiral traces two logarithmic arms around a dense bulge
func grandSpiral(rng *rand.Rand, p galaxyParams) []Point {
	pts := make([]Point, 0, p.count)
	bulge := p.count / 5
	for i := 0; i < bulge; i++ {
		v := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64() * 0.5, rng.NormFloat64()}.Mul(p.radius * 0.08)
		pts = append(pts, Point{Pos: v, Color: p.inner})
	}
	a := p.radius * 0.06
	maxTheta := math.Log(p.radius/a) / p.twist
	for i := bulge; i < p.count; i++ {
		theta := rng.Float64() * maxTheta
		r := a * math.Exp(p.twist*theta)
		arm := float64(rng.Intn(p.arms)) * math.Pi
		spread := rng.NormFloat64() * 0.12 * r
		ang := theta + arm
		x := r*math.Cos(ang) + spread*math.Cos(ang+math.Pi/2)
		z := r*math.Sin(ang) + spread*math.Sin(ang+math.Pi/2)
		y := rng.NormFloat64() * p.radius * 0.015
		pts = append(pts, Point{
			Pos:   mgl64.Vec3{x, y, z},
			Color: texture.Mix(p.inner, p.outer, math.Min(r/p.radius, 1)),
		})
	}
	return pts
}
