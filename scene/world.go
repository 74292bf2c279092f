// Package scene builds and owns the spatial world: a tree of parented nodes
// with continuous animation parameters, plus the registry of everything the
// build allocated.
package scene

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/starfolio/asset"
	"github.com/lixenwraith/starfolio/roster"
)

// Planet is one mentor stop
type Planet struct {
	Node       *Node
	Core       *Node
	Clouds     *Node
	Atmosphere *Node
	Ring       *Node // nil when the mentor has no ring
	InfoLine   *Node

	Index  int
	Mentor roster.Mentor
	Side   roster.Side

	// CameraOffset is where the camera sits relative to the planet at its checkpoint
	CameraOffset mgl64.Vec3
	// LookOffset shifts the look target so the planet sits on its side of the screen
	LookOffset mgl64.Vec3
}

// Sun is the central object
type Sun struct {
	Node   *Node
	Core   *Node
	Corona *Node
	Label  *Node
	Radius float64
}

// Orbit places a token around the sun
type Orbit struct {
	Radius float64
	Speed  float64
	Phase  float64
	Tilt   float64
}

// Token is one member orbiting the sun
type Token struct {
	Node   *Node
	Glow   *Node
	Ring   *Node
	Member roster.Member
	Color  color.RGBA
	Batch  int
	Orbit  Orbit

	Portrait *asset.Future
	Fallback *image.RGBA

	converted bool
}

// Surface returns the portrait once resolved, otherwise the fallback disc
// Polled from the frame loop; the first resolved poll converts and caches
func (t *Token) Surface() *image.RGBA {
	if t.converted || t.Portrait == nil || !t.Portrait.Ready() {
		return t.Node.Surface
	}
	t.converted = true
	if t.Portrait.Err() == nil {
		if img := t.Portrait.Image(); img != nil {
			t.Node.Surface = clone.AsRGBA(img)
		}
	}
	return t.Node.Surface
}

// Batch is one group of tokens revealed together
type Batch struct {
	Node   *Node
	Index  int
	Tokens []*Token
}

// Galaxy is one background passage
type Galaxy struct {
	Node  *Node
	Kind  GalaxyKind
	Index int
	Bio   roster.Galaxy

	CameraOffset mgl64.Vec3
}

// Root owns the whole world
type Root struct {
	Scene *Node

	Stars        *Node
	Nebula       *Node
	Dust         *Node
	Data         *Node
	Planets      []*Planet
	MentorGalaxy *Node
	Sun          *Sun
	Batches      []*Batch
	Galaxies     []*Galaxy

	Resources *Registry

	// Failures names the groups whose build failed; the rest of the world is intact
	Failures []string
}

// Tokens returns every token across batches
func (r *Root) Tokens() []*Token {
	var out []*Token
	for _, b := range r.Batches {
		out = append(out, b.Tokens...)
	}
	return out
}

// Token finds a token by member id
func (r *Root) Token(id int) *Token {
	for _, b := range r.Batches {
		for _, t := range b.Tokens {
			if t.Member.ID == id {
				return t
			}
		}
	}
	return nil
}

// SetBatchVisible shows or hides batch k
func (r *Root) SetBatchVisible(k int, on bool) {
	if k >= 0 && k < len(r.Batches) {
		r.Batches[k].Node.Visible = on
	}
}

// SetGalaxyVisible shows or hides galaxy k
func (r *Root) SetGalaxyVisible(k int, on bool) {
	if k >= 0 && k < len(r.Galaxies) {
		r.Galaxies[k].Node.Visible = on
	}
}

// Dispose releases every allocation and detaches the tree
func (r *Root) Dispose() error {
	err := r.Resources.DisposeAll()
	if r.Scene != nil {
		r.Scene.Walk(func(n *Node) {
			n.Surface = nil
			n.Points = nil
		})
		r.Scene.Children = nil
	}
	return err
}
