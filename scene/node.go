package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind selects how a node is drawn
type Kind int

const (
	KindGroup  Kind = iota
	KindPoints      // particle cloud
	KindSphere      // textured, shaded ball
	KindShell       // translucent sphere layered over a core
	KindRing        // flat annulus around the parent
	KindSprite      // camera-facing image
	KindLine        // info line from parent to a label offset
)

var kindNames = [...]string{"group", "points", "sphere", "shell", "ring", "sprite", "line"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Transform is position, Euler rotation (radians, XYZ order) and scale
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// Identity returns a unit transform
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// At returns a unit transform translated to p
func At(p mgl64.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Matrix composes translate * rotate * scale
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation[2]))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation[1]))
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation[0]))
	return m.Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Anim holds the continuous animation parameters of a node
// Every value is a rate; Animate derives the pose from absolute elapsed time
type Anim struct {
	Spin       mgl64.Vec3 // radians per second per axis
	PulseRate  float64    // radians per second
	PulsePhase float64
	PulseDepth float64 // relative scale amplitude
	Billboard  bool
	RingSpin   float64    // radians per second about the ring normal
	Drift      mgl64.Vec3 // units per second, points only
	Wrap       float64    // half extent of the box around the camera, zero disables wrapping
}

// Point is one particle of a KindPoints node
type Point struct {
	Pos   mgl64.Vec3
	Color color.RGBA
	Size  float64 // world radius; zero draws a single glyph
	Glyph rune    // zero uses the renderer's default star glyph
}

// Node is a positioned, parented scene object
// Base is fixed at build time; Pose is written by Animate once per frame
type Node struct {
	Name    string
	Kind    Kind
	Base    Transform
	Pose    Transform
	Visible bool
	Anim    Anim

	Color    color.RGBA
	Radius   float64
	Opacity  float64
	Emissive bool // lit from within, ignores shading
	Surface  *image.RGBA
	Points   []Point
	Label    string

	// Drift state for wrapped point clouds, written by Animate
	Offset mgl64.Vec3
	Center mgl64.Vec3

	Parent   *Node
	Children []*Node
}

// NewNode creates a visible node at its base transform
func NewNode(name string, kind Kind, base Transform) *Node {
	return &Node{
		Name:    name,
		Kind:    kind,
		Base:    base,
		Pose:    base,
		Visible: true,
		Opacity: 1,
	}
}

// Add parents child under n and returns child
func (n *Node) Add(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// World returns the node's world matrix from its pose chain
func (n *Node) World() mgl64.Mat4 {
	m := n.Pose.Matrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Pose.Matrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space
func (n *Node) WorldPosition() mgl64.Vec3 {
	return mgl64.TransformCoordinate(mgl64.Vec3{}, n.World())
}

// WorldScale approximates the uniform world scale of the node
func (n *Node) WorldScale() float64 {
	s := 1.0
	for p := n; p != nil; p = p.Parent {
		s *= p.Pose.Scale[0]
	}
	return s
}

// Shown reports whether n and every ancestor are visible
func (n *Node) Shown() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// PointPos returns point i in node-local space
// Wrapped clouds are folded into a box of half extent Anim.Wrap around Center
// after drifting by Offset, so they stream past a moving camera
func (n *Node) PointPos(i int) mgl64.Vec3 {
	p := n.Points[i].Pos
	if n.Anim.Wrap <= 0 {
		return p
	}
	p = p.Add(n.Offset).Sub(n.Center)
	w := n.Anim.Wrap
	for k := 0; k < 3; k++ {
		p[k] = wrap(p[k], w)
	}
	return p.Add(n.Center)
}

// wrap folds v into [-w, w)
func wrap(v, w float64) float64 {
	span := 2 * w
	v = math.Mod(v+w, span)
	if v < 0 {
		v += span
	}
	return v - w
}
