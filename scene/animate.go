package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Input is everything the continuous animation reads for one frame
type Input struct {
	Elapsed float64 // seconds since the view started
	Camera  Camera

	// Sun orientation, already composed from the timeline and the drag spring
	SunYaw   float64
	SunPitch float64

	// Reveal is the orbit extension per batch, 0 retracted into the sun, 1 full
	Reveal []float64

	// Hover is the member id under the pointer, zero for none
	Hover int
}

// Animate writes every Pose in the tree from absolute elapsed time
// It is the only writer of Pose, so a dropped frame or resize never
// accumulates error
func Animate(r *Root, in Input) {
	t := in.Elapsed
	if r.Scene == nil {
		return
	}

	spin := func(n *Node) {
		if n == nil {
			return
		}
		n.Pose.Position = n.Base.Position
		n.Pose.Scale = n.Base.Scale
		n.Pose.Rotation = n.Base.Rotation.Add(n.Anim.Spin.Mul(t))
	}

	if r.Nebula != nil {
		spin(r.Nebula)
	}
	spin(r.MentorGalaxy)
	for _, g := range r.Galaxies {
		spin(g.Node)
	}

	for _, n := range []*Node{r.Dust, r.Data} {
		if n == nil {
			continue
		}
		n.Offset = n.Anim.Drift.Mul(t)
		n.Center = in.Camera.Eye
	}

	for _, p := range r.Planets {
		spin(p.Core)
		spin(p.Clouds)
		if p.Ring != nil {
			p.Ring.Pose = p.Ring.Base
		}
	}

	if s := r.Sun; s != nil && s.Node != nil {
		a := s.Node.Anim
		pulse := 1 + a.PulseDepth*math.Sin(a.PulseRate*t+a.PulsePhase)
		s.Node.Pose = s.Node.Base
		s.Node.Pose.Rotation = mgl64.Vec3{in.SunPitch, in.SunYaw, 0}
		if s.Core != nil {
			spin(s.Core)
			s.Core.Pose.Scale = s.Core.Base.Scale.Mul(pulse)
		}
		if s.Corona != nil {
			s.Corona.Pose = s.Corona.Base
			billboard(s.Corona, in.Camera.Eye)
			s.Corona.Pose.Scale = s.Corona.Base.Scale.Mul(pulse * pulse)
		}
		if s.Label != nil {
			s.Label.Pose = s.Label.Base
			billboard(s.Label, in.Camera.Eye)
		}
	}

	for k, b := range r.Batches {
		reveal := 0.0
		if k < len(in.Reveal) {
			reveal = clamp01(in.Reveal[k])
		}
		for _, tok := range b.Tokens {
			placeToken(tok, t, reveal, in)
		}
	}
}

// placeToken orbits a token in its batch's plane and turns it to the camera
func placeToken(tok *Token, t, reveal float64, in Input) {
	o := tok.Orbit
	ang := o.Phase + o.Speed*t
	rad := o.Radius * reveal
	local := mgl64.Vec3{rad * math.Cos(ang), rad * math.Sin(ang) * math.Sin(o.Tilt), rad * math.Sin(ang) * math.Cos(o.Tilt)}

	// The batch group is parented to the sun; undo its rotation so orbits stay level while dragging
	unrot := mgl64.HomogRotate3DX(-in.SunPitch).Mul4(mgl64.HomogRotate3DY(-in.SunYaw))
	tok.Node.Pose = tok.Node.Base
	tok.Node.Pose.Position = mgl64.TransformCoordinate(local, unrot)
	scale := 0.35 + 0.65*reveal
	tok.Node.Pose.Scale = mgl64.Vec3{scale, scale, scale}
	billboard(tok.Node, in.Camera.Eye)

	if tok.Glow != nil {
		tok.Glow.Pose = tok.Glow.Base
	}
	if tok.Ring != nil {
		tok.Ring.Pose = tok.Ring.Base
		tok.Ring.Pose.Rotation = mgl64.Vec3{0, 0, tok.Ring.Anim.RingSpin * t}
		tok.Ring.Opacity = 0.6
		if in.Hover == tok.Member.ID {
			tok.Ring.Opacity = 1
			tok.Ring.Pose.Scale = mgl64.Vec3{1.25, 1.25, 1.25}
		}
	}
}

// billboard turns n about its world position so its face points at eye
func billboard(n *Node, eye mgl64.Vec3) {
	if !n.Anim.Billboard {
		return
	}
	at := n.Pose.Position
	if n.Parent != nil {
		at = mgl64.TransformCoordinate(at, n.Parent.World())
	}
	d := eye.Sub(at)
	yaw := math.Atan2(d[0], d[2])
	pitch := -math.Atan2(d[1], math.Hypot(d[0], d[2]))
	n.Pose.Rotation = mgl64.Vec3{pitch, yaw, 0}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
