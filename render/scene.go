package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/starfolio/scene"
	"github.com/lixenwraith/starfolio/texture"
)

// Shading constants, screen space with y down and z toward the viewer
var (
	lightDir = mgl64.Vec3{-0.35, -0.55, 0.75}.Normalize()
	halfVec  = lightDir.Add(mgl64.Vec3{0, 0, 1}).Normalize()
)

const (
	ambient      = 0.18
	specPower    = 20.0
	glowLimitSq  = 2.5
	maxBlobRows  = 8.0
	minDrawRows  = 0.35
	lineStartsAt = 0.45 // fraction of the way from parent to label where the info line begins
)

// projector caches per-frame camera math
type projector struct {
	cam   scene.Camera
	vp    mgl64.Mat4
	w, h  float64
	right mgl64.Vec3
	up    mgl64.Vec3
	back  mgl64.Vec3
}

func newProjector(cam scene.Camera) projector {
	view := cam.View()
	return projector{
		cam:   cam,
		vp:    cam.Projection().Mul4(view),
		w:     float64(cam.Width),
		h:     float64(cam.Height),
		right: mgl64.Vec3{view.At(0, 0), view.At(0, 1), view.At(0, 2)},
		up:    mgl64.Vec3{view.At(1, 0), view.At(1, 1), view.At(1, 2)},
		back:  mgl64.Vec3{view.At(2, 0), view.At(2, 1), view.At(2, 2)},
	}
}

// clip maps a clip-space position to cells; depth is view distance
func (p projector) clip(c mgl64.Vec4) (x, y, depth float64, ok bool) {
	if c[3] <= p.cam.Near {
		return 0, 0, c[3], false
	}
	x = (c[0]/c[3] + 1) / 2 * p.w
	y = (1 - c[1]/c[3]) / 2 * p.h
	return x, y, c[3], true
}

func (p projector) project(v mgl64.Vec3) (x, y, depth float64, ok bool) {
	return p.clip(p.vp.Mul4x1(v.Vec4(1)))
}

// SceneRenderer rasterizes the world graph into cells.
// Solid surfaces go first and claim depth, then particles and lines,
// then translucent layers far to near.
type SceneRenderer struct {
	particles   []*scene.Node
	translucent []layer
}

type layer struct {
	node  *scene.Node
	depth float64
}

// NewSceneRenderer creates the world layer
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{}
}

// Render implements Renderer
func (s *SceneRenderer) Render(ctx Context, buf *RenderBuffer) {
	if ctx.Root == nil || ctx.Root.Scene == nil || buf.Width() == 0 || buf.Height() == 0 {
		return
	}
	cam := ctx.Camera
	cam.Width, cam.Height = buf.Width(), buf.Height()
	pr := newProjector(cam)

	s.particles = s.particles[:0]
	s.translucent = s.translucent[:0]
	s.visit(buf, pr, ctx.Root.Scene)

	for _, n := range s.particles {
		switch n.Kind {
		case scene.KindPoints:
			s.points(buf, pr, n)
		case scene.KindRing:
			s.ring(buf, pr, n)
		case scene.KindLine:
			s.line(buf, pr, n)
		}
	}

	slices.SortStableFunc(s.translucent, func(a, b layer) int {
		return cmp.Compare(b.depth, a.depth)
	})
	for _, l := range s.translucent {
		switch l.node.Kind {
		case scene.KindShell:
			s.sphere(buf, pr, l.node, true)
		case scene.KindSprite:
			s.sprite(buf, pr, l.node, false)
		}
	}
}

// visit draws solids immediately and queues the rest; hidden subtrees are skipped
func (s *SceneRenderer) visit(buf *RenderBuffer, pr projector, n *scene.Node) {
	if !n.Visible {
		return
	}
	switch n.Kind {
	case scene.KindSphere:
		s.sphere(buf, pr, n, false)
	case scene.KindSprite:
		if n.Opacity >= 1 {
			s.sprite(buf, pr, n, true)
		} else {
			s.queue(pr, n)
		}
	case scene.KindShell:
		s.queue(pr, n)
	case scene.KindPoints, scene.KindRing, scene.KindLine:
		s.particles = append(s.particles, n)
	}
	for _, c := range n.Children {
		s.visit(buf, pr, c)
	}
}

func (s *SceneRenderer) queue(pr projector, n *scene.Node) {
	if _, _, d, ok := pr.project(n.WorldPosition()); ok {
		s.translucent = append(s.translucent, layer{node: n, depth: d})
	}
}

// points draws particle clouds; sized points become soft background blobs
func (s *SceneRenderer) points(buf *RenderBuffer, pr projector, n *scene.Node) {
	if n.Opacity <= 0 {
		return
	}
	mvp := pr.vp.Mul4(n.World())
	for i := range n.Points {
		pt := &n.Points[i]
		x, y, depth, ok := pr.clip(mvp.Mul4x1(n.PointPos(i).Vec4(1)))
		if !ok || x < -maxBlobRows*2 || y < -maxBlobRows || x >= pr.w+maxBlobRows*2 || y >= pr.h+maxBlobRows {
			continue
		}
		c := FromRGBA(pt.Color)
		alpha := n.Opacity * float64(pt.Color.A) / 255

		if pt.Size > 0 {
			blob(buf, x, y, depth, pt.Size*pr.cam.ScaleAt(depth), c, alpha)
			continue
		}
		g := pt.Glyph
		if g == 0 {
			g = glyphFor(pointGlyphs, float64(Luma(c))/255)
		}
		buf.SetDepth(int(x), int(y), depth, true, g, Scale(c, alpha), RGB{}, BlendFgOnly, 1)
	}
}

// blob screens a soft disc into the background
func blob(buf *RenderBuffer, x, y, depth, rows float64, c RGB, alpha float64) {
	if rows < 0.6 {
		buf.SetDepth(int(x), int(y), depth, false, 0, RGB{}, c, BlendScreenBg, alpha*0.5)
		return
	}
	rows = math.Min(rows, maxBlobRows)
	cols := rows * scene.CellAspect
	for sy := int(y - rows); sy <= int(y+rows); sy++ {
		for sx := int(x - cols); sx <= int(x+cols); sx++ {
			nx := (float64(sx) + 0.5 - x) / cols
			ny := (float64(sy) + 0.5 - y) / rows
			d2 := nx*nx + ny*ny
			if d2 > 1 {
				continue
			}
			buf.SetDepth(sx, sy, depth, false, 0, RGB{}, c, BlendScreenBg, alpha*0.35*math.Exp(-d2*2.5))
		}
	}
}

// sphere shades a textured ball; translucent shells blend over what is behind
func (s *SceneRenderer) sphere(buf *RenderBuffer, pr projector, n *scene.Node, translucent bool) {
	cx, cy, depth, ok := pr.project(n.WorldPosition())
	if !ok {
		return
	}
	r := n.Radius * n.WorldScale()
	rows := r * pr.cam.ScaleAt(depth)
	base := FromRGBA(n.Color)
	if rows < minDrawRows {
		if !translucent {
			buf.SetDepth(int(cx), int(cy), depth, true, '•', base, RGB{}, BlendFgOnly, 1)
		}
		return
	}
	cols := rows * scene.CellAspect

	extent := 1.0
	if !translucent {
		extent = math.Sqrt(glowLimitSq)
	}
	minX, maxX := max(0, int(cx-cols*extent)-1), min(buf.Width()-1, int(cx+cols*extent)+1)
	minY, maxY := max(0, int(cy-rows*extent)-1), min(buf.Height()-1, int(cy+rows*extent)+1)
	inv := n.World().Mat3().Transpose()

	for sy := minY; sy <= maxY; sy++ {
		for sx := minX; sx <= maxX; sx++ {
			nx := (float64(sx) + 0.5 - cx) / cols
			ny := (float64(sy) + 0.5 - cy) / rows
			d2 := nx*nx + ny*ny

			if d2 > 1 {
				if !translucent && d2 <= glowLimitSq {
					g := math.Exp(-(d2-1)*3) * 0.35 * n.Opacity
					if n.Emissive {
						g *= 2
					}
					buf.SetDepth(sx, sy, depth, false, 0, RGB{}, base, BlendScreenBg, g)
				}
				continue
			}

			nz := math.Sqrt(1 - d2)
			wn := pr.right.Mul(nx).Sub(pr.up.Mul(ny)).Add(pr.back.Mul(nz))
			tex, texA := sampleSphere(n, inv.Mul3x1(wn))
			z := depth - nz*r

			if translucent {
				a := texA * n.Opacity * (0.5 + 0.5*(1-nz))
				buf.SetDepth(sx, sy, z, false, 0, RGB{}, tex, BlendAlphaBg, a)
				continue
			}

			var lit RGB
			if n.Emissive {
				lit = Scale(tex, 1.1+0.4*nz)
			} else {
				diff := math.Max(0, nx*lightDir[0]+ny*lightDir[1]+nz*lightDir[2])
				spec := math.Pow(math.Max(0, nx*halfVec[0]+ny*halfVec[1]+nz*halfVec[2]), specPower) * 0.5
				rim := (1 - nz) * (1 - nz) * 0.3
				lit = Scale(tex, ambient+(1-ambient)*diff)
				lit = Add(lit, Scale(base, rim), 1)
				lit = Add(lit, Scale(RGBWhite, spec), 1)
			}
			buf.SetDepth(sx, sy, z, true, ' ', lit, lit, BlendReplace, 1)
		}
	}
}

// sampleSphere looks up the surface texel for a local-space normal
func sampleSphere(n *scene.Node, local mgl64.Vec3) (RGB, float64) {
	if n.Surface == nil {
		return FromRGBA(n.Color), 1
	}
	local = local.Normalize()
	u := 0.5 + math.Atan2(local[0], local[2])/(2*math.Pi)
	v := 0.5 - math.Asin(math.Max(-1, math.Min(1, local[1])))/math.Pi
	t := texture.Sample(n.Surface, u, v)
	return RGB{t.R, t.G, t.B}, float64(t.A) / 255
}

// sprite draws a camera-facing image; labeled sprites draw their text instead
func (s *SceneRenderer) sprite(buf *RenderBuffer, pr projector, n *scene.Node, solid bool) {
	cx, cy, depth, ok := pr.project(n.WorldPosition())
	if !ok || n.Opacity <= 0 {
		return
	}
	c := FromRGBA(n.Color)
	if n.Label != "" {
		if buf.Visible(int(cx), int(cy), depth) {
			label := Truncate(n.Label, buf.Width())
			buf.Text(int(cx)-TextWidth(label)/2, int(cy), label, c, bold, 0)
		}
		return
	}

	hr := n.Radius * n.WorldScale() * pr.cam.ScaleAt(depth)
	if hr < 0.5 {
		if solid {
			buf.SetDepth(int(cx), int(cy), depth, true, '●', c, RGB{}, BlendFgOnly, 1)
		}
		return
	}
	hc := hr * scene.CellAspect
	minX, maxX := max(0, int(cx-hc)), min(buf.Width()-1, int(cx+hc))
	minY, maxY := max(0, int(cy-hr)), min(buf.Height()-1, int(cy+hr))

	for sy := minY; sy <= maxY; sy++ {
		for sx := minX; sx <= maxX; sx++ {
			u := (float64(sx) + 0.5 - (cx - hc)) / (2 * hc)
			v := (float64(sy) + 0.5 - (cy - hr)) / (2 * hr)
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}
			tc, ta := c, 1.0
			if n.Surface != nil {
				t := texture.Sample(n.Surface, u, v)
				tc, ta = RGB{t.R, t.G, t.B}, float64(t.A)/255
			}
			a := ta * n.Opacity
			if a < 0.03 {
				continue
			}
			if solid && ta > 0.5 {
				buf.SetDepth(sx, sy, depth, true, ' ', tc, tc, BlendReplace, 1)
			} else if solid {
				buf.SetDepth(sx, sy, depth, false, 0, RGB{}, tc, BlendAlphaBg, a)
			} else {
				buf.SetDepth(sx, sy, depth, false, 0, RGB{}, tc, BlendScreenBg, a)
			}
		}
	}
}

// ring draws an annulus in the node's XY plane, a band when wide enough or a dotted circle
func (s *SceneRenderer) ring(buf *RenderBuffer, pr projector, n *scene.Node) {
	if n.Opacity <= 0 {
		return
	}
	_, _, depth, ok := pr.project(n.WorldPosition())
	if !ok {
		return
	}
	mvp := pr.vp.Mul4(n.World())
	c := FromRGBA(n.Color)
	scale := pr.cam.ScaleAt(depth) * n.WorldScale()
	outer := n.Radius * scale

	band := outer*0.22 >= 0.75
	bands := 1
	if band {
		bands = max(2, int(outer*0.22*2))
	}
	steps := max(24, int(2*math.Pi*outer*scene.CellAspect*1.5))
	g := '·'
	if n.Opacity >= 1 {
		g = '•'
	}

	for k := 0; k < bands; k++ {
		rad := n.Radius
		if band {
			rad *= 0.78 + 0.22*float64(k)/float64(bands-1)
		}
		for i := 0; i < steps; i++ {
			th := 2 * math.Pi * float64(i) / float64(steps)
			x, y, d, ok := pr.clip(mvp.Mul4x1(mgl64.Vec4{rad * math.Cos(th), rad * math.Sin(th), 0, 1}))
			if !ok {
				continue
			}
			if band {
				buf.SetDepth(int(x), int(y), d, false, 0, RGB{}, c, BlendAlphaBg, n.Opacity*0.6)
			} else {
				buf.SetDepth(int(x), int(y), d, false, g, Scale(c, n.Opacity), RGB{}, BlendFgOnly, 1)
			}
		}
	}
}

// line draws an info line out of the parent and the label at its end
func (s *SceneRenderer) line(buf *RenderBuffer, pr projector, n *scene.Node) {
	if n.Parent == nil {
		return
	}
	from, to := n.Parent.WorldPosition(), n.WorldPosition()
	from = from.Add(to.Sub(from).Mul(lineStartsAt))
	x0, y0, d0, ok0 := pr.project(from)
	x1, y1, d1, ok1 := pr.project(to)
	if !ok0 || !ok1 {
		return
	}
	c := FromRGBA(n.Color)
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	g := lineGlyph(dx, dy)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		buf.SetDepth(int(x0+dx*t), int(y0+dy*t), d0+(d1-d0)*t, false, g, c, RGB{}, BlendFgOnly, 1)
	}

	if n.Label == "" || !buf.Visible(int(x1), int(y1), d1) {
		return
	}
	label := Truncate(n.Label, buf.Width()/3)
	lx := int(x1) + 1
	if dx < 0 {
		lx = int(x1) - TextWidth(label) - 1
	}
	buf.Text(lx, int(y1), label, c, bold, 0)
}

// lineGlyph picks a box-drawing stroke for the slope, y down
func lineGlyph(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)*scene.CellAspect
	switch {
	case ay < ax*0.4:
		return '─'
	case ax < ay*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}
