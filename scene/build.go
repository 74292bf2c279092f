package scene

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/asset"
	"github.com/lixenwraith/starfolio/parameter"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/texture"
)

// PortraitSource loads member portraits in the background; each future shows
// its fallback until resolved
type PortraitSource interface {
	Preload(ctx context.Context, ids []int, fallback func(id int) image.Image) map[int]*asset.Future
}

// BuildConfig parameterizes Build
type BuildConfig struct {
	Roster      *roster.Roster
	Seed        int64 // zero draws fresh randomness per build
	TextureSize int
	Portraits   PortraitSource // nil keeps every token on its fallback
	Context     context.Context
	Log         *zap.SugaredLogger
}

type builder struct {
	cfg  BuildConfig
	log  *zap.SugaredLogger
	root *Root
}

type step struct {
	name string
	fn   func() error
}

// Build constructs the world in a fixed order. A failing group is logged
// and recorded in Root.Failures; every other group is still built.
func Build(cfg BuildConfig) *Root {
	b := newBuilder(cfg)
	for _, s := range b.steps() {
		b.run(s)
	}
	b.log.Debugw("scene built",
		"resources", b.root.Resources.Live(),
		"tokens", len(b.root.Tokens()),
		"failures", b.root.Failures)
	return b.root
}

func newBuilder(cfg BuildConfig) *builder {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Roster == nil {
		cfg.Roster = roster.Default()
	}
	cfg.TextureSize = texture.ClampSize(cfg.TextureSize)

	scene := NewNode("scene", KindGroup, Identity())
	return &builder{
		cfg: cfg,
		log: cfg.Log,
		root: &Root{
			Scene:     scene,
			Resources: NewRegistry(),
		},
	}
}

func (b *builder) steps() []step {
	return []step{
		{"stars", b.buildStars},
		{"nebula", b.buildNebula},
		{"dust", b.buildDust},
		{"data", b.buildData},
		{"planets", b.buildPlanets},
		{"mentor-galaxy", b.buildMentorGalaxy},
		{"sun", b.buildSun},
		{"tokens", b.buildTokens},
		{"galaxies", b.buildGalaxies},
	}
}

// run executes one group build, containing panics and errors
func (b *builder) run(s step) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorw("scene group panicked", "group", s.name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			b.root.Failures = append(b.root.Failures, s.name)
		}
	}()
	if err := s.fn(); err != nil {
		b.log.Errorw("scene group failed", "group", s.name, "error", err)
		b.root.Failures = append(b.root.Failures, s.name)
	}
}

// rng returns a generator for one group; salt keeps seeded groups independent
func (b *builder) rng(salt int64) *rand.Rand {
	if b.cfg.Seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano() + salt))
	}
	return rand.New(rand.NewSource(b.cfg.Seed*7919 + salt))
}

// texSeed derives a texture seed, zero when unseeded
func (b *builder) texSeed(salt int64) int64 {
	if b.cfg.Seed == 0 {
		return 0
	}
	return b.cfg.Seed*104729 + salt
}

// surface attaches img to n and registers it for teardown
func (b *builder) surface(n *Node, img *image.RGBA) {
	n.Surface = img
	b.root.Resources.Alloc(ResourceTexture, n.Name, func() error {
		n.Surface = nil
		return nil
	})
}

// geometry attaches points to n and registers them for teardown
func (b *builder) geometry(n *Node, pts []Point) {
	n.Points = pts
	b.root.Resources.Alloc(ResourceGeometry, n.Name, func() error {
		n.Points = nil
		return nil
	})
}

// material registers the shading parameters of n
func (b *builder) material(n *Node, c color.RGBA) {
	n.Color = c
	b.root.Resources.Alloc(ResourceMaterial, n.Name, func() error {
		n.Color = color.RGBA{}
		n.Opacity = 0
		return nil
	})
}

func (b *builder) buildStars() error {
	rng := b.rng(1)
	n := NewNode("stars", KindPoints, Identity())
	pts := make([]Point, parameter.StarCount)
	for i := range pts {
		dir := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if dir.Len() == 0 {
			dir = mgl64.Vec3{0, 0, -1}
		}
		r := parameter.StarShellRadius * (0.55 + 0.45*rng.Float64())
		temp := rng.Float64()
		c := colorful.Hcl(40+temp*200, 0.08+0.1*rng.Float64(), 0.75+0.25*rng.Float64()).Clamped()
		glyph := '.'
		if temp > 0.93 {
			glyph = '*'
		} else if temp > 0.7 {
			glyph = '·'
		}
		pts[i] = Point{Pos: dir.Normalize().Mul(r), Color: rgba(c), Glyph: glyph}
	}
	b.geometry(n, pts)
	b.root.Stars = b.root.Scene.Add(n)
	return nil
}

func (b *builder) buildNebula() error {
	rng := b.rng(2)
	group := NewNode("nebula", KindGroup, Identity())
	group.Anim.Spin = mgl64.Vec3{0, parameter.NebulaSpin, 0}
	hues := []float64{285, 220, 330}
	for l := 0; l < parameter.NebulaLayers; l++ {
		layer := NewNode(fmt.Sprintf("nebula-%d", l), KindPoints, Identity())
		layer.Opacity = 0.25 + 0.1*float64(l)
		pts := make([]Point, 0, parameter.NebulaPerLayer)
		center := mgl64.Vec3{(rng.Float64() - 0.5) * 300, (rng.Float64() - 0.3) * 120, -200 - rng.Float64()*600}
		for i := 0; i < parameter.NebulaPerLayer; i++ {
			off := mgl64.Vec3{rng.NormFloat64() * 90, rng.NormFloat64() * 35, rng.NormFloat64() * 120}
			c := colorful.Hcl(hues[l%len(hues)]+rng.NormFloat64()*12, 0.45, 0.35+0.2*rng.Float64()).Clamped()
			pts = append(pts, Point{Pos: center.Add(off), Color: rgba(c), Size: 3 + rng.Float64()*6})
		}
		b.geometry(layer, pts)
		group.Add(layer)
	}
	b.root.Nebula = b.root.Scene.Add(group)
	return nil
}

func (b *builder) buildDust() error {
	rng := b.rng(3)
	n := NewNode("dust", KindPoints, Identity())
	n.Anim.Wrap = parameter.DustWrap
	n.Anim.Drift = mgl64.Vec3{0.3, -0.1, parameter.DustDrift}
	pts := make([]Point, parameter.DustCount)
	for i := range pts {
		v := rng.Float64()*0.4 + 0.4
		pts[i] = Point{
			Pos:   randomBox(rng, parameter.DustWrap),
			Color: color.RGBA{uint8(200 * v), uint8(190 * v), uint8(170 * v), 255},
			Glyph: '˙',
		}
	}
	b.geometry(n, pts)
	b.root.Dust = b.root.Scene.Add(n)
	return nil
}

func (b *builder) buildData() error {
	rng := b.rng(4)
	n := NewNode("data", KindPoints, Identity())
	n.Anim.Wrap = parameter.DataWrap
	n.Anim.Drift = mgl64.Vec3{0, parameter.DataDrift, 0}
	n.Opacity = 0.5
	pts := make([]Point, parameter.DataCount)
	for i := range pts {
		glyph := '0'
		if rng.Intn(2) == 1 {
			glyph = '1'
		}
		g := uint8(90 + rng.Intn(100))
		pts[i] = Point{Pos: randomBox(rng, parameter.DataWrap), Color: color.RGBA{30, g, 90, 255}, Glyph: glyph}
	}
	b.geometry(n, pts)
	b.root.Data = b.root.Scene.Add(n)
	return nil
}

// PlanetPosition is the fixed world position of mentor planet i
func PlanetPosition(i int, side roster.Side) mgl64.Vec3 {
	sx := 1.0
	if side == roster.SideLeft {
		sx = -1
	}
	return mgl64.Vec3{sx * parameter.PlanetLateral, 0, -parameter.PlanetSpacing * float64(i+1)}
}

func (b *builder) buildPlanets() error {
	mentors := b.cfg.Roster.Mentors
	if len(mentors) == 0 {
		return errors.New("roster has no mentors")
	}
	for i, m := range mentors {
		b.root.Planets = append(b.root.Planets, b.buildPlanet(i, m))
	}
	return nil
}

func (b *builder) buildPlanet(i int, m roster.Mentor) *Planet {
	pos := PlanetPosition(i, m.Side)
	base := texture.ParseHex(m.Color, texture.MemberColor(100+i))
	name := fmt.Sprintf("planet-%d", i+1)
	size := b.cfg.TextureSize

	p := &Planet{Index: i, Mentor: m, Side: m.Side}
	p.Node = b.root.Scene.Add(NewNode(name, KindGroup, At(pos)))

	core := NewNode(name+"-core", KindSphere, Identity())
	core.Radius = parameter.PlanetRadius
	core.Anim.Spin = mgl64.Vec3{0, parameter.PlanetSpin, 0}
	kind := texture.KindNoise
	if i%2 == 1 {
		kind = texture.KindGasBands
	}
	b.surface(core, texture.Generate(kind, texture.Options{Base: base, Size: size, Seed: b.texSeed(int64(10 + i))}))
	b.material(core, base)
	p.Core = p.Node.Add(core)

	clouds := NewNode(name+"-clouds", KindShell, Identity())
	clouds.Radius = parameter.PlanetRadius * 1.04
	clouds.Opacity = 0.55
	clouds.Anim.Spin = mgl64.Vec3{0, parameter.CloudSpin, 0}
	b.surface(clouds, texture.Generate(texture.KindClouds, texture.Options{Base: base, Size: size, Seed: b.texSeed(int64(20 + i))}))
	b.material(clouds, color.RGBA{255, 255, 255, 255})
	p.Clouds = p.Node.Add(clouds)

	atmo := NewNode(name+"-atmosphere", KindShell, Identity())
	atmo.Radius = parameter.PlanetRadius * 1.22
	atmo.Opacity = 0.3
	b.surface(atmo, texture.Generate(texture.KindGlow, texture.Options{Base: texture.Mix(base, color.RGBA{160, 200, 255, 255}, 0.5), Size: size / 2}))
	b.material(atmo, base)
	p.Atmosphere = p.Node.Add(atmo)

	if m.Ring {
		ring := NewNode(name+"-ring", KindRing, Identity())
		// Rings lie in the node XY plane; tip it toward horizontal
		ring.Base.Rotation = mgl64.Vec3{1.2, 0, 0.2}
		ring.Pose = ring.Base
		ring.Radius = parameter.PlanetRadius * 1.9
		ring.Opacity = 0.7
		b.material(ring, texture.Mix(base, color.RGBA{230, 220, 200, 255}, 0.6))
		p.Ring = p.Node.Add(ring)
	}

	sx := 1.0
	if m.Side == roster.SideLeft {
		sx = -1
	}
	line := NewNode(name+"-info", KindLine, At(mgl64.Vec3{sx * parameter.PlanetRadius * 2.2, parameter.PlanetRadius * 1.6, 0}))
	line.Label = m.Name
	b.material(line, base)
	p.InfoLine = p.Node.Add(line)

	// Camera sits back on the path's center line so the planet lands on its own side
	p.CameraOffset = mgl64.Vec3{-pos[0], parameter.PlanetRadius * 0.6, parameter.PlanetRadius * 6}
	p.LookOffset = mgl64.Vec3{-pos[0] * 0.45, 0, 0}
	return p
}

func (b *builder) buildMentorGalaxy() error {
	rng := b.rng(5)
	n := NewNode("mentor-galaxy", KindPoints, At(mgl64.Vec3{-40, -70, -360}))
	n.Base.Rotation = mgl64.Vec3{0.5, 0, 0.15}
	n.Pose = n.Base
	n.Anim.Spin = mgl64.Vec3{0, parameter.GalaxySpin * 0.5, 0}
	n.Opacity = 0.6
	b.geometry(n, GalaxyPoints(GalaxySpiral, rng, parameter.MentorGalaxyPoints, 180,
		color.RGBA{255, 236, 200, 255}, color.RGBA{90, 120, 230, 255}))
	b.root.MentorGalaxy = b.root.Scene.Add(n)
	return nil
}

// SunPosition is the world position of the central object
func SunPosition() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, parameter.SunDepth}
}

func (b *builder) buildSun() error {
	size := b.cfg.TextureSize
	s := &Sun{Radius: parameter.SunRadius}
	s.Node = b.root.Scene.Add(NewNode("sun", KindGroup, At(SunPosition())))
	s.Node.Anim.PulseRate = parameter.SunPulseRate
	s.Node.Anim.PulseDepth = parameter.SunPulseDepth

	warm := color.RGBA{255, 176, 64, 255}
	core := NewNode("sun-core", KindSphere, Identity())
	core.Radius = parameter.SunRadius
	core.Emissive = true
	core.Anim.Spin = mgl64.Vec3{0, parameter.SunSpin, 0}
	b.surface(core, texture.Generate(texture.KindNoise, texture.Options{Base: warm, Size: size, Seed: b.texSeed(30)}))
	b.material(core, warm)
	s.Core = s.Node.Add(core)

	corona := NewNode("sun-corona", KindSprite, Identity())
	corona.Radius = parameter.SunRadius * 2.3
	corona.Opacity = 0.55
	corona.Anim.Billboard = true
	b.surface(corona, texture.Generate(texture.KindGlow, texture.Options{Base: color.RGBA{255, 140, 40, 255}, Size: size}))
	b.material(corona, warm)
	s.Corona = s.Node.Add(corona)

	label := NewNode("sun-label", KindSprite, At(mgl64.Vec3{0, parameter.SunRadius + 3, 0}))
	label.Radius = parameter.SunRadius * 1.5
	label.Label = b.cfg.Roster.Title
	label.Anim.Billboard = true
	b.surface(label, texture.Generate(texture.KindTextLabel, texture.Options{Base: color.RGBA{255, 245, 220, 255}, Size: size * 2, Label: b.cfg.Roster.Title}))
	b.material(label, color.RGBA{255, 245, 220, 255})
	s.Label = s.Node.Add(label)

	b.root.Sun = s
	return nil
}

// TokenFallback renders the disc shown until a member portrait resolves
func TokenFallback(id int) *image.RGBA {
	return texture.AvatarFallback(texture.Options{Base: texture.MemberColor(id), Size: 48, Label: strconv.Itoa(id)})
}

func (b *builder) buildTokens() error {
	if b.root.Sun == nil {
		return errors.New("tokens need the sun")
	}
	rng := b.rng(6)
	glow := map[int]*image.RGBA{}

	for k, members := range b.cfg.Roster.Batches() {
		batch := &Batch{Index: k}
		batch.Node = NewNode(fmt.Sprintf("batch-%d", k+1), KindGroup, Identity())
		batch.Node.Visible = false
		b.root.Sun.Node.Add(batch.Node)

		for i, m := range members {
			c := texture.MemberColor(m.ID)
			tok := &Token{
				Member: m,
				Color:  c,
				Batch:  k,
				Orbit: Orbit{
					Radius: parameter.TokenOrbitBase + parameter.TokenOrbitStep*float64(k),
					Speed:  parameter.TokenOrbitSpeed * (1 - 0.15*float64(k)),
					Phase:  2*math.Pi*float64(i)/float64(len(members)) + 0.4*float64(k),
					Tilt:   (rng.Float64() - 0.5) * 0.5,
				},
			}

			name := fmt.Sprintf("token-%d", m.ID)
			tok.Node = NewNode(name, KindSprite, Identity())
			tok.Node.Radius = parameter.TokenRadius
			tok.Node.Anim.Billboard = true
			tok.Fallback = TokenFallback(m.ID)
			b.surface(tok.Node, tok.Fallback)
			b.material(tok.Node, c)

			g, ok := glow[m.ID]
			if !ok {
				g = texture.Generate(texture.KindGlow, texture.Options{Base: c, Size: 32})
				glow[m.ID] = g
			}
			tok.Glow = NewNode(name+"-glow", KindSprite, Identity())
			tok.Glow.Radius = parameter.TokenRadius * 1.8
			tok.Glow.Opacity = 0.45
			tok.Glow.Anim.Billboard = true
			b.surface(tok.Glow, g)
			tok.Node.Add(tok.Glow)

			tok.Ring = NewNode(name+"-ring", KindRing, Identity())
			tok.Ring.Radius = parameter.TokenRadius * 1.35
			tok.Ring.Opacity = 0.6
			tok.Ring.Anim.RingSpin = parameter.TokenRingSpin
			b.material(tok.Ring, texture.Mix(c, color.RGBA{255, 255, 255, 255}, 0.4))
			tok.Node.Add(tok.Ring)

			batch.Node.Add(tok.Node)
			batch.Tokens = append(batch.Tokens, tok)
		}
		b.root.Batches = append(b.root.Batches, batch)
	}
	b.loadPortraits()
	return nil
}

// loadPortraits queues every token portrait in one bounded preload
func (b *builder) loadPortraits() {
	if b.cfg.Portraits == nil {
		return
	}
	tokens := b.root.Tokens()
	ids := make([]int, 0, len(tokens))
	fallbacks := make(map[int]image.Image, len(tokens))
	for _, tok := range tokens {
		ids = append(ids, tok.Member.ID)
		fallbacks[tok.Member.ID] = tok.Fallback
	}
	futures := b.cfg.Portraits.Preload(b.cfg.Context, ids, func(id int) image.Image {
		return fallbacks[id]
	})
	for _, tok := range tokens {
		tok.Portrait = futures[tok.Member.ID]
	}
}

// GalaxyPosition is the world position of background galaxy i
func GalaxyPosition(i int) mgl64.Vec3 {
	sx := 1.0
	if i%2 == 0 {
		sx = -1
	}
	return mgl64.Vec3{sx * parameter.GalaxyLateral, 6, parameter.GalaxyStart - parameter.GalaxySpacing*float64(i)}
}

func (b *builder) buildGalaxies() error {
	rng := b.rng(7)
	palettes := [][2]color.RGBA{
		{{255, 230, 190, 255}, {80, 140, 255, 255}},
		{{255, 210, 170, 255}, {200, 120, 90, 255}},
		{{240, 240, 255, 255}, {170, 90, 230, 255}},
		{{255, 250, 210, 255}, {60, 200, 190, 255}},
	}
	bios := b.cfg.Roster.Galaxies
	for i, kind := range GalaxySequence {
		count := parameter.GalaxyPoints
		if kind == GalaxyGrandSpiral {
			count = parameter.GrandSpiralPoints
		}
		pos := GalaxyPosition(i)
		n := NewNode(fmt.Sprintf("galaxy-%d", i+1), KindPoints, At(pos))
		n.Base.Rotation = mgl64.Vec3{0.45 + 0.2*rng.Float64(), 0, (rng.Float64() - 0.5) * 0.6}
		n.Pose = n.Base
		n.Anim.Spin = mgl64.Vec3{0, parameter.GalaxySpin * (1 + 0.3*float64(i%2)), 0}
		n.Visible = false
		pal := palettes[i%len(palettes)]
		b.geometry(n, GalaxyPoints(kind, rng, count, parameter.GalaxyRadius, pal[0], pal[1]))

		g := &Galaxy{
			Node:         b.root.Scene.Add(n),
			Kind:         kind,
			Index:        i,
			CameraOffset: mgl64.Vec3{-pos[0] * 0.35, 10, parameter.GalaxyRadius * 2.4},
		}
		if i < len(bios) {
			g.Bio = bios[i]
		}
		b.root.Galaxies = append(b.root.Galaxies, g)
	}
	return nil
}

func randomBox(rng *rand.Rand, half float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64()*2 - 1) * half,
		(rng.Float64()*2 - 1) * half,
		(rng.Float64()*2 - 1) * half,
	}
}

func rgba(c colorful.Color) color.RGBA {
	r, g, bl := c.RGB255()
	return color.RGBA{r, g, bl, 255}
}
