package parameter

// World layout, in world units along the camera path (-Z is forward)
const (
	// PlanetSpacing is the Z distance between consecutive mentor planets
	PlanetSpacing = 45.0
	// PlanetLateral is the X offset of a planet toward its side affinity
	PlanetLateral = 11.0
	// PlanetRadius is the core radius; shells scale from it
	PlanetRadius = 4.0

	// SunDepth is the Z position of the central object
	SunDepth = -240.0
	// SunRadius is the core radius of the central object
	SunRadius = 6.0

	// TokenRadius is the pick and draw radius of one member token
	TokenRadius = 1.3
	// TokenOrbitBase is the orbit radius of the first batch; later batches sit further out
	TokenOrbitBase = 12.0
	// TokenOrbitStep separates batch orbits
	TokenOrbitStep = 4.0

	// GalaxyStart is the Z position of the first background galaxy
	GalaxyStart = -420.0
	// GalaxySpacing is the Z distance between background galaxies
	GalaxySpacing = 90.0
	// GalaxyLateral is the alternating X offset of background galaxies
	GalaxyLateral = 28.0
	// GalaxyRadius is the extent of a background galaxy
	GalaxyRadius = 22.0
)

// Particle budgets per group
const (
	StarCount          = 1400
	StarShellRadius    = 1500.0
	NebulaLayers       = 3
	NebulaPerLayer     = 260
	DustCount          = 360
	DustWrap           = 60.0
	DataCount          = 140
	DataWrap           = 90.0
	MentorGalaxyPoints = 1600
	GalaxyPoints       = 900
	GrandSpiralPoints  = 1500
)

// Continuous animation rates, radians or units per second
const (
	PlanetSpin      = 0.25
	CloudSpin       = -0.12
	TokenRingSpin   = 1.4
	TokenOrbitSpeed = 0.18
	SunSpin         = 0.05
	SunPulseRate    = 1.6
	SunPulseDepth   = 0.04
	GalaxySpin      = 0.03
	NebulaSpin      = 0.004
	DustDrift       = 1.5
	DataDrift       = 0.8
)
