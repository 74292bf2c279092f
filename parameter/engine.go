package parameter

import "time"

// Frame loop
const (
	// FPS is the default frame rate of the render loop
	FPS = 30

	// MaxFrameStep caps the delta fed to springs and hint idle timers after a stall
	MaxFrameStep = 250 * time.Millisecond
)

// Scroll mapping
const (
	// ScrollRows is how many document rows one wheel notch moves
	ScrollRows = 3

	// DocumentRows is the virtual document height mapped onto the whole timeline
	DocumentRows = 1200

	// PageNotches is how many notches PgUp/PgDn move
	PageNotches = 8

	// ScrollEase is the angular frequency of the spring pulling position toward the scroll target
	ScrollEase = 6.0

	// AutoplaySpeed is timeline seconds advanced per wall second during autoplay
	AutoplaySpeed = 1.0
)

// Interaction
const (
	// DragSensitivity is radians of sun rotation per dragged cell
	DragSensitivity = 0.04

	// ClickVolume scales the typewriter tick, 1 is unity gain
	ClickVolume = 0.6
)

// Assets
const (
	// TextureSize is the default edge of generated surface textures
	TextureSize = 128

	// PortraitSize is the square edge portraits are fitted to
	PortraitSize = 96
)
