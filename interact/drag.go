package interact

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Drag accumulates pointer motion into a target rotation and eases the
// actual rotation toward it with critically damped springs
type Drag struct {
	sensitivity float64
	pitchLimit  float64
	spring      harmonica.Spring

	pressed      bool
	moved        bool
	lastX, lastY int

	targetYaw, targetPitch float64
	yaw, pitch             float64
	yawVel, pitchVel       float64
}

// NewDrag creates a drag controller stepped at fps; sensitivity is radians per cell
func NewDrag(fps int, sensitivity float64) *Drag {
	return &Drag{
		sensitivity: sensitivity,
		pitchLimit:  math.Pi / 3,
		spring:      harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 4.0, 1.0),
	}
}

// Press starts a potential drag at (x, y)
func (d *Drag) Press(x, y int) {
	d.pressed = true
	d.moved = false
	d.lastX, d.lastY = x, y
}

// Move accumulates motion while pressed; returns true if the target changed
func (d *Drag) Move(x, y int) bool {
	if !d.pressed {
		return false
	}
	dx, dy := x-d.lastX, y-d.lastY
	if dx == 0 && dy == 0 {
		return false
	}
	d.lastX, d.lastY = x, y
	d.moved = true
	d.targetYaw += float64(dx) * d.sensitivity
	// Rows are twice as tall as columns
	d.targetPitch += float64(dy) * d.sensitivity * 2
	d.targetPitch = math.Max(-d.pitchLimit, math.Min(d.pitchLimit, d.targetPitch))
	return true
}

// Release ends the press; click is true when the pointer never moved
func (d *Drag) Release() (click bool) {
	if !d.pressed {
		return false
	}
	d.pressed = false
	return !d.moved
}

// Dragging reports whether the button is held and has moved
func (d *Drag) Dragging() bool {
	return d.pressed && d.moved
}

// Update advances both springs by one frame
func (d *Drag) Update() {
	d.yaw, d.yawVel = d.spring.Update(d.yaw, d.yawVel, d.targetYaw)
	d.pitch, d.pitchVel = d.spring.Update(d.pitch, d.pitchVel, d.targetPitch)
}

// Rotation returns the eased yaw and pitch
func (d *Drag) Rotation() (yaw, pitch float64) {
	return d.yaw, d.pitch
}

// Target returns the accumulated target yaw and pitch
func (d *Drag) Target() (yaw, pitch float64) {
	return d.targetYaw, d.targetPitch
}
