package render

import (
	"github.com/lixenwraith/starfolio/hint"
	"github.com/lixenwraith/starfolio/scene"
	"github.com/lixenwraith/starfolio/ui"
)

// Context provides frame state for renderers, passed by value
type Context struct {
	Width  int
	Height int

	Camera scene.Camera
	Root   *scene.Root
	Board  *ui.Board

	// Elapsed is wall seconds since start; Progress is timeline position over duration
	Elapsed  float64
	Progress float64
	Phase    string

	Hint      hint.Kind
	Urgent    bool
	Locked    bool
	Remaining int

	Muted bool
	Hover int
}
