package render

// Renderer draws one layer of the frame
type Renderer interface {
	Render(ctx Context, buf *RenderBuffer)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
