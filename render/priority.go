package render

// Priority determines render order. Lower values render first
type Priority int

const (
	PriorityScene Priority = iota
	PriorityOverlay
	PriorityHUD
)
