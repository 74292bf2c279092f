// Package fsm is a small hierarchical state machine driven by a TOML definition.
// States nest under parents; triggers bubble from the active leaf to the root and
// transitions run exit actions up to the common ancestor, then enter actions down.
package fsm

import "time"

// StateID indexes a state within one loaded definition
type StateID int

const (
	StateNone StateID = iota
	StateRoot
)

// rootName is the implicit top of every definition
const rootName = "Root"

// TriggerTick marks transitions evaluated on Update instead of on an event
const TriggerTick = "Tick"

// GuardFunc reports whether a transition may fire
type GuardFunc[T any] func(ctx T) bool

// ActionFunc runs a side effect with the arguments written in the definition
type ActionFunc[T any] func(ctx T, args map[string]any)

// GuardFactoryFunc builds a guard from definition arguments
type GuardFactoryFunc[T any] func(m *Machine[T], args map[string]any) GuardFunc[T]

// Machine holds a compiled state graph and the active position in it.
// T is the context handed to guards and actions.
type Machine[T any] struct {
	states  map[StateID]*stateNode[T]
	names   map[string]StateID
	initial StateID

	active      StateID
	activePath  []StateID
	timeInState time.Duration

	guards    map[string]GuardFunc[T]
	factories map[string]GuardFactoryFunc[T]
	actions   map[string]ActionFunc[T]
}

type stateNode[T any] struct {
	id     StateID
	name   string
	parent StateID

	// lineage from Root to this state, inclusive
	lineage []StateID

	enter []boundAction[T]
	exit  []boundAction[T]
	edges []edge[T]
}

type edge[T any] struct {
	trigger string
	target  StateID
	guard   GuardFunc[T] // nil passes
}

type boundAction[T any] struct {
	fn   ActionFunc[T]
	args map[string]any
}

// NewMachine returns an empty machine with the StateTimeExceeds guard factory registered
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		states:     make(map[StateID]*stateNode[T]),
		names:      make(map[string]StateID),
		activePath: make([]StateID, 0, 4),
		guards:     make(map[string]GuardFunc[T]),
		factories:  make(map[string]GuardFactoryFunc[T]),
		actions:    make(map[string]ActionFunc[T]),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// RegisterGuard makes a named guard available to definitions loaded afterwards
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guards[name] = fn
}

// RegisterGuardFactory makes a parameterized guard available by name
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.factories[name] = factory
}

// RegisterAction makes a named action available to definitions loaded afterwards
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actions[name] = fn
}

// GetStateID resolves a state name
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.names[name]
	return id, ok
}
