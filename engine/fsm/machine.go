package fsm

import (
	"time"

	"github.com/pkg/errors"
)

// Init enters the initial state, running enter actions from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.states[m.initial]
	if !ok || m.initial == StateNone {
		return errors.New("state machine not loaded")
	}
	m.active = node.id
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], node.lineage...)
	for _, id := range m.activePath {
		m.run(ctx, m.states[id].enter)
	}
	return nil
}

// Update ages the active state and evaluates Tick transitions
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.active == StateNone {
		return
	}
	m.timeInState += dt
	m.fire(ctx, TriggerTick)
}

// HandleEvent offers trigger to the active leaf and then each ancestor.
// Returns true if a transition was taken.
func (m *Machine[T]) HandleEvent(ctx T, trigger string) bool {
	if m.active == StateNone || trigger == TriggerTick {
		return false
	}
	return m.fire(ctx, trigger)
}

func (m *Machine[T]) fire(ctx T, trigger string) bool {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		for _, e := range m.states[m.activePath[i]].edges {
			if e.trigger == trigger && (e.guard == nil || e.guard(ctx)) {
				m.moveTo(ctx, e.target)
				return true
			}
		}
	}
	return false
}

// moveTo exits below the common ancestor and enters down to target
func (m *Machine[T]) moveTo(ctx T, target StateID) {
	if m.active == target {
		return
	}
	dest := m.states[target].lineage

	shared := 0
	for shared < len(m.activePath) && shared < len(dest) && m.activePath[shared] == dest[shared] {
		shared++
	}
	for i := len(m.activePath) - 1; i >= shared; i-- {
		m.run(ctx, m.states[m.activePath[i]].exit)
	}
	for _, id := range dest[shared:] {
		m.run(ctx, m.states[id].enter)
	}

	m.active = target
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], dest...)
}

func (m *Machine[T]) run(ctx T, actions []boundAction[T]) {
	for _, a := range actions {
		a.fn(ctx, a.args)
	}
}

// Reset exits the whole active path and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		m.run(ctx, m.states[m.activePath[i]].exit)
	}
	m.active = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// State returns the active state name, empty before Init
func (m *Machine[T]) State() string {
	if node, ok := m.states[m.active]; ok {
		return node.name
	}
	return ""
}

// In reports whether name is the active state or one of its ancestors
func (m *Machine[T]) In(name string) bool {
	id, ok := m.names[name]
	if !ok {
		return false
	}
	for _, p := range m.activePath {
		if p == id {
			return true
		}
	}
	return false
}

// TimeInState returns time since the last transition
func (m *Machine[T]) TimeInState() time.Duration {
	return m.timeInState
}

// stateTimeExceeds passes once the machine has stayed put for args["ms"]
func stateTimeExceeds[T any](m *Machine[T], args map[string]any) GuardFunc[T] {
	limit := time.Duration(argInt(args, "ms")) * time.Millisecond
	return func(T) bool {
		return m.timeInState >= limit
	}
}

// argInt reads an integer argument decoded from TOML
func argInt(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
