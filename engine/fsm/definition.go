package fsm

import (
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// definition is the TOML schema of a machine
type definition struct {
	Initial string               `toml:"initial"`
	States  map[string]*stateDef `toml:"states"`
}

type stateDef struct {
	Parent      string      `toml:"parent,omitempty"`
	OnEnter     []actionDef `toml:"on_enter,omitempty"`
	OnExit      []actionDef `toml:"on_exit,omitempty"`
	Transitions []edgeDef   `toml:"transitions,omitempty"`
}

type edgeDef struct {
	Trigger   string         `toml:"trigger"`
	Target    string         `toml:"target"`
	Guard     string         `toml:"guard,omitempty"`
	GuardArgs map[string]any `toml:"guard_args,omitempty"`
}

type actionDef struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args,omitempty"`
}

// LoadConfig replaces the state graph with the one described by data.
// Every state, guard and action name must resolve; guards and actions
// are looked up in the registries at load time.
func (m *Machine[T]) LoadConfig(data []byte) error {
	var def definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return errors.Wrap(err, "decode state machine")
	}
	if def.Initial == "" {
		return errors.New("state machine has no initial state")
	}

	states := map[StateID]*stateNode[T]{
		StateRoot: {id: StateRoot, name: rootName},
	}
	names := map[string]StateID{rootName: StateRoot}

	// IDs follow name order so repeated loads number states identically
	ordered := make([]string, 0, len(def.States))
	for name := range def.States {
		if name != rootName {
			ordered = append(ordered, name)
		}
	}
	slices.Sort(ordered)
	for i, name := range ordered {
		id := StateRoot + 1 + StateID(i)
		names[name] = id
		states[id] = &stateNode[T]{id: id, name: name}
	}

	for _, name := range ordered {
		var parent string
		if sd := def.States[name]; sd != nil {
			parent = sd.Parent
		}
		if parent == "" {
			parent = rootName
		}
		pid, ok := names[parent]
		if !ok {
			return errors.Errorf("state %q: unknown parent %q", name, parent)
		}
		states[names[name]].parent = pid
	}

	for name, sd := range def.States {
		if sd == nil {
			continue
		}
		node := states[names[name]]
		var err error
		if node.enter, err = m.bindActions(sd.OnEnter); err != nil {
			return errors.Wrapf(err, "state %q on_enter", name)
		}
		if node.exit, err = m.bindActions(sd.OnExit); err != nil {
			return errors.Wrapf(err, "state %q on_exit", name)
		}
		if node.edges, err = m.bindEdges(sd.Transitions, names); err != nil {
			return errors.Wrapf(err, "state %q", name)
		}
	}

	for _, node := range states {
		lineage, err := resolveLineage(states, node)
		if err != nil {
			return err
		}
		node.lineage = lineage
	}

	initial, ok := names[def.Initial]
	if !ok {
		return errors.Errorf("initial state %q not defined", def.Initial)
	}

	m.states = states
	m.names = names
	m.initial = initial
	m.active = StateNone
	m.activePath = m.activePath[:0]
	m.timeInState = 0
	return nil
}

// resolveLineage walks parents to Root and returns the chain root first
func resolveLineage[T any](states map[StateID]*stateNode[T], node *stateNode[T]) ([]StateID, error) {
	var chain []StateID
	for cur := node; ; {
		chain = append(chain, cur.id)
		if cur.parent == StateNone {
			break
		}
		if len(chain) > len(states) {
			return nil, errors.Errorf("state %q: parent cycle", node.name)
		}
		cur = states[cur.parent]
	}
	slices.Reverse(chain)
	return chain, nil
}

func (m *Machine[T]) bindActions(defs []actionDef) ([]boundAction[T], error) {
	out := make([]boundAction[T], 0, len(defs))
	for _, d := range defs {
		fn, ok := m.actions[d.Action]
		if !ok {
			return nil, errors.Errorf("unknown action %q", d.Action)
		}
		out = append(out, boundAction[T]{fn: fn, args: d.Args})
	}
	return out, nil
}

func (m *Machine[T]) bindEdges(defs []edgeDef, names map[string]StateID) ([]edge[T], error) {
	out := make([]edge[T], 0, len(defs))
	for _, d := range defs {
		target, ok := names[d.Target]
		if !ok {
			return nil, errors.Errorf("unknown transition target %q", d.Target)
		}
		if d.Trigger == "" {
			return nil, errors.Errorf("transition to %q has no trigger", d.Target)
		}
		e := edge[T]{trigger: d.Trigger, target: target}
		if d.Guard != "" {
			if factory, ok := m.factories[d.Guard]; ok {
				e.guard = factory(m, d.GuardArgs)
			} else if g, ok := m.guards[d.Guard]; ok {
				e.guard = g
			} else {
				return nil, errors.Errorf("unknown guard %q", d.Guard)
			}
		}
		out = append(out, e)
	}
	return out, nil
}
