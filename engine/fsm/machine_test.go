package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	log  []string
	open bool
}

const doorConfig = `
initial = "Closed"

[states.Building]
transitions = [{ trigger = "Evacuate", target = "Empty" }]

[states.Closed]
parent = "Building"
on_enter = [{ action = "Log", args = { msg = "enter-closed" } }]
on_exit = [{ action = "Log", args = { msg = "exit-closed" } }]
transitions = [
  { trigger = "Push", target = "Open", guard = "Unlocked" },
  { trigger = "Tick", target = "Locked", guard = "StateTimeExceeds", guard_args = { ms = 500 } },
]

[states.Open]
parent = "Building"
on_enter = [{ action = "Log", args = { msg = "enter-open" } }]
transitions = [{ trigger = "Push", target = "Closed" }]

[states.Locked]
parent = "Building"

[states.Empty]
`

func newDoor(t *testing.T) (*Machine[*recorder], *recorder) {
	t.Helper()
	m := NewMachine[*recorder]()
	m.RegisterAction("Log", func(r *recorder, args map[string]any) {
		r.log = append(r.log, args["msg"].(string))
	})
	m.RegisterGuard("Unlocked", func(r *recorder) bool { return r.open })
	require.NoError(t, m.LoadConfig([]byte(doorConfig)))

	r := &recorder{open: true}
	require.NoError(t, m.Init(r))
	return m, r
}

// TestInitRunsEnterChain verifies Init enters the initial leaf
func TestInitRunsEnterChain(t *testing.T) {
	m, r := newDoor(t)
	assert.Equal(t, "Closed", m.State())
	assert.True(t, m.In("Building"))
	assert.Equal(t, []string{"enter-closed"}, r.log)
}

// TestGuardBlocksTransition verifies a failing guard leaves the state unchanged
func TestGuardBlocksTransition(t *testing.T) {
	m, r := newDoor(t)
	r.open = false
	assert.False(t, m.HandleEvent(r, "Push"))
	assert.Equal(t, "Closed", m.State())

	r.open = true
	assert.True(t, m.HandleEvent(r, "Push"))
	assert.Equal(t, "Open", m.State())
	assert.Equal(t, []string{"enter-closed", "exit-closed", "enter-open"}, r.log)
}

// TestEventBubblesToParent verifies a trigger unknown to the leaf is handled by an ancestor
func TestEventBubblesToParent(t *testing.T) {
	m, r := newDoor(t)
	assert.True(t, m.HandleEvent(r, "Evacuate"))
	assert.Equal(t, "Empty", m.State())
	assert.False(t, m.In("Building"))
}

// TestTickTransitionAfterTimeout verifies StateTimeExceeds fires only once the state has aged
func TestTickTransitionAfterTimeout(t *testing.T) {
	m, r := newDoor(t)
	m.Update(r, 300*time.Millisecond)
	assert.Equal(t, "Closed", m.State())
	m.Update(r, 300*time.Millisecond)
	assert.Equal(t, "Locked", m.State())
	assert.Zero(t, m.TimeInState())
}

// TestTickIsNotAnEvent verifies Tick cannot be injected through HandleEvent
func TestTickIsNotAnEvent(t *testing.T) {
	m, r := newDoor(t)
	m.Update(r, time.Second-time.Millisecond)
	assert.False(t, m.HandleEvent(r, TriggerTick))
}

// TestReset verifies Reset re-enters the initial state
func TestReset(t *testing.T) {
	m, r := newDoor(t)
	m.HandleEvent(r, "Push")
	require.NoError(t, m.Reset(r))
	assert.Equal(t, "Closed", m.State())
}

// TestLoadConfigRejectsBadReferences verifies unresolved names fail the load
func TestLoadConfigRejectsBadReferences(t *testing.T) {
	cases := map[string]string{
		"unknown target":  "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Go\", target = \"B\" }]\n",
		"unknown parent":  "initial = \"A\"\n[states.A]\nparent = \"X\"\n",
		"unknown guard":   "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Go\", target = \"A\", guard = \"Nope\" }]\n",
		"unknown action":  "initial = \"A\"\n[states.A]\non_enter = [{ action = \"Nope\" }]\n",
		"missing initial": "[states.A]\n",
		"bad initial":     "initial = \"Z\"\n[states.A]\n",
		"empty trigger":   "initial = \"A\"\n[states.A]\ntransitions = [{ target = \"A\" }]\n",
		"parent cycle":    "initial = \"A\"\n[states.A]\nparent = \"B\"\n[states.B]\nparent = \"A\"\n",
		"malformed toml":  "initial = \n",
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			m := NewMachine[*recorder]()
			assert.Error(t, m.LoadConfig([]byte(cfg)))
		})
	}
}

// TestFailedLoadKeepsGraph verifies a rejected definition leaves the running machine intact
func TestFailedLoadKeepsGraph(t *testing.T) {
	m, r := newDoor(t)
	require.Error(t, m.LoadConfig([]byte("initial = \"Q\"\n[states.A]\n")))
	assert.Equal(t, "Closed", m.State())
	assert.True(t, m.HandleEvent(r, "Push"))
	assert.Equal(t, "Open", m.State())
}
