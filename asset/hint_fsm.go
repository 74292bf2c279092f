package asset

// DefaultHintFSMConfig returns the default hint FSM TOML configuration
const DefaultHintFSMConfig = `

# === Root FSM configuration ===
initial = "Scroll"


# === Visible hints ===

[states.Shown]
parent = "Root"
on_enter = [
    { action = "ResetIdle" },
]
transitions = [
    { trigger = "OverlayOpen", target = "Suppressed" },
    { trigger = "Finale", target = "Off" },
]

[states.Scroll]
parent = "Shown"
on_enter = [
    { action = "Trace", args = { hint = "scroll" } },
]
transitions = [
    { trigger = "EnterCentral", target = "Touch", guard = "ScrollLocked" },
]

[states.Touch]
parent = "Shown"
on_enter = [
    { action = "Trace", args = { hint = "touch" } },
]
transitions = [
    { trigger = "BranchDone", target = "Scroll", guard = "ScrollUnlocked" },
    { trigger = "LeaveCentral", target = "Scroll" },
]


# === Hidden ===

# Close restores whichever hint the lock implies; the lock is only
# released while suppressed by a branch finishing behind the overlay
[states.Suppressed]
parent = "Root"
on_enter = [
    { action = "Trace", args = { hint = "suppressed" } },
]
transitions = [
    { trigger = "OverlayClose", target = "Touch", guard = "ScrollLocked" },
    { trigger = "OverlayClose", target = "Scroll" },
    { trigger = "Finale", target = "Off" },
]

# Absorbing
[states.Off]
parent = "Root"
on_enter = [
    { action = "Trace", args = { hint = "off" } },
]
`
