package presets

import (
	"time"
)

// State is the state of the Scheduler.
type State int

const (
	Disabled State = iota
	WaitingInitialDelay
	Running
	WaitingBetween
	Stopped
)

var states = []string{"disabled", "waiting for initial delay", "running", "waiting for next preset", "stopped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(states) {
		return "unknown"
	}
	return states[s]
}

// Trigger indicates why a preset was applied.
type Trigger int

const (
	Automatic Trigger = iota
	Manual
)

func (t Trigger) String() string {
	if t == Manual {
		return "manual"
	}
	return "automatic"
}

// RunState is a snapshot of the Scheduler's progress.
type RunState struct {
	State State `json:"-"`
	// StateName is State in human-readable form.
	StateName string `json:"state"`
	Enabled   bool   `json:"enabled"`
	// Current is the last preset that was applied.
	Current string `json:"current,omitempty"`
	// Loops is the number of completed passes through the order.
	Loops     uint `json:"loops"`
	LoopCount uint `json:"loopCount"`
	// Next is the time the next preset is due. Zero if no preset is scheduled.
	Next time.Time `json:"next"`
	// Order holds the presets the Scheduler cycles through.
	Order []string `json:"order"`
	// position is the number of presets applied in the current pass through the order.
	position int
}

// Result reports the outcome of applying a preset.
type Result struct {
	Preset  string
	RunID   string
	Trigger Trigger
	Applied int
	Failed  []error
}

// OK returns true if all modifiers were applied.
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// EventKind is the type of Event published by the Scheduler.
type EventKind int

const (
	PresetApplied EventKind = iota
	StateChanged
)

// An Event reports a preset application or a state change of the Scheduler.
type Event struct {
	Kind   EventKind
	State  State
	Result Result
	Loops  uint
	Reason string
}
