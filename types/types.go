// Package types defines the shared data structures for the replay engine.
// This package contains only type definitions. No logic, no methods
// beyond trivial accessors.
package types

// Screen and map geometry shared by the harness, the session format and the comparator.
const (
	ScreenRows = 24
	ScreenCols = 80
	MapRows    = 21
	MapCols    = 80

	// MapTop is the screen row holding map row 0; row 0 of the screen is the message line.
	MapTop = 1
)

// EntryKind tags an RNG trace record.
type EntryKind int

const (
	EntryDraw      EntryKind = iota // primitive draw, compared
	EntryEnter                      // ">" scope marker, skipped
	EntryExit                       // "<" scope marker, skipped
	EntryComposite                  // composite wrapper, skipped
)

// RngLogEntry is one line of an RNG trace.
type RngLogEntry struct {
	Kind   EntryKind
	Func   string
	Args   []int
	Result int
	Site   string // informational call-site label, ignored by comparison
	Raw    string // original text for markers and diagnostics
}

// Character parameterizes the initial world.
type Character struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Race      string `json:"race"`
	Gender    string `json:"gender"`
	Alignment string `json:"alignment"`
}

// SessionStep is the reference implementation's ground truth for one
// externally observed keypress. Read-only during replay.
type SessionStep struct {
	Key    string
	Action string
	Rng    []RngLogEntry
	Screen []string
	Grid   [][]int // optional terrain-type grid
}

// Session is a fully materialized recorded session.
type Session struct {
	Version   int
	Seed      int64
	Character Character
	Startup   *SessionStep // optional pre-game pseudo-step
	Steps     []SessionStep
	Source    string // file the session was read from, if any
}

// ReplayStepResult is the engine's reconstruction for one recorded step.
// Created once per input step and immutable after emission.
type ReplayStepResult struct {
	Rng    []RngLogEntry
	Screen []string // nil when the step produced no screen of its own
	Grid   [][]int  // captured when the recorded step carries a grid
	Kind   StepKind
}

// StepKind records how the replay engine classified a recorded step.
type StepKind int

const (
	StepCommand     StepKind = iota // dispatched as a command
	StepPendingFeed                 // fed to a suspended command
	StepCount                       // digit accumulated into a count prefix
	StepAcknowledge                 // pagination acknowledgement, no command
	StepStartup                     // startup pseudo-step
)

func (k StepKind) String() string {
	switch k {
	case StepCommand:
		return "command"
	case StepPendingFeed:
		return "pending"
	case StepCount:
		return "count"
	case StepAcknowledge:
		return "ack"
	case StepStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// KeyStats records key conservation across a replay run.
type KeyStats struct {
	Recorded int // key bytes present in the recorded session
	Fed      int // recorded key bytes handed to the harness
	Injected int // bytes the engine injected itself (menu dismissal, cancellation)
}
