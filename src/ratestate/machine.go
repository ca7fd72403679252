// Package ratestate models the exchange-rate input field as an explicit
// state machine: external rate updates must not clobber a value the user is
// in the middle of typing, valid input commits after a debounce delay, and
// blur flushes a pending commit immediately.
package ratestate

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is how long valid input rests before committing.
const DefaultDebounceDelay = 500 * time.Millisecond

// State of the input field.
type State int

const (
	// Clean: the field mirrors the committed value; external updates apply.
	Clean State = iota
	// Editing: the user has typed something invalid or not yet debounced;
	// external updates are ignored.
	Editing
	// PendingCommit: valid input is resting; the debounce timer is armed.
	PendingCommit
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Editing:
		return "editing"
	case PendingCommit:
		return "pending-commit"
	default:
		return "unknown"
	}
}

// CommitFunc receives the draft text when a commit fires.
type CommitFunc func(value string)

// Machine is the input-field state machine. Safe for concurrent use; the
// debounce timer fires on its own goroutine.
type Machine struct {
	mu     sync.Mutex
	state  State
	value  string // committed value the field mirrors in Clean
	draft  string // text as typed
	delay  time.Duration
	timer  *time.Timer
	commit CommitFunc
}

// New creates a machine showing the given committed value. A nil commit
// function is a wiring bug and panics.
func New(initial string, delay time.Duration, commit CommitFunc) *Machine {
	if commit == nil {
		panic("ratestate.New: nil commit function")
	}
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Machine{
		state:  Clean,
		value:  initial,
		draft:  initial,
		delay:  delay,
		commit: commit,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Value returns the committed value.
func (m *Machine) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Draft returns the field text as currently typed.
func (m *Machine) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// ExternalUpdate applies a new committed value from outside (another view
// changed the rate). It only applies in Clean; while the user is editing the
// field keeps their text. Reports whether the update was applied.
func (m *Machine) ExternalUpdate(value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Clean {
		return false
	}
	m.value = value
	m.draft = value
	return true
}

// Input records a keystroke. Valid input arms (or re-arms) the debounce
// timer; invalid input cancels any pending commit and parks the field in
// Editing without touching the committed value.
func (m *Machine) Input(text string, valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = text
	m.stopTimerLocked()

	if !valid {
		m.state = Editing
		return
	}

	m.state = PendingCommit
	m.timer = time.AfterFunc(m.delay, m.fire)
}

// Blur leaves the field. A pending commit flushes immediately; plain editing
// discards the draft and returns to the committed value.
func (m *Machine) Blur() {
	m.mu.Lock()
	if m.state == PendingCommit {
		m.stopTimerLocked()
		m.commitLocked() // unlocks
		return
	}
	m.state = Clean
	m.draft = m.value
	m.mu.Unlock()
}

// Reset cancels any pending commit and returns to Clean showing the given
// committed value (used when the rate is reset to its default).
func (m *Machine) Reset(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.state = Clean
	m.value = value
	m.draft = value
}

// fire runs on the timer goroutine when the debounce delay elapses.
func (m *Machine) fire() {
	m.mu.Lock()
	if m.state != PendingCommit {
		m.mu.Unlock()
		return
	}
	m.commitLocked() // unlocks
}

// commitLocked promotes the draft to the committed value and invokes the
// commit callback. Must be called with mu held; releases it before the
// callback so the callback may use the machine.
func (m *Machine) commitLocked() {
	draft := m.draft
	m.value = draft
	m.state = Clean
	m.timer = nil
	m.mu.Unlock()
	m.commit(draft)
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
