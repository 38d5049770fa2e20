package career

import (
	"sync"
	"time"
)

// Clock abstracts time for the submission timestamp and the reset timer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// State is the form screen state.
type State int

const (
	// Composing shows the editable form.
	Composing State = iota
	// Submitted shows the confirmation message.
	Submitted
)

func (s State) String() string {
	switch s {
	case Composing:
		return "composing"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Machine is the two-state form screen: Composing moves to Submitted on a
// successful submission, and Submitted returns to Composing once the reset
// delay elapses.
type Machine struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	state   State
	timer   Timer
	gen     uint64
	onReset func()
}

// NewMachine returns a machine in the Composing state.
func NewMachine(clock Clock, delay time.Duration) *Machine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Machine{clock: clock, delay: delay}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MarkSubmitted enters Submitted and (re)arms the reset timer.
func (m *Machine) MarkSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.state = Submitted
	m.gen++
	gen := m.gen
	m.timer = m.clock.AfterFunc(m.delay, func() { m.reset(gen) })
}

func (m *Machine) reset(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != Submitted {
		m.mu.Unlock()
		return
	}
	m.state = Composing
	m.timer = nil
	cb := m.onReset
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Stop cancels a pending reset. The state is left as it is.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

// Tracker keeps one Machine per visitor session. Sessions without an entry
// are Composing; an entry is dropped when its machine resets.
type Tracker struct {
	mu       sync.Mutex
	clock    Clock
	delay    time.Duration
	machines map[string]*Machine
}

// NewTracker creates an empty tracker.
func NewTracker(clock Clock, delay time.Duration) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Tracker{clock: clock, delay: delay, machines: make(map[string]*Machine)}
}

// State returns the session's screen state.
func (t *Tracker) State(sessionID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.machines[sessionID]; ok {
		return m.State()
	}
	return Composing
}

// MarkSubmitted moves the session to Submitted.
func (t *Tracker) MarkSubmitted(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.machines[sessionID]
	if !ok {
		m = NewMachine(t.clock, t.delay)
		m.onReset = func() { t.release(sessionID, m) }
		t.machines[sessionID] = m
	}
	m.MarkSubmitted()
}

func (t *Tracker) release(sessionID string, m *Machine) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.machines[sessionID]; ok && cur == m && m.State() == Composing {
		delete(t.machines, sessionID)
	}
}

// Len returns the number of sessions currently Submitted.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.machines)
}

// Close stops every pending reset timer.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, m := range t.machines {
		m.Stop()
		delete(t.machines, id)
	}
}
