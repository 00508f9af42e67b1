// Package learner holds the learner state shared across views: the API
// token, hearts and XP. Views receive a Store and subscribe to it instead
// of reading ambient globals.
package learner

import (
	"sync"
)

// DefaultHeartsMax is the hearts cap of a fresh learner.
const DefaultHeartsMax = 5

// State is a point-in-time copy of the learner state.
type State struct {
	Token         string
	HeartsCurrent int
	HeartsMax     int
	XP            int
}

// Store is the learner state collaborator injected into views and runners.
type Store interface {
	Token() string
	SetToken(token string)
	Hearts() (current, limit int)
	SetHearts(current, limit int)
	XP() int
	AddXP(delta int)
	State() State

	// Subscribe registers fn to be called after every change. The returned
	// cancel func is idempotent.
	Subscribe(fn func(State)) (cancel func())
}

// Memory is an in-memory Store. It is safe for concurrent use; subscribers
// are called synchronously, in subscription order, outside the lock.
type Memory struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(State)
}

// NewMemory creates a Memory store with full hearts.
func NewMemory(heartsMax int) *Memory {
	if heartsMax <= 0 {
		heartsMax = DefaultHeartsMax
	}
	return &Memory{state: State{HeartsCurrent: heartsMax, HeartsMax: heartsMax}}
}

// Restore replaces the state without notifying subscribers.
func (m *Memory) Restore(s State) {
	m.mu.Lock()
	m.state = clamp(s)
	m.mu.Unlock()
}

func (m *Memory) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

func (m *Memory) SetToken(token string) {
	m.update(func(s *State) { s.Token = token })
}

func (m *Memory) Hearts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.HeartsCurrent, m.state.HeartsMax
}

// SetHearts sets the hearts. current is clamped to [0, limit]; a
// non-positive limit keeps the existing cap.
func (m *Memory) SetHearts(current, limit int) {
	m.update(func(s *State) {
		if limit > 0 {
			s.HeartsMax = limit
		}
		s.HeartsCurrent = current
	})
}

func (m *Memory) XP() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.XP
}

// AddXP adds delta to the XP total. Zero deltas notify nobody.
func (m *Memory) AddXP(delta int) {
	if delta == 0 {
		return
	}
	m.update(func(s *State) { s.XP += delta })
}

func (m *Memory) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Memory) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Memory) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	m.state = clamp(m.state)
	snapshot := m.state
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshot)
	}
}

func clamp(s State) State {
	if s.HeartsMax <= 0 {
		s.HeartsMax = DefaultHeartsMax
	}
	s.HeartsCurrent = max(0, min(s.HeartsCurrent, s.HeartsMax))
	if s.XP < 0 {
		s.XP = 0
	}
	return s
}
