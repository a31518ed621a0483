package scheduler

import "sync"

// State is what the scheduler remembers between ticks, one State belongs to
// one page.
type State struct {
	mutex           sync.Mutex
	lastResultCount *string
	running         bool
}

func NewState() *State {
	return &State{}
}

// begin moves Idle -> Running when signal is new and no pass is running.
func (s *State) begin(signal string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return false
	}
	if s.lastResultCount != nil && *s.lastResultCount == signal {
		return false
	}
	s.lastResultCount = &signal
	s.running = true
	return true
}

// end moves Running -> Idle.
func (s *State) end() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.running = false
}

func (s *State) Running() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.running
}

// LastResultCount is the signal of the most recently started pass.
func (s *State) LastResultCount() (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.lastResultCount == nil {
		return "", false
	}
	return *s.lastResultCount, true
}
