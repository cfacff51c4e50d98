package node

import (
	"sort"
	"sync"
)

// WarmState is the warm lifecycle tag of a (function, node) pair. A pair with
// no recorded state is cold.
type WarmState int

const (
	StateCold WarmState = iota
	StatePreWarmed
	StateWarmed
)

func (s WarmState) String() string {
	switch s {
	case StatePreWarmed:
		return "pre-warmed"
	case StateWarmed:
		return "warmed"
	default:
		return "cold"
	}
}

// WarmStateStore tracks the warm state of every (function, node) pair. A pair
// holds at most one state at a time: a transition overwrites the previous tag.
type WarmStateStore struct {
	mu     sync.RWMutex
	states map[string]map[string]WarmState // function -> node -> state
}

func NewWarmStateStore() *WarmStateStore {
	return &WarmStateStore{states: make(map[string]map[string]WarmState)}
}

// Set records the state for a (function, node) pair, overwriting any previous
// state. Setting StateCold removes the entry.
func (s *WarmStateStore) Set(function, nodeName string, state WarmState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == StateCold {
		if perNode, ok := s.states[function]; ok {
			delete(perNode, nodeName)
			if len(perNode) == 0 {
				delete(s.states, function)
			}
		}
		return
	}

	perNode, ok := s.states[function]
	if !ok {
		perNode = make(map[string]WarmState)
		s.states[function] = perNode
	}
	perNode[nodeName] = state
}

// Get returns the recorded state for a (function, node) pair; StateCold if
// none has been recorded.
func (s *WarmStateStore) Get(function, nodeName string) WarmState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if perNode, ok := s.states[function]; ok {
		if state, ok := perNode[nodeName]; ok {
			return state
		}
	}
	return StateCold
}

// FirstWithState scans the nodes known for a function, in sorted name order,
// and returns the first one holding the wanted state.
func (s *WarmStateStore) FirstWithState(function string, wanted WarmState) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perNode, ok := s.states[function]
	if !ok {
		return "", false
	}

	names := make([]string, 0, len(perNode))
	for name := range perNode {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if perNode[name] == wanted {
			return name, true
		}
	}
	return "", false
}

// ConsumePreWarmed reverts a pre-warmed (function, node) pair to cold. The
// operation is idempotent: racing invocations may both revert the same entry
// without harm.
func (s *WarmStateStore) ConsumePreWarmed(function, nodeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perNode, ok := s.states[function]
	if !ok {
		return
	}
	if perNode[nodeName] != StatePreWarmed {
		return
	}
	delete(perNode, nodeName)
	if len(perNode) == 0 {
		delete(s.states, function)
	}
}
