package engine

// NodeState holds the ephemeral flags of one rendered row.
type NodeState struct {
	Expanded bool
	Hovered  bool
}

// StateStore keeps row state keyed by resolved path. An entry exists only while its row is
// mounted: Render mounts rows and Sweep discards the ones no longer rendered, so the
// descendants of a collapsed directory start over when it is expanded again.
//
// Two siblings with the same name and type resolve to the same path and share an entry.
type StateStore struct {
	states map[string]*NodeState
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]*NodeState)}
}

// Get returns the state of a row, or the zero state when it is not mounted.
func (s *StateStore) Get(path string) NodeState {
	if st, ok := s.states[path]; ok {
		return *st
	}
	return NodeState{}
}

// Mounted reports whether a row with this path is currently mounted.
func (s *StateStore) Mounted(path string) bool {
	_, ok := s.states[path]
	return ok
}

// Len returns the number of mounted rows.
func (s *StateStore) Len() int {
	return len(s.states)
}

func (s *StateStore) mount(path string) *NodeState {
	st, ok := s.states[path]
	if !ok {
		st = &NodeState{}
		s.states[path] = st
	}
	return st
}

// ToggleExpanded flips the expanded flag of a mounted row and returns the new value.
func (s *StateStore) ToggleExpanded(path string) bool {
	st, ok := s.states[path]
	if !ok {
		return false
	}
	st.Expanded = !st.Expanded
	return st.Expanded
}

// SetExpanded sets the expanded flag of a mounted row.
func (s *StateStore) SetExpanded(path string, expanded bool) {
	if st, ok := s.states[path]; ok {
		st.Expanded = expanded
	}
}

// SetHovered sets the hovered flag of a mounted row.
func (s *StateStore) SetHovered(path string, hovered bool) {
	if st, ok := s.states[path]; ok {
		st.Hovered = hovered
	}
}

// Sweep unmounts every entry whose row is not in rows.
func (s *StateStore) Sweep(rows []Row) {
	live := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		live[r.Path] = struct{}{}
	}
	for path := range s.states {
		if _, ok := live[path]; !ok {
			delete(s.states, path)
		}
	}
}
