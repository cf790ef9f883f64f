package flatten

import "reflect"

// identity is the token of one aggregate instance: the pointee type plus its address.
// The type is part of the token so a struct and its first field, which share an
// address, stay distinct.
type identity struct {
	typ  reflect.Type
	addr uintptr
}

// State is the traversal state of one top-level flatten call.
// It must not be reused across unrelated calls.
type State struct {
	depth   int
	visited map[identity]struct{}
}

// NewState returns a fresh traversal state.
func NewState() *State {
	return &State{visited: make(map[identity]struct{})}
}

// Depth returns the current nesting depth. It is zero once a call has returned.
func (s *State) Depth() int {
	return s.depth
}

// Visited returns how many aggregate identities are currently registered.
func (s *State) Visited() int {
	return len(s.visited)
}

func (s *State) seen(id identity) bool {
	_, ok := s.visited[id]
	return ok
}

func (s *State) enter(id identity) {
	s.visited[id] = struct{}{}
}

func (s *State) leave(id identity) {
	delete(s.visited, id)
}
