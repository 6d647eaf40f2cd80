package repository

import (
	"context"
	"fmt"
	"sync"
)

// Persister stores and retrieves the whole State. Implementations only need
// load-all / save-all semantics.
type Persister interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
}

// Store owns the live State. Every mutation goes through RunTx, which works on
// a private copy and swaps it in only after the callback and the persister
// have both succeeded, so readers never observe a half-applied change.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
}

// NewStore loads the initial state from p. A nil persister keeps the state in
// memory only (unit test mode).
func NewStore(ctx context.Context, p Persister) (*Store, error) {
	st := NewState()
	if p != nil {
		loaded, err := p.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		if loaded != nil {
			st = loaded.normalize()
		}
	}
	return &Store{state: st, persister: p}, nil
}

// NewMemoryStore returns a store seeded with st and no persister.
func NewMemoryStore(st *State) *Store {
	if st == nil {
		st = NewState()
	}
	return &Store{state: st.normalize()}
}

// RunTx applies fn to a copy of the state. If fn returns an error, or the
// persister cannot save the result, the live state is left untouched.
func (s *Store) RunTx(ctx context.Context, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}
	s.state = next
	return nil
}

// Read runs fn against the live state under a read lock. fn must not retain
// or mutate anything it reaches through st.
func (s *Store) Read(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
