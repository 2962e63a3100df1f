package workspace

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Persister saves the durable part of a State: files, pasted text and settings
type Persister interface {
	SaveState(ctx context.Context, s State) error
	LoadState(ctx context.Context) (State, bool, error)
}

// Store serializes dispatches from concurrent HTTP requests onto one State
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
}

// NewStore creates a store. With a non-nil persister the last saved state
// is loaded and every change to durable fields is saved.
func NewStore(ctx context.Context, p Persister) (*Store, error) {
	st := &Store{state: NewState(), persister: p}
	if p == nil {
		return st, nil
	}

	saved, ok, err := p.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	if ok {
		st.state = saved
	}
	return st, nil
}

// Dispatch reduces the actions in order and commits the result.
// If saving fails the previous state is kept.
func (st *Store) Dispatch(ctx context.Context, actions ...Action) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.state
	for _, a := range actions {
		next = Reduce(next, a)
	}

	if st.persister != nil && !sameDurable(st.state, next) {
		if err := st.persister.SaveState(ctx, next); err != nil {
			return st.state.clone(), fmt.Errorf("failed to save workspace: %w", err)
		}
	}

	st.state = next
	return next.clone(), nil
}

// Snapshot returns a copy of the current state
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

func sameDurable(a, b State) bool {
	return a.Settings == b.Settings &&
		a.PastedText == b.PastedText &&
		slices.Equal(a.Files, b.Files)
}
