// Package materializer implements a one-shot, at-most-one-in-flight
// background builder for a derived value, used by the search index's
// LazyCache strategy to build its choseong key vector on first demand.
package materializer

import "sync"

type state int

const (
	stateEmpty state = iota
	stateBuilding
	stateReady
)

// Materializer guards a three-state (empty -> building -> ready) value
// behind a condition variable. At most one build is ever in flight;
// waiters observing "building" block until the broadcast at the "ready"
// transition.
type Materializer[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	state  state
	value  T
	build  func() T
}

// New returns an empty materializer that computes its value with build
// when asked to.
func New[T any](build func() T) *Materializer[T] {
	m := &Materializer[T]{build: build}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// StartBackgroundBuild transitions empty -> building and spawns a worker
// goroutine to compute the value. It is a no-op if a build has already
// started or completed.
func (m *Materializer[T]) StartBackgroundBuild() {
	m.mu.Lock()
	if m.state != stateEmpty {
		m.mu.Unlock()
		return
	}
	m.state = stateBuilding
	m.mu.Unlock()

	go func() {
		v := m.build()
		m.StoreBuiltValueIfNeeded(v)
	}()
}

// ReadyValue returns the materialized value iff the state is ready.
func (m *Materializer[T]) ReadyValue() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateReady {
		return m.value, true
	}
	var zero T
	return zero, false
}

// GetOrBuild returns the ready value, waiting for an in-flight build to
// finish, or performs the build inline (on the caller's goroutine) if the
// materializer was still empty.
func (m *Materializer[T]) GetOrBuild() T {
	m.mu.Lock()
	switch m.state {
	case stateReady:
		v := m.value
		m.mu.Unlock()
		return v
	case stateBuilding:
		for m.state == stateBuilding {
			m.cond.Wait()
		}
		v := m.value
		m.mu.Unlock()
		return v
	default: // stateEmpty
		m.state = stateBuilding
		m.mu.Unlock()

		v := m.build()
		m.StoreBuiltValueIfNeeded(v)
		return v
	}
}

// StoreBuiltValueIfNeeded idempotently transitions to ready with v and
// wakes every waiter. Calling it more than once (e.g. from both a
// background build and a concurrent inline build that raced it) is safe;
// only the first call's value is kept.
func (m *Materializer[T]) StoreBuiltValueIfNeeded(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateReady {
		return
	}
	m.value = v
	m.state = stateReady
	m.cond.Broadcast()
}

// IsReady reports whether the value has been materialized, without
// blocking.
func (m *Materializer[T]) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateReady
}
