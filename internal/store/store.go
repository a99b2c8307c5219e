package store

import (
	"reflect"
	"sync"
)

// Kind discriminates the entity families the store tracks.
type Kind string

const (
	KindOrder     Kind = "order"
	KindComplaint Kind = "complaint"
)

// Key identifies one tracked entity.
type Key struct {
	Kind Kind
	ID   string
}

// Origin says how a published snapshot came to be.
type Origin string

const (
	OriginOptimistic Origin = "optimistic"
	OriginReconciled Origin = "reconciled"
)

// Event is delivered to subscribers whenever a tracked entity changes.
type Event struct {
	Key      Key
	Origin   Origin
	Snapshot interface{}
}

type entry struct {
	snapshot   interface{}
	optimistic bool // snapshot carries an unreconciled local patch
	inFlight   bool // a transition with side effects is running
}

// Store is the shared last-known-good view of every open order and complaint.
// Optimistic patches win until the next reconciliation; reconciliation is
// last-write-wins from the server. Subscribers are notified on every change
// except a reconcile that matches the current snapshot exactly.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	subs    []chan Event
}

func New() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

// Get returns the current snapshot, or nil when the entity is not tracked.
func (s *Store) Get(key Key) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	return e.snapshot
}

// Keys lists every tracked entity, for full reconcile sweeps.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	return out
}

// ApplyOptimistic records a locally-known-good snapshot immediately after a
// transition step completes, ahead of server confirmation.
func (s *Store) ApplyOptimistic(key Key, snapshot interface{}) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.snapshot = snapshot
	e.optimistic = true
	subs := append([]chan Event{}, s.subs...)
	s.mu.Unlock()

	publish(subs, Event{Key: key, Origin: OriginOptimistic, Snapshot: snapshot})
}

// Reconcile replaces any optimistic patch with server truth. When the fresh
// snapshot equals the current one the store stays silent so views do not
// re-render ("flash") for a no-op refresh.
func (s *Store) Reconcile(key Key, fresh interface{}) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	unchanged := e.snapshot != nil && reflect.DeepEqual(e.snapshot, fresh)
	e.snapshot = fresh
	e.optimistic = false
	subs := append([]chan Event{}, s.subs...)
	s.mu.Unlock()

	if unchanged {
		return
	}
	publish(subs, Event{Key: key, Origin: OriginReconciled, Snapshot: fresh})
}

// Forget drops an entity from the store, e.g. when its detail view closes.
func (s *Store) Forget(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// BeginFlight marks a transition as in progress for the entity. It returns
// false when another transition is already running, implementing the
// at-most-one-in-flight rule.
func (s *Store) BeginFlight(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	if e.inFlight {
		return false
	}
	e.inFlight = true
	return true
}

// EndFlight clears the in-progress mark.
func (s *Store) EndFlight(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.inFlight = false
	}
}

// InFlight reports whether a transition is currently running for the entity.
func (s *Store) InFlight(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return ok && e.inFlight
}

// Subscribe returns a channel receiving every store change. The channel is
// buffered; a subscriber that falls behind loses the oldest notifications
// rather than blocking writers.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func publish(subs []chan Event, ev Event) {
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// drop oldest, then retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
