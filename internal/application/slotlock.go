package application

import "sync"

// slotLocks serializes booking decisions per meeting interval. Confirming a
// slot reads existing confirmed bookings and then writes; holding the
// interval's lock across that read-check-write keeps two concurrent
// confirmations for the same slot from both succeeding.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*slotLock)}
}

// Acquire blocks until the lock for key is held and returns the release
// function. Lock entries are reference counted and removed once released by
// the last holder.
func (s *slotLocks) Acquire(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &slotLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
