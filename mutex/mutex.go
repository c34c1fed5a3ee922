// Package mutex provides a mutual exclusion lock that grants ownership to
// waiters strictly in arrival order.
//
// Unlike sync.Mutex there is no starvation mode or barging: once the lock is
// held, every Lock call queues and ownership is handed over directly by Unlock
// to the oldest waiter. The lock is not reentrant.
package mutex

import "sync"

type Mutex struct {
	mu     sync.Mutex
	locked bool
	queue  []chan struct{}
}

// Lock blocks until the caller owns the mutex.
func (m *Mutex) Lock() {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return
	}
	turn := make(chan struct{})
	m.queue = append(m.queue, turn)
	m.mu.Unlock()

	<-turn // ownership is handed over by Unlock, locked stays true
}

// TryLock acquires the mutex only if it is free.
func (m *Mutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

// Unlock passes ownership to the longest waiting caller, or frees the mutex
// when nobody is waiting.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.locked {
		panic("mutex: unlock of unlocked mutex")
	}

	if len(m.queue) == 0 {
		m.locked = false
		return
	}

	next := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	close(next)
}

// Waiting returns the number of callers blocked in Lock.
func (m *Mutex) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunExclusive runs f while holding the mutex. The mutex is released when f
// returns or panics.
func (m *Mutex) RunExclusive(f func() error) error {
	m.Lock()
	defer m.Unlock()
	return f()
}

// Exclusive is RunExclusive for functions that produce a value.
func Exclusive[T any](m *Mutex, f func() (T, error)) (T, error) {
	m.Lock()
	defer m.Unlock()
	return f()
}
