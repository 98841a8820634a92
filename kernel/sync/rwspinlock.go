package sync

import "sync/atomic"

// writerLocked marks the internal state as exclusively held. Any other
// value is the number of concurrent readers currently holding the lock.
const writerLocked = -1

// RWSpinlock is a spin-based reader/writer lock for structures with a
// read-heavy workload, such as the VFS path cache. Multiple readers may
// hold the lock concurrently; a writer excludes everyone else.
type RWSpinlock struct {
	state int32
}

// RLock blocks until a shared (read) hold can be acquired.
func (l *RWSpinlock) RLock() {
	for {
		cur := atomic.LoadInt32(&l.state)
		if cur == writerLocked {
			yieldFn()
			continue
		}
		if atomic.CompareAndSwapInt32(&l.state, cur, cur+1) {
			return
		}
	}
}

// RUnlock releases one shared hold.
func (l *RWSpinlock) RUnlock() {
	atomic.AddInt32(&l.state, -1)
}

// Lock blocks until an exclusive (write) hold can be acquired.
func (l *RWSpinlock) Lock() {
	for !atomic.CompareAndSwapInt32(&l.state, 0, writerLocked) {
		yieldFn()
	}
}

// TryLock attempts to acquire an exclusive hold without blocking and
// reports whether it succeeded. Used by callers, such as the path cache's
// LRU promotion, that must never stall a reader on contention.
func (l *RWSpinlock) TryLock() bool {
	return atomic.CompareAndSwapInt32(&l.state, 0, writerLocked)
}

// Unlock releases an exclusive hold.
func (l *RWSpinlock) Unlock() {
	atomic.StoreInt32(&l.state, 0)
}

// WithRLock runs fn while holding a shared hold.
func (l *RWSpinlock) WithRLock(fn func()) {
	l.RLock()
	defer l.RUnlock()
	fn()
}

// WithLock runs fn while holding an exclusive hold.
func (l *RWSpinlock) WithLock(fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}
