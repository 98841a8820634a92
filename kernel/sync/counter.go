package sync

import "sync/atomic"

// Counter is an atomic word counter used for statistics that must stay
// coherent without taking a lock, such as the per-vector interrupt counts
// kept in irq.VectorStats.
type Counter struct {
	value uint64
}

// Incr atomically increments the counter by one and returns the new value.
func (c *Counter) Incr() uint64 {
	return atomic.AddUint64(&c.value, 1)
}

// Load returns the current value of the counter.
func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}
