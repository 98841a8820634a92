package irq

import ksync "github.com/Mek101/meetixos-sub000/kernel/sync"

// VectorStats counts how a vector's dispatches have gone: how many times
// it fired and how many of those a registered handler did not resolve
// (including vectors with no handler registered at all).
type VectorStats struct {
	handled  ksync.Counter
	unsolved ksync.Counter
}

// Handled is the total number of times this vector fired.
func (s *VectorStats) Handled() uint64 {
	return s.handled.Load()
}

// Unsolved is the number of dispatches no handler resolved.
func (s *VectorStats) Unsolved() uint64 {
	return s.unsolved.Load()
}

func (s *VectorStats) recordDispatch(solved bool) {
	s.handled.Incr()
	if !solved {
		s.unsolved.Incr()
	}
}
