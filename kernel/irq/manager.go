package irq

import ksync "github.com/Mek101/meetixos-sub000/kernel/sync"

// numVectors covers every IDT slot: the 32 reserved CPU exceptions plus
// the 224 interrupt vectors available past VectorOffset.
const numVectors = 256

// InterruptMgr owns the Go-side handler tables behind the IDT: one slot
// per vector, plus per-vector statistics. The actual IDT is loaded by the
// hal package; InterruptMgr is what its trampoline entries call into.
type InterruptMgr struct {
	mu        ksync.Spinlock
	handlers  [numVectors]Handler
	withCode  [numVectors]HandlerWithCode
	hasCode   [numVectors]bool
	stats     [numVectors]VectorStats
}

// NewInterruptMgr returns an InterruptMgr with no handlers registered.
func NewInterruptMgr() *InterruptMgr {
	return &InterruptMgr{}
}

// HandleException registers handler for vector, replacing and returning
// whatever was previously registered there (nil if nothing was).
func (m *InterruptMgr) HandleException(vector ExceptionNum, handler Handler) Handler {
	m.mu.Acquire()
	defer m.mu.Release()

	prev := m.handlers[vector]
	m.handlers[vector] = handler
	m.hasCode[vector] = false
	return prev
}

// HandleExceptionWithCode registers handler for vector as one of the
// exceptions that carries an error code ahead of the frame.
func (m *InterruptMgr) HandleExceptionWithCode(vector ExceptionNum, handler HandlerWithCode) HandlerWithCode {
	m.mu.Acquire()
	defer m.mu.Release()

	prev := m.withCode[vector]
	m.withCode[vector] = handler
	m.hasCode[vector] = true
	return prev
}

// Dispatch runs the handler registered for vector, recording statistics
// regardless of whether one was registered. It reports whether the
// condition was resolved.
func (m *InterruptMgr) Dispatch(vector uint8, frame *Frame, regs *Regs) bool {
	m.mu.Acquire()
	withCode := m.hasCode[vector]
	handler := m.handlers[vector]
	m.mu.Release()

	if withCode {
		return m.DispatchWithCode(vector, 0, frame, regs)
	}

	solved := handler != nil && handler(frame, regs)
	m.stats[vector].recordDispatch(solved)
	return solved
}

// DispatchWithCode runs the code-carrying handler registered for vector.
func (m *InterruptMgr) DispatchWithCode(vector uint8, code uint64, frame *Frame, regs *Regs) bool {
	m.mu.Acquire()
	handler := m.withCode[vector]
	m.mu.Release()

	solved := handler != nil && handler(code, frame, regs)
	m.stats[vector].recordDispatch(solved)
	return solved
}

// Stats returns a snapshot of vector's dispatch statistics.
func (m *InterruptMgr) Stats(vector uint8) VectorStats {
	return VectorStats{
		handled:  m.stats[vector].Handled(),
		unsolved: m.stats[vector].Unsolved(),
	}
}
