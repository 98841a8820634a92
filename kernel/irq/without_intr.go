package irq

import "github.com/Mek101/meetixos-sub000/kernel/cpu"

// disableInterruptsFn and enableInterruptsFn wrap the hardware toggles so
// tests can substitute no-op stand-ins; cpu.DisableInterrupts and
// cpu.EnableInterrupts have no Go body and only exist once linked against
// their assembly implementation.
var (
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
)

// WithoutInterrupts disables interrupts, runs fn, then re-enables them.
// Used to protect critical sections too short-lived to justify a spinlock
// but that must not be preempted by a handler touching the same state.
func WithoutInterrupts(fn func()) {
	disableInterruptsFn()
	defer enableInterruptsFn()
	fn()
}
