// Package irq dispatches hardware exceptions and interrupts to registered
// handlers and tracks, per vector, how many times each fired and how many
// went unhandled.
package irq

import kfmt "github.com/Mek101/meetixos-sub000/kernel/kfmt/early"

// Regs is a snapshot of the general-purpose registers at the moment an
// exception or interrupt occurred.
type Regs struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64
}

// Print dumps the register values to the active console.
func (r *Regs) Print() {
	kfmt.Printf("RAX = %16x RBX = %16x\n", r.RAX, r.RBX)
	kfmt.Printf("RCX = %16x RDX = %16x\n", r.RCX, r.RDX)
	kfmt.Printf("RSI = %16x RDI = %16x\n", r.RSI, r.RDI)
	kfmt.Printf("RBP = %16x\n", r.RBP)
	kfmt.Printf("R8  = %16x R9  = %16x\n", r.R8, r.R9)
	kfmt.Printf("R10 = %16x R11 = %16x\n", r.R10, r.R11)
	kfmt.Printf("R12 = %16x R13 = %16x\n", r.R12, r.R13)
	kfmt.Printf("R14 = %16x R15 = %16x\n", r.R14, r.R15)
}

// Frame is the exception frame the CPU pushes to the stack automatically
// when an exception or interrupt occurs.
type Frame struct {
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// Print dumps the exception frame to the active console.
func (f *Frame) Print() {
	kfmt.Printf("RIP = %16x CS  = %16x\n", f.RIP, f.CS)
	kfmt.Printf("RSP = %16x SS  = %16x\n", f.RSP, f.SS)
	kfmt.Printf("RFL = %16x\n", f.RFlags)
}

// PageFaultCode decodes the error code the CPU pushes ahead of the Frame
// for PageFaultException, identifying which check failed and distinguishing
// a genuine protection violation from a mapping that is simply not present
// yet (the demand-paging case vmm.MapSingle defers until first access).
type PageFaultCode uint64

const (
	// PageFaultPresent is set when the faulting page was mapped but a
	// protection check against it failed; clear means no translation
	// exists for the faulting address at all.
	PageFaultPresent PageFaultCode = 1 << 0

	// PageFaultWrite is set when the fault was caused by a write, clear
	// for a read.
	PageFaultWrite PageFaultCode = 1 << 1

	// PageFaultUser is set when the fault occurred while running in
	// user, rather than supervisor, mode.
	PageFaultUser PageFaultCode = 1 << 2

	// PageFaultReservedWrite is set when the fault was caused by a
	// reserved page table bit being set to 1.
	PageFaultReservedWrite PageFaultCode = 1 << 3

	// PageFaultInstructionFetch is set when the fault was caused by an
	// instruction fetch; only meaningful on CPUs with NX support enabled.
	PageFaultInstructionFetch PageFaultCode = 1 << 4
)

// WasPresent reports whether the faulting address already had a mapping
// that failed a protection check, as opposed to no mapping at all.
func (c PageFaultCode) WasPresent() bool { return c&PageFaultPresent != 0 }

// WasWrite reports whether the fault was caused by a write access.
func (c PageFaultCode) WasWrite() bool { return c&PageFaultWrite != 0 }

// Print dumps the decoded error code bits to the active console.
func (c PageFaultCode) Print() {
	kfmt.Printf("present = %t write = %t user = %t\n", c.WasPresent(), c.WasWrite(), c&PageFaultUser != 0)
	kfmt.Printf("reservedWrite = %t instructionFetch = %t\n", c&PageFaultReservedWrite != 0, c&PageFaultInstructionFetch != 0)
}
