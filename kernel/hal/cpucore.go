package hal

import "github.com/Mek101/meetixos-sub000/kernel/cpu"

// HwCpuCore is the boundary between the architecture-independent kernel
// and the handful of operations only assembly can perform: toggling
// interrupts, halting, and driving the active page table. ActiveCpuCore
// implements it over the cpu package. Neither mem/vmm nor irq calls through
// it: irq's function variables wrap the cpu package directly, and mem/vmm
// has its own function-variable seams.
type HwCpuCore interface {
	EnableInterrupts()
	DisableInterrupts()
	Halt()
	FlushTLBEntry(virtAddr uintptr)
	SwitchPDT(physAddr uintptr)
	ActivePDT() uintptr
}

// amd64CpuCore implements HwCpuCore over the cpu package's assembly stubs.
type amd64CpuCore struct{}

func (amd64CpuCore) EnableInterrupts()              { cpu.EnableInterrupts() }
func (amd64CpuCore) DisableInterrupts()             { cpu.DisableInterrupts() }
func (amd64CpuCore) Halt()                          { cpu.Halt() }
func (amd64CpuCore) FlushTLBEntry(virtAddr uintptr) { cpu.FlushTLBEntry(virtAddr) }
func (amd64CpuCore) SwitchPDT(physAddr uintptr)     { cpu.SwitchPDT(physAddr) }
func (amd64CpuCore) ActivePDT() uintptr             { return cpu.ActivePDT() }

// ActiveCpuCore is the HwCpuCore implementation for the running hardware.
var ActiveCpuCore HwCpuCore = amd64CpuCore{}
