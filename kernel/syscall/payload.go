package syscall

import "github.com/Mek101/meetixos-sub000/kernel/obj"

// Payload is the fixed-shape argument block a system call carries across
// the boundary: the routine it targets, the object handle it operates on
// (if any) and up to six machine-word arguments, mirroring the
// six-register calling convention the original kernel's do_kern_call
// builds its SysCallPayload from.
type Payload struct {
	Class  Class
	FnID   uint16
	Handle obj.Handle
	Args   [6]uintptr

	// Result carries the routine's return value back to the caller once
	// Dispatch has run. It is meaningless until then.
	Result uintptr
}

// NewPayload builds a Payload for a call to class/fnID against handle,
// with args padded or truncated to six words.
func NewPayload(class Class, fnID uint16, handle obj.Handle, args ...uintptr) Payload {
	p := Payload{Class: class, FnID: fnID, Handle: handle}
	for i := 0; i < len(args) && i < len(p.Args); i++ {
		p.Args[i] = args[i]
	}
	return p
}
