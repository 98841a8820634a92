package syscall

import "github.com/Mek101/meetixos-sub000/kernel"

var (
	// ErrUnknownClass is returned when a Payload names a Class outside
	// the gate's table.
	ErrUnknownClass = &kernel.Error{Module: "syscall", Message: "unknown syscall class"}

	// ErrUnknownFn is returned when a Payload names an FnID the class's
	// row has no handler registered for.
	ErrUnknownFn = &kernel.Error{Module: "syscall", Message: "unknown syscall function id"}

	// ErrAlreadyRegistered is returned by Register when a slot is taken.
	ErrAlreadyRegistered = &kernel.Error{Module: "syscall", Message: "syscall function id already registered"}
)

// Fn handles one (class, fnID) routine. It reads its arguments from p.Args
// and p.Handle and writes its return value to p.Result.
type Fn func(p *Payload) *kernel.Error

// Gate routes an incoming Payload to the Fn registered for its
// (Class, FnID) pair. Each class owns one row of the table, sized lazily
// on first registration, the same fixed-size-table-keyed-by-small-integer
// layout the kernel's exception dispatch uses for interrupt numbers.
type Gate struct {
	table [numClasses][]Fn
}

// NewGate returns an empty Gate with no routines registered.
func NewGate() *Gate {
	return &Gate{}
}

// Register binds fn to the given class/fnID pair. It grows the class's
// row as needed and fails if that slot is already bound.
func (g *Gate) Register(class Class, fnID uint16, fn Fn) *kernel.Error {
	if !class.valid() {
		return ErrUnknownClass
	}

	row := g.table[class]
	if int(fnID) >= len(row) {
		grown := make([]Fn, fnID+1)
		copy(grown, row)
		row = grown
		g.table[class] = row
	}
	if row[fnID] != nil {
		return ErrAlreadyRegistered
	}
	row[fnID] = fn
	return nil
}

// Dispatch looks up the routine for p.Class/p.FnID and runs it, writing
// its result into p.Result on success.
func (g *Gate) Dispatch(p *Payload) *kernel.Error {
	if !p.Class.valid() {
		return ErrUnknownClass
	}

	row := g.table[p.Class]
	if int(p.FnID) >= len(row) || row[p.FnID] == nil {
		return ErrUnknownFn
	}
	return row[p.FnID](p)
}
