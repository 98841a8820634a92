// Package obj implements the kernel-side object model: handles to kernel
// resources, the permission bits attached to them and the usage-event
// bitset tasks can watch for.
package obj

// GrantBit names one permission bit inside a Grants[T] bitfield. Bits are
// grouped in three blocks of seven: the object's owning user, the owning
// group, and everyone else, each block granting the same seven actions.
type GrantBit uint32

const (
	UserCanOpenIt GrantBit = 1 << iota
	UserCanReadData
	UserCanWriteData
	UserCanExecTraversData
	UserCanReadInfo
	UserCanWriteInfo
	UserCanSeeIt

	GroupCanOpenIt
	GroupCanReadData
	GroupCanWriteData
	GroupCanExecTraversData
	GroupCanReadInfo
	GroupCanWriteInfo
	GroupCanSeeIt

	OtherCanOpenIt
	OtherCanReadData
	OtherCanWriteData
	OtherCanExecTraversData
	OtherCanReadInfo
	OtherCanWriteInfo
	OtherCanSeeIt
)

// Kind marks a type usable as the Grants type parameter. The zero-size
// marker types below stand for the kernel object kinds that carry grants;
// the type parameter exists only to keep one caller's Dir grants from
// being assigned where File grants are expected, the same phantom-type
// trick used by pmm.SizeClass for frame sizes.
type Kind interface {
	objKind()
}

type (
	Dir        struct{}
	File       struct{}
	IpcChan    struct{}
	Link       struct{}
	MMap       struct{}
	OsRawMutex struct{}
)

func (Dir) objKind()        {}
func (File) objKind()       {}
func (IpcChan) objKind()    {}
func (Link) objKind()       {}
func (MMap) objKind()       {}
func (OsRawMutex) objKind() {}

// Grants holds the 21 permission bits of a T-kind kernel object.
type Grants[T Kind] struct {
	bits uint32
}

// NewGrants returns a zeroed Grants: every permission denied.
func NewGrants[T Kind]() Grants[T] {
	return Grants[T]{}
}

// GrantsFromRaw reinterprets raw as a Grants[T], as done when a handle's
// stored permission word crosses the syscall boundary.
func GrantsFromRaw[T Kind](raw uint32) Grants[T] {
	return Grants[T]{bits: raw}
}

// Raw returns the permission bits as a plain word, for storage in a
// Registry entry or for handing back across the syscall boundary.
func (g Grants[T]) Raw() uint32 {
	return uint32(g.bits)
}

// Enable grants the given bit.
func (g Grants[T]) Enable(bit GrantBit) Grants[T] {
	g.bits |= uint32(bit)
	return g
}

// Disable revokes the given bit.
func (g Grants[T]) Disable(bit GrantBit) Grants[T] {
	g.bits &^= uint32(bit)
	return g
}

// Set enables or disables bit according to allow.
func (g Grants[T]) Set(bit GrantBit, allow bool) Grants[T] {
	if allow {
		return g.Enable(bit)
	}
	return g.Disable(bit)
}

// Is reports whether bit is granted.
func (g Grants[T]) Is(bit GrantBit) bool {
	return g.bits&uint32(bit) != 0
}

// IsAnyOf reports whether at least one of bits is granted.
func (g Grants[T]) IsAnyOf(bits ...GrantBit) bool {
	for _, b := range bits {
		if g.Is(b) {
			return true
		}
	}
	return false
}

// IsAllOf reports whether every one of bits is granted.
func (g Grants[T]) IsAllOf(bits ...GrantBit) bool {
	for _, b := range bits {
		if !g.Is(b) {
			return false
		}
	}
	return true
}

// DefaultGrants returns the out-of-the-box permission profile for a
// T-kind object, matching the profile the original kernel assigns to
// newly created objects of that kind before a task narrows them down.
func DefaultGrants[T Kind]() Grants[T] {
	var zero T
	switch any(zero).(type) {
	case Dir:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Enable(UserCanExecTraversData).Enable(UserCanReadInfo).Enable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Disable(GroupCanWriteData).
			Enable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Enable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Enable(OtherCanOpenIt).Enable(OtherCanReadData).Disable(OtherCanWriteData).
			Enable(OtherCanExecTraversData).Enable(OtherCanReadInfo).Enable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	case File:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Enable(UserCanExecTraversData).Enable(UserCanReadInfo).Enable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Enable(GroupCanWriteData).
			Disable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Disable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Enable(OtherCanOpenIt).Enable(OtherCanReadData).Disable(OtherCanWriteData).
			Disable(OtherCanExecTraversData).Disable(OtherCanReadInfo).Disable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	case IpcChan:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Disable(UserCanExecTraversData).Enable(UserCanReadInfo).Disable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Enable(GroupCanWriteData).
			Disable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Disable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Enable(OtherCanOpenIt).Enable(OtherCanReadData).Enable(OtherCanWriteData).
			Disable(OtherCanExecTraversData).Enable(OtherCanReadInfo).Disable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	case Link:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Enable(UserCanExecTraversData).Enable(UserCanReadInfo).Enable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Enable(GroupCanWriteData).
			Enable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Disable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Enable(OtherCanOpenIt).Enable(OtherCanReadData).Disable(OtherCanWriteData).
			Enable(OtherCanExecTraversData).Enable(OtherCanReadInfo).Disable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	case MMap:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Disable(UserCanExecTraversData).Enable(UserCanReadInfo).Enable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Enable(GroupCanWriteData).
			Disable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Enable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Disable(OtherCanOpenIt).Enable(OtherCanReadData).Enable(OtherCanWriteData).
			Enable(OtherCanExecTraversData).Enable(OtherCanReadInfo).Disable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	case OsRawMutex:
		return NewGrants[T]().
			Enable(UserCanOpenIt).Enable(UserCanReadData).Enable(UserCanWriteData).
			Disable(UserCanExecTraversData).Enable(UserCanReadInfo).Enable(UserCanWriteInfo).Enable(UserCanSeeIt).
			Enable(GroupCanOpenIt).Enable(GroupCanReadData).Enable(GroupCanWriteData).
			Disable(GroupCanExecTraversData).Enable(GroupCanReadInfo).Disable(GroupCanWriteInfo).Enable(GroupCanSeeIt).
			Enable(OtherCanOpenIt).Enable(OtherCanReadData).Enable(OtherCanWriteData).
			Enable(OtherCanExecTraversData).Enable(OtherCanReadInfo).Disable(OtherCanWriteInfo).Enable(OtherCanSeeIt)
	default:
		return NewGrants[T]()
	}
}
