package obj

// Use names one event a task can watch for on an object, or one event the
// kernel delivers to a watcher once it happens. Bits combine with bitwise
// OR when a task subscribes to more than one kind of event.
type Use uint16

const (
	// UseUnknown is only ever a zero value; it is never a valid watch
	// request or delivered event.
	UseUnknown Use = 0

	UseOpening     Use = 1 << (iota - 1)
	UseReadingData
	UseWritingData
	UseReadingInfo
	UseWritingInfo
	UseSending
	UseReceiving
	UseWatching
	UseDropping
	UseDeleting
)

// Has reports whether mask requests or reports use.
func (mask Use) Has(use Use) bool {
	return mask&use != 0
}

// With returns mask with use added.
func (mask Use) With(use Use) Use {
	return mask | use
}

// Without returns mask with use removed.
func (mask Use) Without(use Use) Use {
	return mask &^ use
}
