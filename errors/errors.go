package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout   Phase = "layout"   // combined layout computation
	PhaseAllocate Phase = "allocate" // allocator requests
	PhaseWiden    Phase = "widen"    // widening conversions
	PhaseTeardown Phase = "teardown" // structure teardown
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow      Kind = "overflow"       // arithmetic exceeds representable size
	KindOutOfMemory   Kind = "out_of_memory"  // allocator cannot satisfy the request
	KindExhausted     Kind = "exhausted"      // fixed-capacity region is full
	KindInvalidLength Kind = "invalid_length" // negative or nonsensical element count
	KindMismatch      Kind = "mismatch"       // value does not satisfy the capability set
	KindDestruction   Kind = "destruction"    // payload destruction failed mid-teardown
	KindClosed        Kind = "closed"         // operation on a released resource
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any    // offending value, if one exists (recovered panic, bad length)
	Cause  error  // underlying error, if any
	Phase  Phase  // where the error occurred
	Kind   Kind   // error category
	Detail string // human-readable context
	Size   uintptr
	Align  uintptr
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Size != 0 || e.Align != 0 {
		fmt.Fprintf(&b, " (size: %d, align: %d)", e.Size, e.Align)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is matching. Only Phase and Kind participate in
// matching, so these carry no context.
var (
	ErrLayoutOverflow = &Error{Phase: PhaseLayout, Kind: KindOverflow}
	ErrOutOfMemory    = &Error{Phase: PhaseAllocate, Kind: KindOutOfMemory}
	ErrExhausted      = &Error{Phase: PhaseAllocate, Kind: KindExhausted}
	ErrInvalidLength  = &Error{Phase: PhaseLayout, Kind: KindInvalidLength}
	ErrMismatch       = &Error{Phase: PhaseWiden, Kind: KindMismatch}
	ErrDestruction    = &Error{Phase: PhaseTeardown, Kind: KindDestruction}
	ErrClosed         = &Error{Phase: PhaseAllocate, Kind: KindClosed}
)

// Convenience constructors for common error patterns

// LayoutOverflow creates an overflow error from a combined layout computation
func LayoutOverflow(detail string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindOverflow,
		Detail: detail,
	}
}

// OutOfMemory creates an allocation failure error for the given layout
func OutOfMemory(size, align uintptr) *Error {
	return &Error{
		Phase: PhaseAllocate,
		Kind:  KindOutOfMemory,
		Size:  size,
		Align: align,
	}
}

// Exhausted creates an error for a fixed-capacity allocator that is full
func Exhausted(size, align, capacity uintptr) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindExhausted,
		Size:   size,
		Align:  align,
		Detail: fmt.Sprintf("arena capacity %d exceeded", capacity),
	}
}

// InvalidLength creates an error for a bad element count
func InvalidLength(length int) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindInvalidLength,
		Detail: fmt.Sprintf("invalid element count %d", length),
		Value:  length,
	}
}

// Mismatch creates an error for a value that does not satisfy a capability set
func Mismatch(goType, capability string) *Error {
	return &Error{
		Phase:  PhaseWiden,
		Kind:   KindMismatch,
		Detail: fmt.Sprintf("%s does not implement %s", goType, capability),
	}
}

// Destruction creates an error from a recovered payload-destruction panic
func Destruction(recovered any) *Error {
	err := &Error{
		Phase:  PhaseTeardown,
		Kind:   KindDestruction,
		Detail: fmt.Sprintf("payload destruction panicked: %v", recovered),
		Value:  recovered,
	}
	if cause, ok := recovered.(error); ok {
		err.Cause = cause
	}
	return err
}

// Closed creates an error for an operation on a released allocator
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s already closed", what),
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
