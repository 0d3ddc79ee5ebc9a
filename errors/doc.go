// Package errors provides structured error types for the dynode library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes allocation context (size, alignment) and
// a cause chain.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.LayoutOverflow("array of 1<<62 elements")
//	err := errors.OutOfMemory(size, align)
//	err := errors.Destruction(recovered)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree,
// so the exported sentinels can be used as match targets:
//
//	if errors.Is(err, errors.ErrLayoutOverflow) { ... }
package errors
