package dynlist

import (
	"iter"
	"unsafe"

	"github.com/tomBoddaert/dynode"
	"github.com/tomBoddaert/dynode/alloc"
)

// AnyList is a doubly linked list whose elements are values of mixed
// concrete types widened to the interface I. Each node carries the
// descriptor of its own concrete type, so elements of different sizes and
// alignments coexist in one list.
type AnyList[I any] struct {
	core core[dynode.Dyn[I]]
}

// NewAny creates an empty widened list drawing nodes from a. A nil
// allocator selects alloc.Global.
func NewAny[I any](a alloc.Allocator) *AnyList[I] {
	return &AnyList[I]{core: newCore[dynode.Dyn[I]](a)}
}

// Len returns the number of elements.
func (l *AnyList[I]) Len() int { return l.core.size }

// IsEmpty reports whether the list has no elements.
func (l *AnyList[I]) IsEmpty() bool { return l.core.size == 0 }

// CloneInto copies the elements, front to back, into a new list drawing
// nodes from a. Each node keeps its concrete type's descriptor. A nil
// allocator selects alloc.Global.
func (l *AnyList[I]) CloneInto(a alloc.Allocator) (*AnyList[I], error) {
	out := NewAny[I](a)
	if err := cloneInto(&l.core, &out.core); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// PushBack appends a widened value. Obtain one with dynode.Widen.
func (l *AnyList[I]) PushBack(w dynode.Widened[I]) error {
	if err := l.core.guard(); err != nil {
		return err
	}
	n, err := dynode.AllocateWidened[links](l.core.alloc, w)
	if err != nil {
		return err
	}
	l.core.linkBack(n)
	return nil
}

// PushFront prepends a widened value.
func (l *AnyList[I]) PushFront(w dynode.Widened[I]) error {
	if err := l.core.guard(); err != nil {
		return err
	}
	n, err := dynode.AllocateWidened[links](l.core.alloc, w)
	if err != nil {
		return err
	}
	l.core.linkFront(n)
	return nil
}

// PopFront removes the first element and returns it as I.
func (l *AnyList[I]) PopFront() (I, bool) {
	n, ok := l.core.unlinkFront()
	if !ok {
		var zero I
		return zero, false
	}
	v := dynode.Lift(n)
	n.Deallocate(l.core.alloc)
	return v, true
}

// PopBack removes the last element and returns it as I.
func (l *AnyList[I]) PopBack() (I, bool) {
	n, ok := l.core.unlinkBack()
	if !ok {
		var zero I
		return zero, false
	}
	v := dynode.Lift(n)
	n.Deallocate(l.core.alloc)
	return v, true
}

// All iterates front to back.
func (l *AnyList[I]) All() iter.Seq[I] {
	return func(yield func(I) bool) {
		l.core.walk(func(p unsafe.Pointer) bool {
			return yield(dynode.Lift(l.core.node(p)))
		})
	}
}

// Backward iterates back to front.
func (l *AnyList[I]) Backward() iter.Seq[I] {
	return func(yield func(I) bool) {
		l.core.walkBack(func(p unsafe.Pointer) bool {
			return yield(dynode.Lift(l.core.node(p)))
		})
	}
}

// Close destroys and releases every remaining element. Idempotent.
func (l *AnyList[I]) Close() error { return l.core.close() }
