package dynlist

import (
	"iter"
	"unsafe"

	"github.com/tomBoddaert/dynode"
	"github.com/tomBoddaert/dynode/alloc"
)

// SliceList is a doubly linked list whose elements are runs of T with a
// per-element length. The elements are stored inline in the nodes; pushes
// and pops copy.
type SliceList[T any] struct {
	core core[dynode.Array[T]]
}

// NewSlices creates an empty slice list drawing nodes from a. A nil
// allocator selects alloc.Global.
func NewSlices[T any](a alloc.Allocator) *SliceList[T] {
	return &SliceList[T]{core: newCore[dynode.Array[T]](a)}
}

// Len returns the number of elements, not the total element count of the
// stored runs.
func (l *SliceList[T]) Len() int { return l.core.size }

// IsEmpty reports whether the list has no elements.
func (l *SliceList[T]) IsEmpty() bool { return l.core.size == 0 }

// CloneInto copies the runs, front to back, into a new list drawing nodes
// from a. A nil allocator selects alloc.Global.
func (l *SliceList[T]) CloneInto(a alloc.Allocator) (*SliceList[T], error) {
	out := NewSlices[T](a)
	if err := cloneInto(&l.core, &out.core); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// PushBack appends a copy of vs. An empty slice is a valid element.
func (l *SliceList[T]) PushBack(vs []T) error {
	n, err := l.alloc(vs)
	if err != nil {
		return err
	}
	l.core.linkBack(n)
	return nil
}

// PushFront prepends a copy of vs.
func (l *SliceList[T]) PushFront(vs []T) error {
	n, err := l.alloc(vs)
	if err != nil {
		return err
	}
	l.core.linkFront(n)
	return nil
}

func (l *SliceList[T]) alloc(vs []T) (dynode.NodePtr[links, dynode.Array[T]], error) {
	if err := l.core.guard(); err != nil {
		return dynode.NodePtr[links, dynode.Array[T]]{}, err
	}
	n, err := dynode.AllocateArray[links, T](l.core.alloc, len(vs))
	if err != nil {
		return dynode.NodePtr[links, dynode.Array[T]]{}, err
	}
	copy(dynode.Elems(n), vs)
	return n, nil
}

// PushBackFunc appends a run of length elements produced by fill, writing
// them directly into the node.
func (l *SliceList[T]) PushBackFunc(length int, fill func(i int) T) error {
	u, err := l.UninitPushBack(length)
	if err != nil {
		return err
	}
	elems := u.Elems()
	for i := range elems {
		elems[i] = fill(i)
	}
	u.Insert()
	return nil
}

// PopFront removes the first element and returns a copy of its run.
func (l *SliceList[T]) PopFront() ([]T, bool) {
	n, ok := l.core.unlinkFront()
	if !ok {
		return nil, false
	}
	return l.take(n), true
}

// PopBack removes the last element and returns a copy of its run.
func (l *SliceList[T]) PopBack() ([]T, bool) {
	n, ok := l.core.unlinkBack()
	if !ok {
		return nil, false
	}
	return l.take(n), true
}

func (l *SliceList[T]) take(n dynode.NodePtr[links, dynode.Array[T]]) []T {
	out := make([]T, dynode.Len(n))
	copy(out, dynode.Elems(n))
	n.Deallocate(l.core.alloc)
	return out
}

// All iterates front to back, yielding a copy of each run.
func (l *SliceList[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		l.core.walk(func(p unsafe.Pointer) bool {
			elems := dynode.Elems(l.core.node(p))
			out := make([]T, len(elems))
			copy(out, elems)
			return yield(out)
		})
	}
}

// Backward iterates back to front, yielding a copy of each run.
func (l *SliceList[T]) Backward() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		l.core.walkBack(func(p unsafe.Pointer) bool {
			elems := dynode.Elems(l.core.node(p))
			out := make([]T, len(elems))
			copy(out, elems)
			return yield(out)
		})
	}
}

// Close destroys and releases every remaining element. Idempotent.
func (l *SliceList[T]) Close() error { return l.core.close() }

// UninitSlice is a run node whose elements have not been written yet.
type UninitSlice[T any] struct {
	inner *dynode.MaybeUninitNode[links, dynode.Array[T]]
}

// UninitPushBack allocates a run of the given length destined for the back
// of the list.
func (l *SliceList[T]) UninitPushBack(length int) (UninitSlice[T], error) {
	if err := l.core.guard(); err != nil {
		return UninitSlice[T]{}, err
	}
	m, err := dynode.UninitArray[links, T](backInserter[dynode.Array[T]]{c: &l.core}, length)
	if err != nil {
		return UninitSlice[T]{}, err
	}
	return UninitSlice[T]{inner: m}, nil
}

// Elems returns the uninitialized run for the caller to fill.
func (u UninitSlice[T]) Elems() []T {
	return dynode.Elems(u.inner.Node())
}

// Insert links the initialized node into the list.
func (u UninitSlice[T]) Insert() { u.inner.Insert() }

// Discard releases the node without inserting it.
func (u UninitSlice[T]) Discard() { u.inner.Discard() }
