package dynlist

import (
	"iter"
	"unsafe"

	"github.com/tomBoddaert/dynode"
	"github.com/tomBoddaert/dynode/alloc"
)

// List is a doubly linked list of T.
type List[T any] struct {
	core core[dynode.Sized[T]]
}

// New creates an empty list drawing nodes from a. A nil allocator selects
// alloc.Global.
func New[T any](a alloc.Allocator) *List[T] {
	return &List[T]{core: newCore[dynode.Sized[T]](a)}
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.core.size }

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool { return l.core.size == 0 }

// CloneInto copies the elements, front to back, into a new list drawing
// nodes from a. A nil allocator selects alloc.Global.
func (l *List[T]) CloneInto(a alloc.Allocator) (*List[T], error) {
	out := New[T](a)
	if err := cloneInto(&l.core, &out.core); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// PushBack appends v.
func (l *List[T]) PushBack(v T) error {
	if err := l.core.guard(); err != nil {
		return err
	}
	n, err := dynode.AllocateSized[links, T](l.core.alloc)
	if err != nil {
		return err
	}
	*dynode.Value(n) = v
	l.core.linkBack(n)
	return nil
}

// PushFront prepends v.
func (l *List[T]) PushFront(v T) error {
	if err := l.core.guard(); err != nil {
		return err
	}
	n, err := dynode.AllocateSized[links, T](l.core.alloc)
	if err != nil {
		return err
	}
	*dynode.Value(n) = v
	l.core.linkFront(n)
	return nil
}

// PopFront removes and returns the first element. It reports false on an
// empty list and stays false no matter how often it is called.
func (l *List[T]) PopFront() (T, bool) {
	n, ok := l.core.unlinkFront()
	if !ok {
		var zero T
		return zero, false
	}
	v := *dynode.Value(n)
	n.Deallocate(l.core.alloc)
	return v, true
}

// PopBack removes and returns the last element.
func (l *List[T]) PopBack() (T, bool) {
	n, ok := l.core.unlinkBack()
	if !ok {
		var zero T
		return zero, false
	}
	v := *dynode.Value(n)
	n.Deallocate(l.core.alloc)
	return v, true
}

// Front returns a copy of the first element without removing it.
func (l *List[T]) Front() (T, bool) {
	if l.core.front == nil {
		var zero T
		return zero, false
	}
	return *dynode.Value(l.core.node(l.core.front)), true
}

// Back returns a copy of the last element without removing it.
func (l *List[T]) Back() (T, bool) {
	if l.core.back == nil {
		var zero T
		return zero, false
	}
	return *dynode.Value(l.core.node(l.core.back)), true
}

// All iterates front to back over the elements present when iteration
// starts.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.core.walk(func(p unsafe.Pointer) bool {
			return yield(*dynode.Value(l.core.node(p)))
		})
	}
}

// Backward iterates back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.core.walkBack(func(p unsafe.Pointer) bool {
			return yield(*dynode.Value(l.core.node(p)))
		})
	}
}

// Close destroys and releases every remaining element. See the package
// documentation for destruction failure semantics. Close is idempotent.
func (l *List[T]) Close() error { return l.core.close() }

// UninitNode is a list node whose payload has not been written yet. It is
// not visible in the list until Insert.
type UninitNode[T any] struct {
	inner *dynode.MaybeUninitNode[links, dynode.Sized[T]]
}

// UninitPushBack allocates a node destined for the back of the list.
func (l *List[T]) UninitPushBack() (UninitNode[T], error) {
	if err := l.core.guard(); err != nil {
		return UninitNode[T]{}, err
	}
	m, err := dynode.UninitSized[links, T](backInserter[dynode.Sized[T]]{c: &l.core})
	if err != nil {
		return UninitNode[T]{}, err
	}
	return UninitNode[T]{inner: m}, nil
}

// UninitPushFront allocates a node destined for the front of the list.
func (l *List[T]) UninitPushFront() (UninitNode[T], error) {
	if err := l.core.guard(); err != nil {
		return UninitNode[T]{}, err
	}
	m, err := dynode.UninitSized[links, T](frontInserter[dynode.Sized[T]]{c: &l.core})
	if err != nil {
		return UninitNode[T]{}, err
	}
	return UninitNode[T]{inner: m}, nil
}

// Ptr returns the payload for initialization.
func (u UninitNode[T]) Ptr() *T { return (*T)(u.inner.ValuePtr()) }

// Insert links the initialized node into the list.
func (u UninitNode[T]) Insert() { u.inner.Insert() }

// Discard releases the node without inserting it. Safe to defer; it does
// nothing after Insert.
func (u UninitNode[T]) Discard() { u.inner.Discard() }
