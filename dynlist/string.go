package dynlist

import (
	"iter"
	"unsafe"

	"github.com/tomBoddaert/dynode"
	"github.com/tomBoddaert/dynode/alloc"
)

// StringList is a doubly linked list of strings. The bytes live inline in
// the nodes, so elements never reference GC-managed memory.
type StringList struct {
	core core[dynode.Array[byte]]
}

// NewStrings creates an empty string list drawing nodes from a. A nil
// allocator selects alloc.Global.
func NewStrings(a alloc.Allocator) *StringList {
	return &StringList{core: newCore[dynode.Array[byte]](a)}
}

// Len returns the number of elements.
func (l *StringList) Len() int { return l.core.size }

// IsEmpty reports whether the list has no elements.
func (l *StringList) IsEmpty() bool { return l.core.size == 0 }

// CloneInto copies the elements, front to back, into a new list drawing
// nodes from a. A nil allocator selects alloc.Global.
func (l *StringList) CloneInto(a alloc.Allocator) (*StringList, error) {
	out := NewStrings(a)
	if err := cloneInto(&l.core, &out.core); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// PushBack appends s. The empty string is a valid element.
func (l *StringList) PushBack(s string) error {
	n, err := l.alloc(s)
	if err != nil {
		return err
	}
	l.core.linkBack(n)
	return nil
}

// PushFront prepends s.
func (l *StringList) PushFront(s string) error {
	n, err := l.alloc(s)
	if err != nil {
		return err
	}
	l.core.linkFront(n)
	return nil
}

func (l *StringList) alloc(s string) (dynode.NodePtr[links, dynode.Array[byte]], error) {
	if err := l.core.guard(); err != nil {
		return dynode.NodePtr[links, dynode.Array[byte]]{}, err
	}
	n, err := dynode.AllocateArray[links, byte](l.core.alloc, len(s))
	if err != nil {
		return dynode.NodePtr[links, dynode.Array[byte]]{}, err
	}
	copy(dynode.Elems(n), s)
	return n, nil
}

// PopFront removes and returns the first element.
func (l *StringList) PopFront() (string, bool) {
	n, ok := l.core.unlinkFront()
	if !ok {
		return "", false
	}
	s := string(dynode.Elems(n))
	n.Deallocate(l.core.alloc)
	return s, true
}

// PopBack removes and returns the last element.
func (l *StringList) PopBack() (string, bool) {
	n, ok := l.core.unlinkBack()
	if !ok {
		return "", false
	}
	s := string(dynode.Elems(n))
	n.Deallocate(l.core.alloc)
	return s, true
}

// Front returns the first element without removing it.
func (l *StringList) Front() (string, bool) {
	if l.core.front == nil {
		return "", false
	}
	return string(dynode.Elems(l.core.node(l.core.front))), true
}

// Back returns the last element without removing it.
func (l *StringList) Back() (string, bool) {
	if l.core.back == nil {
		return "", false
	}
	return string(dynode.Elems(l.core.node(l.core.back))), true
}

// All iterates front to back.
func (l *StringList) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		l.core.walk(func(p unsafe.Pointer) bool {
			return yield(string(dynode.Elems(l.core.node(p))))
		})
	}
}

// Backward iterates back to front.
func (l *StringList) Backward() iter.Seq[string] {
	return func(yield func(string) bool) {
		l.core.walkBack(func(p unsafe.Pointer) bool {
			return yield(string(dynode.Elems(l.core.node(p))))
		})
	}
}

// Close releases every remaining element. Idempotent.
func (l *StringList) Close() error { return l.core.close() }
