package dynode

import (
	"unsafe"

	"github.com/tomBoddaert/dynode/alloc"
	"github.com/tomBoddaert/dynode/layout"
)

// NodePtr is a handle to one node allocation holding a header H, a payload
// metadata word and a payload of shape S. The handle stores exactly one
// address, the payload's; the metadata word sits immediately before the
// payload and the header at a fixed negative offset, so every part is
// recovered without further indirection.
//
// A NodePtr is a plain value. Copies alias the same node, and none of them
// is invalidated individually: the node lives until Deallocate is called on
// any copy, after which all copies are dead.
type NodePtr[H any, S Shape] struct {
	mid unsafe.Pointer
}

// combinedOf merges H, the shape's metadata word and a payload layout.
func combinedOf[H any, S Shape](value layout.Layout) (layout.Combined, error) {
	var s S
	return layout.Combine(layout.Of[H](), s.metaLayout(), value, s.offsetAlign())
}

// valueOffsetOf is the constant offset of the payload within the block. It
// does not depend on the payload layout, only on H and S.
func valueOffsetOf[H any, S Shape]() uintptr {
	c, err := combinedOf[H, S](layout.Layout{Size: 0, Align: 1})
	if err != nil {
		panic("dynode: header layout exceeds maximum allocation size")
	}
	return c.ValueOffset
}

func allocate[H any, S Shape](a alloc.Allocator, value layout.Layout) (NodePtr[H, S], error) {
	c, err := combinedOf[H, S](value)
	if err != nil {
		return NodePtr[H, S]{}, err
	}
	p, err := a.Allocate(c.Whole)
	if err != nil {
		return NodePtr[H, S]{}, err
	}
	return NodePtr[H, S]{mid: unsafe.Add(p, c.ValueOffset)}, nil
}

// AllocateSized allocates a node for a single T. The header and payload are
// uninitialized.
func AllocateSized[H, T any](a alloc.Allocator) (NodePtr[H, Sized[T]], error) {
	return allocate[H, Sized[T]](a, layout.Of[T]())
}

// AllocateArray allocates a node for a run of length elements of T and
// records the length in the metadata word. The header and elements are
// uninitialized.
func AllocateArray[H, T any](a alloc.Allocator, length int) (NodePtr[H, Array[T]], error) {
	value, err := layout.Array[T](length)
	if err != nil {
		return NodePtr[H, Array[T]]{}, err
	}
	n, err := allocate[H, Array[T]](a, value)
	if err != nil {
		return NodePtr[H, Array[T]]{}, err
	}
	*(*int)(n.metaPtr()) = length
	return n, nil
}

// AllocateWidened allocates a node for the widened value, records its
// descriptor table in the metadata word and writes the value into the
// payload. Only the header is left uninitialized.
func AllocateWidened[H, I any](a alloc.Allocator, w Widened[I]) (NodePtr[H, Dyn[I]], error) {
	if w.table == nil {
		panic("dynode: zero Widened")
	}
	n, err := allocate[H, Dyn[I]](a, w.table.value)
	if err != nil {
		return NodePtr[H, Dyn[I]]{}, err
	}
	*(**dynTable)(n.metaPtr()) = w.table
	w.write(n.mid)
	return n, nil
}

// AllocateDesc allocates a node for a value of the described concrete type
// and records its descriptor table. The header and payload are
// uninitialized; the caller writes a value of the described type through
// ValuePtr before the payload is read.
func AllocateDesc[H, I any](a alloc.Allocator, d TypeDesc[I]) (NodePtr[H, Dyn[I]], error) {
	if d.table == nil {
		panic("dynode: zero TypeDesc")
	}
	n, err := allocate[H, Dyn[I]](a, d.table.value)
	if err != nil {
		return NodePtr[H, Dyn[I]]{}, err
	}
	*(**dynTable)(n.metaPtr()) = d.table
	return n, nil
}

// CloneTo allocates a node with the same metadata and payload bytes from a.
// The header is uninitialized. Meaningful only for payloads that are plain
// data, which node payloads are required to be.
func (n NodePtr[H, S]) CloneTo(a alloc.Allocator) (NodePtr[H, S], error) {
	var s S
	value := s.valueLayout(n.metaPtr())
	m, err := allocate[H, S](a, value)
	if err != nil {
		return NodePtr[H, S]{}, err
	}

	metaSize := s.metaLayout().Size
	copy(
		unsafe.Slice((*byte)(m.metaPtr()), metaSize),
		unsafe.Slice((*byte)(n.metaPtr()), metaSize),
	)
	copy(
		unsafe.Slice((*byte)(m.mid), value.Size),
		unsafe.Slice((*byte)(n.mid), value.Size),
	)
	return m, nil
}

// ValuePtr returns the payload address. The same address reconstructs the
// handle via FromValuePtr.
func (n NodePtr[H, S]) ValuePtr() unsafe.Pointer { return n.mid }

// FromValuePtr reconstructs a handle from an address previously returned by
// ValuePtr on a handle with the same header and shape types.
func FromValuePtr[H any, S Shape](p unsafe.Pointer) NodePtr[H, S] {
	return NodePtr[H, S]{mid: p}
}

// Header returns a pointer to the node's header.
func (n NodePtr[H, S]) Header() *H {
	return (*H)(n.base())
}

func (n NodePtr[H, S]) base() unsafe.Pointer {
	return unsafe.Add(n.mid, -int(valueOffsetOf[H, S]()))
}

func (n NodePtr[H, S]) metaPtr() unsafe.Pointer {
	var s S
	return unsafe.Add(n.mid, -int(s.metaLayout().Size))
}

// DropPayload runs the payload's destructor, if its type has one. It may
// panic; structure teardown recovers and reports the failure.
func (n NodePtr[H, S]) DropPayload() {
	var s S
	s.dropValue(n.metaPtr(), n.mid)
}

// Deallocate releases the node's block. The allocator must be the one the
// node was allocated from. Every copy of the handle is invalid afterwards.
func (n NodePtr[H, S]) Deallocate(a alloc.Allocator) {
	var s S
	c, err := combinedOf[H, S](s.valueLayout(n.metaPtr()))
	if err != nil {
		panic("dynode: corrupted node metadata")
	}
	a.Deallocate(n.base(), c.Whole)
}

// Value returns a pointer to the payload of a sized node.
func Value[H, T any](n NodePtr[H, Sized[T]]) *T {
	return (*T)(n.mid)
}

// Len returns the element count of an array node.
func Len[H, T any](n NodePtr[H, Array[T]]) int {
	return *(*int)(n.metaPtr())
}

// Elems returns the elements of an array node as a slice over the payload.
// The slice aliases the node and dies with it.
func Elems[H, T any](n NodePtr[H, Array[T]]) []T {
	return unsafe.Slice((*T)(n.mid), Len(n))
}

// Lift copies the payload of a widened node out as its interface.
func Lift[H, I any](n NodePtr[H, Dyn[I]]) I {
	t := *(**dynTable)(n.metaPtr())
	return t.lift(n.mid).(I)
}
