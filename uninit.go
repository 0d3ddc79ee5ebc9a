package dynode

import (
	"unsafe"

	"github.com/tomBoddaert/dynode/alloc"
)

// StructureHandle is the capability a structure grants for staged insertion:
// allocate a node through the structure's allocator, initialize it in place,
// then either link it in or give it back.
type StructureHandle[H any, S Shape] interface {
	// Insert links an initialized node into the structure, which takes
	// ownership of it.
	Insert(NodePtr[H, S])
	// Allocator returns the allocator the structure's nodes come from.
	Allocator() alloc.Allocator
	// Deallocate releases a node that was never inserted.
	Deallocate(NodePtr[H, S])
}

// MaybeUninitNode is a node that has been allocated for a structure but not
// yet linked into it. The caller initializes the payload through ValuePtr,
// then calls Insert exactly once; Discard releases the node instead if
// initialization is abandoned.
//
// Discard after Insert is a no-op, so the two compose as
//
//	m, err := dynode.UninitSized[...](handle)
//	if err != nil { ... }
//	defer m.Discard()
//	// initialize payload
//	m.Insert()
type MaybeUninitNode[H any, S Shape] struct {
	handle StructureHandle[H, S]
	node   NodePtr[H, S]
	spent  bool
}

// UninitSized allocates an uninitialized sized node for the structure.
func UninitSized[H, T any](h StructureHandle[H, Sized[T]]) (*MaybeUninitNode[H, Sized[T]], error) {
	n, err := AllocateSized[H, T](h.Allocator())
	if err != nil {
		return nil, err
	}
	return &MaybeUninitNode[H, Sized[T]]{handle: h, node: n}, nil
}

// UninitArray allocates an uninitialized array node of the given length for
// the structure.
func UninitArray[H, T any](h StructureHandle[H, Array[T]], length int) (*MaybeUninitNode[H, Array[T]], error) {
	n, err := AllocateArray[H, T](h.Allocator(), length)
	if err != nil {
		return nil, err
	}
	return &MaybeUninitNode[H, Array[T]]{handle: h, node: n}, nil
}

// UninitWidened allocates a node for the widened value. Unlike the other
// shapes the payload is written immediately; only the link into the
// structure is deferred.
func UninitWidened[H, I any](h StructureHandle[H, Dyn[I]], w Widened[I]) (*MaybeUninitNode[H, Dyn[I]], error) {
	n, err := AllocateWidened[H](h.Allocator(), w)
	if err != nil {
		return nil, err
	}
	return &MaybeUninitNode[H, Dyn[I]]{handle: h, node: n}, nil
}

// ValuePtr returns the payload address for initialization.
func (m *MaybeUninitNode[H, S]) ValuePtr() unsafe.Pointer {
	return m.node.ValuePtr()
}

// Node returns the underlying handle.
func (m *MaybeUninitNode[H, S]) Node() NodePtr[H, S] {
	return m.node
}

// Insert links the node into its structure. The payload must be initialized
// by now. Insert panics if the node was already inserted or discarded.
func (m *MaybeUninitNode[H, S]) Insert() {
	if m.spent {
		panic("dynode: insert on a spent node")
	}
	m.spent = true
	m.handle.Insert(m.node)
}

// Discard releases the node without inserting it. After Insert it does
// nothing, so it is safe to defer unconditionally.
func (m *MaybeUninitNode[H, S]) Discard() {
	if m.spent {
		return
	}
	m.spent = true
	m.handle.Deallocate(m.node)
}
