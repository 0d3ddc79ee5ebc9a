package dynode

import "unsafe"

// HeaderOpaqueNodePtr is a node handle that has forgotten its header type.
// It still reaches the payload and metadata, which sit at offsets that do
// not involve the header, but it cannot reach the header or release the
// block. Transparent restores the full handle.
//
// Structures use this to hand out references to nodes they own without
// exposing their link fields.
type HeaderOpaqueNodePtr[S Shape] struct {
	mid unsafe.Pointer
}

// HeaderOpaque forgets the handle's header type.
func (n NodePtr[H, S]) HeaderOpaque() HeaderOpaqueNodePtr[S] {
	return HeaderOpaqueNodePtr[S]{mid: n.mid}
}

// Transparent restores a full handle from a header-opaque one. H must be
// the header type the node was allocated with; the round trip through
// HeaderOpaque and Transparent yields the original handle.
func Transparent[H any, S Shape](n HeaderOpaqueNodePtr[S]) NodePtr[H, S] {
	return NodePtr[H, S]{mid: n.mid}
}

// ValuePtr returns the payload address.
func (n HeaderOpaqueNodePtr[S]) ValuePtr() unsafe.Pointer { return n.mid }

func (n HeaderOpaqueNodePtr[S]) metaPtr() unsafe.Pointer {
	var s S
	return unsafe.Add(n.mid, -int(s.metaLayout().Size))
}

// DropPayload runs the payload's destructor, if its type has one.
func (n HeaderOpaqueNodePtr[S]) DropPayload() {
	var s S
	s.dropValue(n.metaPtr(), n.mid)
}

// OpaqueValue returns a pointer to the payload of a sized node.
func OpaqueValue[T any](n HeaderOpaqueNodePtr[Sized[T]]) *T {
	return (*T)(n.mid)
}

// OpaqueLen returns the element count of an array node.
func OpaqueLen[T any](n HeaderOpaqueNodePtr[Array[T]]) int {
	return *(*int)(n.metaPtr())
}

// OpaqueElems returns the elements of an array node as a slice over the
// payload.
func OpaqueElems[T any](n HeaderOpaqueNodePtr[Array[T]]) []T {
	return unsafe.Slice((*T)(n.mid), OpaqueLen(n))
}

// OpaqueLift copies the payload of a widened node out as its interface.
func OpaqueLift[I any](n HeaderOpaqueNodePtr[Dyn[I]]) I {
	t := *(**dynTable)(n.metaPtr())
	return t.lift(n.mid).(I)
}
