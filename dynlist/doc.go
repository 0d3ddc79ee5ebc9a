// Package dynlist provides doubly linked lists built on single-pointer node
// handles, with one allocation per element and links stored inside the
// element's own block.
//
// Four flavors share one core:
//
//   - List[T]: elements of a single statically known type.
//   - SliceList[T]: each element is a run of T with a per-element length.
//   - StringList: each element is a string, bytes held inline in the node.
//   - AnyList[I]: elements of mixed concrete types widened to interface I.
//
// All flavors support pushing and popping at both ends, forward and backward
// iteration, and staged insertion where the payload is initialized in place
// before the node becomes visible.
//
// # Teardown
//
// Lists own their nodes. Close releases every remaining node and runs
// payload destructors for types implementing dynode.Dropper. A destructor
// panic does not stop teardown: the remaining nodes are still destroyed and
// released, and the first failure is returned as a destruction error.
//
// # Memory
//
// Nodes come from an alloc.Allocator and are invisible to the garbage
// collector. Element types must not be the sole reference to GC-managed
// memory; see the alloc package. StringList is safe because it copies string
// bytes into the node rather than storing the string header.
package dynlist
