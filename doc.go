// Package dynode provides single-pointer handles to manually managed nodes
// whose payload type can be erased behind an interface.
//
// A node is one allocation holding three parts in order: a caller-chosen
// header, a payload metadata word, and the payload itself. The handle stores
// exactly one address, the payload's, and recovers every other part from
// static offsets, so intrusive structures pay one word per link.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	dynode/          Root package with node handles, shapes and widening
//	├── layout/      Size and alignment arithmetic for combined allocations
//	├── alloc/       Allocator capability and implementations (heap, counting, wasm arena)
//	├── errors/      Structured error types for debugging
//	├── dynlist/     Doubly linked lists built on node handles
//	└── cmd/dynview/ Interactive terminal explorer for a string list
//
// # Shapes
//
// A payload's category is a compile-time tag:
//
//   - Sized[T]: a single value of a statically known type. No metadata.
//   - Array[T]: a contiguous run of T whose length is chosen per node. The
//     metadata word is the length.
//   - Dyn[I]: a value of some concrete type widened to interface I. The
//     metadata word points to an interned descriptor table.
//
// # Quick Start
//
// Allocate a node with an int header and a string-erased payload:
//
//	w, err := dynode.Widen[fmt.Stringer](myValue)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := dynode.AllocateWidened[int](alloc.Global, w)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer n.Deallocate(alloc.Global)
//
//	*n.Header() = 7
//	fmt.Println(dynode.Lift(n).String())
//
// # Ownership
//
// Handles are plain values with no liveness tracking. Deallocating a node
// invalidates every copy of its handle; using one afterwards is undefined.
// Structures that own nodes, such as the lists in dynlist, release them on
// Close and report payload destruction failures instead of aborting.
//
// # Memory Model
//
// Node blocks come from an alloc.Allocator and are not scanned by the Go
// garbage collector. Payloads must not be the sole reference to GC-managed
// memory; plain value types are always safe. See the alloc package for the
// full visibility rules.
package dynode
