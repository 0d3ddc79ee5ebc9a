// Package alloc provides the allocator capability consumed by the node
// layer, together with several implementations.
//
// An Allocator grants and releases raw blocks described by a layout. The
// node layer is agnostic to which allocator backs it:
//
//   - Heap: the default. Each block is its own Go allocation, tracked in a
//     registry so blocks stay live and double releases are detected.
//   - Counting: wraps another allocator and counts live blocks and bytes.
//     Used by tests to verify that structures leak nothing.
//   - WasmArena: a linear allocator over the memory of an instantiated
//     WebAssembly module, placing node structures inside a sandboxed guest
//     memory region.
//
// # Memory visibility
//
// Blocks handed out by these allocators are not scanned by the garbage
// collector. A stored value must not be the sole reference to GC-managed
// memory (strings, slices, maps, pointers); value types made of plain data
// are always safe.
package alloc
