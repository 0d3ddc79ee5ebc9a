// Package layout provides size, alignment and offset calculations for node
// allocations.
//
// A node allocation packs a structural header, optional payload metadata and
// the payload itself into one contiguous block. This package computes where
// each part lives:
//   - the header begins at offset 0
//   - metadata, when present, sits flush against the payload, ending exactly
//     where the payload begins
//   - the payload is placed at the smallest offset past header and metadata
//     that satisfies the requested alignment
//   - the whole block's alignment is the maximum of its parts, and its size
//     is padded to that alignment
//
// All arithmetic is overflow-checked against MaxSize (half the address
// space). Overflow is reported as a layout error before any allocation is
// attempted; it is never silently truncated.
package layout
