package layout

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/tomBoddaert/dynode/errors"
)

// MaxSize is the largest representable allocation size: half the address
// space. Keeping sizes below this bound means offset arithmetic between any
// two addresses of one block cannot overflow a signed pointer-sized integer.
const MaxSize = ^uintptr(0) >> 1

type maxAligned struct {
	_ complex128
	_ uint64
	_ unsafe.Pointer
}

// MaxAlign is the strictest alignment any Go type requires. Payloads whose
// concrete type is unknown until runtime are placed at this alignment.
const MaxAlign = unsafe.Alignof(maxAligned{})

// Layout describes the size and alignment of one part of an allocation.
// Align is always a power of two and at least 1.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Of returns the layout of T.
func Of[T any]() Layout {
	var v T
	return Layout{Size: unsafe.Sizeof(v), Align: unsafe.Alignof(v)}
}

// New validates and returns a layout with the given size and alignment.
func New(size, align uintptr) (Layout, error) {
	if align == 0 || bits.OnesCount(uint(align)) != 1 {
		return Layout{}, errors.LayoutOverflow(fmt.Sprintf("alignment %d is not a power of two", align))
	}
	if size > MaxSize-(align-1) {
		return Layout{}, errors.LayoutOverflow(fmt.Sprintf("size %d exceeds maximum allocation size", size))
	}
	return Layout{Size: size, Align: align}, nil
}

// Array returns the layout of a contiguous run of length elements of T.
// A zero length is valid and yields a zero-size layout with T's alignment.
func Array[T any](length int) (Layout, error) {
	if length < 0 {
		return Layout{}, errors.InvalidLength(length)
	}

	elem := Of[T]()
	// Per-element sizes already include any tail padding Go inserts, so the
	// run is exactly size*length bytes.
	if elem.Size != 0 && uintptr(length) > MaxSize/elem.Size {
		return Layout{}, errors.LayoutOverflow(fmt.Sprintf("array of %d elements of size %d", length, elem.Size))
	}
	return Layout{Size: elem.Size * uintptr(length), Align: elem.Align}, nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two.
func AlignUp(n, align uintptr) (uintptr, error) {
	if n > MaxSize-(align-1) {
		return 0, errors.LayoutOverflow(fmt.Sprintf("offset %d cannot be aligned to %d", n, align))
	}
	return (n + align - 1) &^ (align - 1), nil
}

// Extend places next after l and returns the combined layout along with the
// offset of next within it. The offset is the smallest value at or past
// l.Size that satisfies next.Align. The combined size carries no trailing
// padding; see PadToAlign.
func (l Layout) Extend(next Layout) (Layout, uintptr, error) {
	align := max(l.Align, next.Align)

	offset, err := AlignUp(l.Size, next.Align)
	if err != nil {
		return Layout{}, 0, err
	}
	if next.Size > MaxSize-offset {
		return Layout{}, 0, errors.LayoutOverflow(fmt.Sprintf("extending layout of size %d by %d", l.Size, next.Size))
	}

	return Layout{Size: offset + next.Size, Align: align}, offset, nil
}

// PadToAlign rounds the size up to a multiple of the alignment. The result
// of New and Extend keeps sizes low enough that this cannot overflow.
func (l Layout) PadToAlign() Layout {
	padded := (l.Size + l.Align - 1) &^ (l.Align - 1)
	return Layout{Size: padded, Align: l.Align}
}

// Combined is the merged layout of {header, payload metadata, payload} as
// one allocation.
type Combined struct {
	// Whole covers the full block, size padded to the block alignment.
	Whole Layout
	// ValueOffset is where the payload begins. Metadata, when present,
	// occupies the meta.Size bytes ending exactly at ValueOffset.
	ValueOffset uintptr
}

// Combine merges a header, optional metadata (zero size when absent) and a
// payload into one allocation layout.
//
// offsetAlign is the alignment used to place the payload and must be at
// least value.Align. Callers with statically known payload types pass the
// payload's own alignment; callers placing runtime-determined payloads pass
// MaxAlign so that the payload offset does not depend on the concrete type.
func Combine(header, meta, value Layout, offsetAlign uintptr) (Combined, error) {
	prefix, _, err := header.Extend(meta)
	if err != nil {
		return Combined{}, err
	}

	valueOffset, err := AlignUp(prefix.Size, offsetAlign)
	if err != nil {
		return Combined{}, err
	}
	if value.Size > MaxSize-valueOffset {
		return Combined{}, errors.LayoutOverflow(fmt.Sprintf("payload of size %d at offset %d", value.Size, valueOffset))
	}

	whole := Layout{
		Size:  valueOffset + value.Size,
		Align: max(max(prefix.Align, offsetAlign), value.Align),
	}.PadToAlign()

	return Combined{Whole: whole, ValueOffset: valueOffset}, nil
}
