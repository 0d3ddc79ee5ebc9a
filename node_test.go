package dynode

import (
	"errors"
	"testing"

	"github.com/tomBoddaert/dynode/alloc"
	dyerrors "github.com/tomBoddaert/dynode/errors"
)

type listLinks struct {
	prev, next uintptr
}

func TestSizedNode(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())

	n, err := AllocateSized[listLinks, uint64](c)
	if err != nil {
		t.Fatal(err)
	}

	*n.Header() = listLinks{prev: 1, next: 2}
	*Value(n) = 0xfeedface

	if got := *n.Header(); got != (listLinks{prev: 1, next: 2}) {
		t.Fatalf("header = %+v", got)
	}
	if got := *Value(n); got != 0xfeedface {
		t.Fatalf("value = %#x", got)
	}
	if uintptr(n.ValuePtr())%8 != 0 {
		t.Fatalf("payload %p not aligned to 8", n.ValuePtr())
	}

	n.Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

func TestHeaderAndPayloadDoNotOverlap(t *testing.T) {
	n, err := AllocateSized[[3]byte, uint64](alloc.Global)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	*n.Header() = [3]byte{1, 2, 3}
	*Value(n) = ^uint64(0)
	if *n.Header() != [3]byte{1, 2, 3} {
		t.Fatal("payload write clobbered the header")
	}

	*n.Header() = [3]byte{9, 9, 9}
	if *Value(n) != ^uint64(0) {
		t.Fatal("header write clobbered the payload")
	}
}

func TestArrayNode(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())

	n, err := AllocateArray[listLinks, uint32](c, 5)
	if err != nil {
		t.Fatal(err)
	}

	if Len(n) != 5 {
		t.Fatalf("Len = %d, want 5", Len(n))
	}

	elems := Elems(n)
	for i := range elems {
		elems[i] = uint32(i * i)
	}
	for i, v := range Elems(n) {
		if v != uint32(i*i) {
			t.Fatalf("elem %d = %d, want %d", i, v, i*i)
		}
	}

	n.Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

func TestArrayNodeZeroLength(t *testing.T) {
	n, err := AllocateArray[listLinks, uint64](alloc.Global, 0)
	if err != nil {
		t.Fatal(err)
	}

	if Len(n) != 0 {
		t.Fatalf("Len = %d, want 0", Len(n))
	}
	if got := Elems(n); len(got) != 0 {
		t.Fatalf("Elems has %d entries", len(got))
	}

	n.Deallocate(alloc.Global)
}

func TestArrayNodeNegativeLength(t *testing.T) {
	_, err := AllocateArray[listLinks, uint64](alloc.Global, -1)
	if !errors.Is(err, dyerrors.ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

type area interface {
	Area() int
}

type square struct {
	side int
}

func (s square) Area() int { return s.side * s.side }

type rect struct {
	w, h int32
}

func (r rect) Area() int { return int(r.w) * int(r.h) }

func TestWidenedNode(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())

	w, err := Widen[area](square{side: 4})
	if err != nil {
		t.Fatal(err)
	}

	n, err := AllocateWidened[listLinks](c, w)
	if err != nil {
		t.Fatal(err)
	}
	*n.Header() = listLinks{prev: 3, next: 4}

	if got := Lift(n).Area(); got != 16 {
		t.Fatalf("Area = %d, want 16", got)
	}
	if got := *n.Header(); got != (listLinks{prev: 3, next: 4}) {
		t.Fatalf("header = %+v", got)
	}

	n.Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

// Nodes of the same header and interface but different concrete types must
// each recover their own payload layout for release.
func TestWidenedNodeMixedConcreteTypes(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())

	ws, err := Widen[area](square{side: 2})
	if err != nil {
		t.Fatal(err)
	}
	wr, err := Widen[area](rect{w: 3, h: 5})
	if err != nil {
		t.Fatal(err)
	}

	ns, err := AllocateWidened[listLinks](c, ws)
	if err != nil {
		t.Fatal(err)
	}
	nr, err := AllocateWidened[listLinks](c, wr)
	if err != nil {
		t.Fatal(err)
	}

	if Lift(ns).Area() != 4 || Lift(nr).Area() != 15 {
		t.Fatalf("Area = %d and %d, want 4 and 15", Lift(ns).Area(), Lift(nr).Area())
	}

	ns.Deallocate(c)
	nr.Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

func TestAllocateDesc(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())

	d, err := DescOf[area, square]()
	if err != nil {
		t.Fatal(err)
	}

	n, err := AllocateDesc[listLinks](c, d)
	if err != nil {
		t.Fatal(err)
	}
	*(*square)(n.ValuePtr()) = square{side: 6}

	if got := Lift(n).Area(); got != 36 {
		t.Fatalf("Area = %d, want 36", got)
	}

	n.Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

func TestDescOfMismatch(t *testing.T) {
	_, err := DescOf[area, uint32]()
	if !errors.Is(err, dyerrors.ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestCloneTo(t *testing.T) {
	src := alloc.NewCounting(alloc.NewHeap())
	dst := alloc.NewCounting(alloc.NewHeap())

	n, err := AllocateArray[listLinks, uint16](src, 3)
	if err != nil {
		t.Fatal(err)
	}
	copy(Elems(n), []uint16{7, 8, 9})

	m, err := n.CloneTo(dst)
	if err != nil {
		t.Fatal(err)
	}

	// The clone is an independent block.
	Elems(n)[0] = 0
	if got := Elems(m); got[0] != 7 || got[1] != 8 || got[2] != 9 {
		t.Fatalf("clone elems = %v", got)
	}
	if Len(m) != 3 {
		t.Fatalf("clone Len = %d, want 3", Len(m))
	}

	n.Deallocate(src)
	m.Deallocate(dst)
	if src.Live() != 0 || dst.Live() != 0 {
		t.Fatalf("leaked blocks: src=%d dst=%d", src.Live(), dst.Live())
	}
}

func TestFromValuePtrRoundTrip(t *testing.T) {
	n, err := AllocateSized[listLinks, int64](alloc.Global)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	*Value(n) = -77
	m := FromValuePtr[listLinks, Sized[int64]](n.ValuePtr())
	if m != n {
		t.Fatal("reconstructed handle differs")
	}
	if *Value(m) != -77 {
		t.Fatalf("value through reconstructed handle = %d", *Value(m))
	}
}
