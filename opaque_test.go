package dynode

import (
	"testing"

	"github.com/tomBoddaert/dynode/alloc"
)

func TestHeaderOpaqueRoundTrip(t *testing.T) {
	n, err := AllocateSized[listLinks, uint64](alloc.Global)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	o := n.HeaderOpaque()
	back := Transparent[listLinks](o)
	if back != n {
		t.Fatal("opaque round trip changed the handle")
	}
}

func TestOpaqueValueAccess(t *testing.T) {
	n, err := AllocateSized[listLinks, uint64](alloc.Global)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	*Value(n) = 123
	o := n.HeaderOpaque()

	if o.ValuePtr() != n.ValuePtr() {
		t.Fatal("opaque handle has a different payload address")
	}
	if *OpaqueValue(o) != 123 {
		t.Fatalf("OpaqueValue = %d, want 123", *OpaqueValue(o))
	}

	*OpaqueValue(o) = 456
	if *Value(n) != 456 {
		t.Fatal("write through opaque handle not visible")
	}
}

func TestOpaqueArrayAccess(t *testing.T) {
	n, err := AllocateArray[listLinks, int32](alloc.Global, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	for i := range Elems(n) {
		Elems(n)[i] = int32(10 * i)
	}

	o := n.HeaderOpaque()
	if OpaqueLen(o) != 4 {
		t.Fatalf("OpaqueLen = %d, want 4", OpaqueLen(o))
	}
	for i, v := range OpaqueElems(o) {
		if v != int32(10*i) {
			t.Fatalf("elem %d = %d, want %d", i, v, 10*i)
		}
	}
}

func TestOpaqueLift(t *testing.T) {
	w, err := Widen[area](square{side: 3})
	if err != nil {
		t.Fatal(err)
	}
	n, err := AllocateWidened[listLinks](alloc.Global, w)
	if err != nil {
		t.Fatal(err)
	}
	defer n.Deallocate(alloc.Global)

	if got := OpaqueLift(n.HeaderOpaque()).Area(); got != 9 {
		t.Fatalf("Area = %d, want 9", got)
	}
}
