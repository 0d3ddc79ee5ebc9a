package alloc

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/tomBoddaert/dynode/layout"
)

func TestCountingTracksLiveBlocks(t *testing.T) {
	c := NewCounting(NewHeap())

	la := layout.Layout{Size: 8, Align: 8}
	lb := layout.Layout{Size: 24, Align: 4}

	a, err := c.Allocate(la)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Allocate(lb)
	if err != nil {
		t.Fatal(err)
	}

	if c.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", c.Live())
	}
	if c.LiveBytes() != 32 {
		t.Fatalf("LiveBytes() = %d, want 32", c.LiveBytes())
	}

	c.Deallocate(a, la)
	c.Deallocate(b, lb)

	if c.Live() != 0 || c.LiveBytes() != 0 {
		t.Fatalf("expected empty accounting, got live=%d bytes=%d", c.Live(), c.LiveBytes())
	}
	if c.Allocs() != 2 || c.Frees() != 2 {
		t.Fatalf("Allocs()=%d Frees()=%d, want 2 and 2", c.Allocs(), c.Frees())
	}
}

var errFail = errors.New("allocation refused")

type failingAllocator struct{}

func (failingAllocator) Allocate(layout.Layout) (unsafe.Pointer, error) {
	return nil, errFail
}

func (failingAllocator) Deallocate(unsafe.Pointer, layout.Layout) {}

func TestCountingIgnoresFailedAllocations(t *testing.T) {
	c := NewCounting(failingAllocator{})

	if _, err := c.Allocate(layout.Layout{Size: 8, Align: 8}); err == nil {
		t.Fatal("expected an error from the inner allocator")
	}
	if c.Allocs() != 0 || c.Live() != 0 {
		t.Fatalf("failed allocation was counted: allocs=%d live=%d", c.Allocs(), c.Live())
	}
}
