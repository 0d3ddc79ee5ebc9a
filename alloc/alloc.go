package alloc

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/tomBoddaert/dynode/layout"
)

// Allocator grants and releases raw memory blocks.
//
// Allocate returns a pointer to the start of a block satisfying the layout's
// size and alignment, or an error; it never returns a partially usable
// block. Deallocate releases a block previously returned by Allocate on the
// same allocator, passing the same layout. Releasing a block twice, or a
// pointer the allocator never returned, is a contract violation.
type Allocator interface {
	Allocate(l layout.Layout) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, l layout.Layout)
}

// Heap allocates each block as its own Go allocation, over-sized so the
// requested alignment can always be met. Live blocks are held in a registry,
// which keeps them visible to the Go runtime and lets double releases be
// detected.
//
// Exhaustion of the Go heap is unrecoverable: the runtime aborts the process
// rather than reporting failure, so Allocate on a Heap never returns an
// out-of-memory error.
type Heap struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
}

// Global is the default allocator.
var Global = NewHeap()

// NewHeap creates an empty heap allocator.
func NewHeap() *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer][]byte)}
}

func (h *Heap) Allocate(l layout.Layout) (unsafe.Pointer, error) {
	// Over-allocate by the alignment so an aligned start always exists.
	// A zero-size layout still gets a distinct, registered block.
	n := l.Size + l.Align
	buf := make([]byte, n)

	base := unsafe.Pointer(unsafe.SliceData(buf))
	off := uintptr(base) % l.Align
	if off != 0 {
		off = l.Align - off
	}
	p := unsafe.Add(base, off)

	h.mu.Lock()
	h.blocks[p] = buf
	h.mu.Unlock()

	Logger().Debug("heap allocate",
		zap.Uintptr("size", l.Size),
		zap.Uintptr("align", l.Align))
	return p, nil
}

func (h *Heap) Deallocate(p unsafe.Pointer, l layout.Layout) {
	h.mu.Lock()
	_, ok := h.blocks[p]
	if ok {
		delete(h.blocks, p)
	}
	h.mu.Unlock()

	if !ok {
		panic("alloc: deallocate of unknown or already released block")
	}

	Logger().Debug("heap deallocate",
		zap.Uintptr("size", l.Size),
		zap.Uintptr("align", l.Align))
}

// Live returns the number of blocks currently allocated and not released.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}
