package alloc

import (
	"sync"
	"unsafe"

	"github.com/tomBoddaert/dynode/layout"
)

// Counting wraps another allocator and tracks live blocks and bytes. Tests
// use it to verify that a structure releases every allocation it made, even
// when payload destruction misbehaves.
type Counting struct {
	inner Allocator

	mu        sync.Mutex
	live      int
	liveBytes uintptr
	allocs    int
	frees     int
}

// NewCounting wraps inner with allocation accounting.
func NewCounting(inner Allocator) *Counting {
	return &Counting{inner: inner}
}

func (c *Counting) Allocate(l layout.Layout) (unsafe.Pointer, error) {
	p, err := c.inner.Allocate(l)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.live++
	c.liveBytes += l.Size
	c.allocs++
	c.mu.Unlock()
	return p, nil
}

func (c *Counting) Deallocate(p unsafe.Pointer, l layout.Layout) {
	c.inner.Deallocate(p, l)

	c.mu.Lock()
	c.live--
	c.liveBytes -= l.Size
	c.frees++
	c.mu.Unlock()
}

// Live returns the number of blocks allocated and not yet released.
func (c *Counting) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// LiveBytes returns the payload bytes allocated and not yet released.
func (c *Counting) LiveBytes() uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveBytes
}

// Allocs returns the total number of Allocate calls that succeeded.
func (c *Counting) Allocs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocs
}

// Frees returns the total number of Deallocate calls.
func (c *Counting) Frees() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frees
}
