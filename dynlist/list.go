package dynlist

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/tomBoddaert/dynode"
	"github.com/tomBoddaert/dynode/alloc"
	"github.com/tomBoddaert/dynode/errors"
)

// links is the node header: the payload addresses of the neighbors, nil at
// the ends. Stored inside unscanned node memory, which is fine because the
// blocks they address are kept alive by their allocator, not by these words.
type links struct {
	prev, next unsafe.Pointer
}

// core holds the shared list state and link discipline. The end pointers
// collapse together: a list is empty exactly when both are nil, and a
// single-element list has both pointing at the same node.
type core[S dynode.Shape] struct {
	alloc  alloc.Allocator
	front  unsafe.Pointer
	back   unsafe.Pointer
	size   int
	closed bool
}

func newCore[S dynode.Shape](a alloc.Allocator) core[S] {
	if a == nil {
		a = alloc.Global
	}
	return core[S]{alloc: a}
}

func (c *core[S]) node(p unsafe.Pointer) dynode.NodePtr[links, S] {
	return dynode.FromValuePtr[links, S](p)
}

func (c *core[S]) guard() error {
	if c.closed {
		return errors.Closed("list")
	}
	return nil
}

func (c *core[S]) linkBack(n dynode.NodePtr[links, S]) {
	h := n.Header()
	h.next = nil
	h.prev = c.back
	if c.back != nil {
		c.node(c.back).Header().next = n.ValuePtr()
	} else {
		c.front = n.ValuePtr()
	}
	c.back = n.ValuePtr()
	c.size++
}

func (c *core[S]) linkFront(n dynode.NodePtr[links, S]) {
	h := n.Header()
	h.prev = nil
	h.next = c.front
	if c.front != nil {
		c.node(c.front).Header().prev = n.ValuePtr()
	} else {
		c.back = n.ValuePtr()
	}
	c.front = n.ValuePtr()
	c.size++
}

func (c *core[S]) unlinkFront() (dynode.NodePtr[links, S], bool) {
	if c.front == nil {
		return dynode.NodePtr[links, S]{}, false
	}
	n := c.node(c.front)
	next := n.Header().next
	c.front = next
	if next == nil {
		c.back = nil
	} else {
		c.node(next).Header().prev = nil
	}
	c.size--
	return n, true
}

func (c *core[S]) unlinkBack() (dynode.NodePtr[links, S], bool) {
	if c.back == nil {
		return dynode.NodePtr[links, S]{}, false
	}
	n := c.node(c.back)
	prev := n.Header().prev
	c.back = prev
	if prev == nil {
		c.front = nil
	} else {
		c.node(prev).Header().next = nil
	}
	c.size--
	return n, true
}

// close destroys and releases every remaining node. Destruction failures do
// not stop teardown; the first one is returned after all nodes are gone.
func (c *core[S]) close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var derr error
	for {
		n, ok := c.unlinkFront()
		if !ok {
			break
		}
		if err := dropNode(n); err != nil {
			if derr == nil {
				derr = err
			} else {
				Logger().Warn("additional destruction failure during teardown", zap.Error(err))
			}
		}
		n.Deallocate(c.alloc)
	}

	if derr != nil {
		Logger().Warn("list teardown completed with destruction failure", zap.Error(derr))
	}
	return derr
}

func dropNode[S dynode.Shape](n dynode.NodePtr[links, S]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Destruction(r)
		}
	}()
	n.DropPayload()
	return nil
}

// walk yields payload addresses from front to back between the ends captured
// at the first call. Nodes pushed past those ends during iteration are not
// visited.
func (c *core[S]) walk(yield func(unsafe.Pointer) bool) {
	front, back := c.front, c.back
	for p := front; p != nil; {
		if !yield(p) {
			return
		}
		if p == back {
			return
		}
		p = c.node(p).Header().next
	}
}

// walkBack is walk from back to front.
func (c *core[S]) walkBack(yield func(unsafe.Pointer) bool) {
	front, back := c.front, c.back
	for p := back; p != nil; {
		if !yield(p) {
			return
		}
		if p == front {
			return
		}
		p = c.node(p).Header().prev
	}
}

// cloneInto copies every node of src, front to back, into dst. On failure
// dst keeps the nodes cloned so far; callers close it.
func cloneInto[S dynode.Shape](src, dst *core[S]) error {
	var err error
	src.walk(func(p unsafe.Pointer) bool {
		var n dynode.NodePtr[links, S]
		n, err = src.node(p).CloneTo(dst.alloc)
		if err != nil {
			return false
		}
		dst.linkBack(n)
		return true
	})
	return err
}

// backInserter and frontInserter grant staged insertion at one end.

type backInserter[S dynode.Shape] struct{ c *core[S] }

func (b backInserter[S]) Insert(n dynode.NodePtr[links, S])     { b.c.linkBack(n) }
func (b backInserter[S]) Allocator() alloc.Allocator            { return b.c.alloc }
func (b backInserter[S]) Deallocate(n dynode.NodePtr[links, S]) { n.Deallocate(b.c.alloc) }

type frontInserter[S dynode.Shape] struct{ c *core[S] }

func (f frontInserter[S]) Insert(n dynode.NodePtr[links, S])     { f.c.linkFront(n) }
func (f frontInserter[S]) Allocator() alloc.Allocator            { return f.c.alloc }
func (f frontInserter[S]) Deallocate(n dynode.NodePtr[links, S]) { n.Deallocate(f.c.alloc) }
