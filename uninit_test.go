package dynode

import (
	"testing"

	"github.com/tomBoddaert/dynode/alloc"
)

// stackHandle collects inserted nodes; the test releases them itself.
type stackHandle struct {
	a     alloc.Allocator
	nodes []NodePtr[listLinks, Sized[uint64]]
}

func (s *stackHandle) Insert(n NodePtr[listLinks, Sized[uint64]]) {
	s.nodes = append(s.nodes, n)
}

func (s *stackHandle) Allocator() alloc.Allocator { return s.a }

func (s *stackHandle) Deallocate(n NodePtr[listLinks, Sized[uint64]]) {
	n.Deallocate(s.a)
}

func TestUninitInsert(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())
	h := &stackHandle{a: c}

	m, err := UninitSized[listLinks, uint64](h)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Discard()

	*(*uint64)(m.ValuePtr()) = 99
	m.Insert()

	if len(h.nodes) != 1 {
		t.Fatalf("structure holds %d nodes, want 1", len(h.nodes))
	}
	if *Value(h.nodes[0]) != 99 {
		t.Fatalf("inserted value = %d, want 99", *Value(h.nodes[0]))
	}

	h.nodes[0].Deallocate(c)
	if c.Live() != 0 {
		t.Fatalf("leaked %d blocks", c.Live())
	}
}

func TestUninitDiscardReleases(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())
	h := &stackHandle{a: c}

	m, err := UninitSized[listLinks, uint64](h)
	if err != nil {
		t.Fatal(err)
	}
	if c.Live() != 1 {
		t.Fatalf("Live() = %d, want 1", c.Live())
	}

	m.Discard()
	if c.Live() != 0 {
		t.Fatalf("Live() = %d after discard, want 0", c.Live())
	}
	if len(h.nodes) != 0 {
		t.Fatal("discarded node was inserted")
	}

	// Idempotent.
	m.Discard()
}

func TestUninitDiscardAfterInsertIsNoOp(t *testing.T) {
	c := alloc.NewCounting(alloc.NewHeap())
	h := &stackHandle{a: c}

	m, err := UninitSized[listLinks, uint64](h)
	if err != nil {
		t.Fatal(err)
	}
	m.Insert()
	m.Discard()

	if len(h.nodes) != 1 {
		t.Fatalf("structure holds %d nodes, want 1", len(h.nodes))
	}
	if c.Live() != 1 {
		t.Fatalf("Live() = %d, want 1", c.Live())
	}
	h.nodes[0].Deallocate(c)
}

func TestUninitDoubleInsertPanics(t *testing.T) {
	h := &stackHandle{a: alloc.Global}

	m, err := UninitSized[listLinks, uint64](h)
	if err != nil {
		t.Fatal(err)
	}
	m.Insert()
	defer h.nodes[0].Deallocate(alloc.Global)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on double insert")
		}
	}()
	m.Insert()
}
