package dynode

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/tomBoddaert/dynode/errors"
	"github.com/tomBoddaert/dynode/layout"
)

// Shape is the compile-time category of a node's payload. The three shapes
// are Sized, Array and Dyn; the set is closed.
type Shape interface {
	// metaLayout is the layout of the metadata word, zero when absent.
	metaLayout() layout.Layout
	// offsetAlign is the alignment the payload offset is rounded to. It
	// never depends on runtime state, so the payload offset is a constant
	// of the handle's type.
	offsetAlign() uintptr
	// valueLayout recovers the payload layout from the metadata word.
	valueLayout(meta unsafe.Pointer) layout.Layout
	// dropValue runs payload destructors, if any. It may panic.
	dropValue(meta, value unsafe.Pointer)
}

// Dropper is implemented by payload types that need teardown work before
// their node is released. Structures call Drop once per payload when they
// are closed; a panic from Drop is reported as a destruction error after
// teardown completes.
type Dropper interface {
	Drop()
}

func dropAs[T any](p unsafe.Pointer) {
	if d, ok := any((*T)(p)).(Dropper); ok {
		d.Drop()
	}
}

// Sized is the shape of a single value of a statically known type. Such
// nodes carry no metadata.
type Sized[T any] struct{}

func (Sized[T]) metaLayout() layout.Layout { return layout.Layout{Size: 0, Align: 1} }
func (Sized[T]) offsetAlign() uintptr      { return layout.Of[T]().Align }

func (Sized[T]) valueLayout(unsafe.Pointer) layout.Layout { return layout.Of[T]() }

func (Sized[T]) dropValue(_, value unsafe.Pointer) { dropAs[T](value) }

// Array is the shape of a contiguous run of T whose length is chosen per
// node. The metadata word is the length.
type Array[T any] struct{}

func (Array[T]) metaLayout() layout.Layout { return layout.Of[int]() }
func (Array[T]) offsetAlign() uintptr      { return layout.Of[T]().Align }

func (Array[T]) valueLayout(meta unsafe.Pointer) layout.Layout {
	elem := layout.Of[T]()
	return layout.Layout{Size: elem.Size * uintptr(*(*int)(meta)), Align: elem.Align}
}

func (Array[T]) dropValue(meta, value unsafe.Pointer) {
	if _, ok := any((*T)(nil)).(Dropper); !ok {
		return
	}
	length := *(*int)(meta)
	size := layout.Of[T]().Size
	for i := 0; i < length; i++ {
		dropAs[T](unsafe.Add(value, uintptr(i)*size))
	}
}

// Dyn is the shape of a payload whose concrete type was widened to the
// interface I. The metadata word points to an interned descriptor table.
type Dyn[I any] struct{}

func (Dyn[I]) metaLayout() layout.Layout { return layout.Of[*dynTable]() }

// The payload offset must not depend on the concrete type, so widened
// payloads are always placed at the strictest alignment.
func (Dyn[I]) offsetAlign() uintptr { return layout.MaxAlign }

func (Dyn[I]) valueLayout(meta unsafe.Pointer) layout.Layout {
	return (*(**dynTable)(meta)).value
}

func (Dyn[I]) dropValue(meta, value unsafe.Pointer) {
	(*(**dynTable)(meta)).drop(value)
}

// dynTable describes one (interface, concrete type) widening. Tables are
// interned: node metadata stores bare *dynTable words inside memory the
// garbage collector does not scan, and the intern map is what keeps them
// reachable for the life of the process.
type dynTable struct {
	value layout.Layout
	lift  func(unsafe.Pointer) any
	drop  func(unsafe.Pointer)
}

type tableKey[I, T any] struct{}

var tables sync.Map // tableKey[I, T] -> *dynTable

func tableFor[I, T any]() *dynTable {
	key := any(tableKey[I, T]{})
	if t, ok := tables.Load(key); ok {
		return t.(*dynTable)
	}
	t := &dynTable{
		value: layout.Of[T](),
		lift:  func(p unsafe.Pointer) any { return *(*T)(p) },
		drop:  dropAs[T],
	}
	got, _ := tables.LoadOrStore(key, t)
	return got.(*dynTable)
}

// Widened is a value of some concrete type paired with the descriptor table
// of its widening to I, ready to be placed into a Dyn[I] node.
type Widened[I any] struct {
	table *dynTable
	write func(unsafe.Pointer)
}

// TypeDesc identifies one concrete type widened to I without carrying a
// value. It allocates nodes whose payload is written in place later.
type TypeDesc[I any] struct {
	table *dynTable
}

// DescOf returns the descriptor of T widened to I. It fails with a mismatch
// error when T does not implement I.
func DescOf[I any, T any]() (TypeDesc[I], error) {
	var v T
	if _, ok := any(v).(I); !ok {
		return TypeDesc[I]{}, errors.Mismatch(fmt.Sprintf("%T", v), reflect.TypeFor[I]().String())
	}
	return TypeDesc[I]{table: tableFor[I, T]()}, nil
}

// Widen checks that v satisfies the interface I and pairs it with the
// interned descriptor table for its concrete type. It fails with a mismatch
// error when v does not implement I.
func Widen[I any, T any](v T) (Widened[I], error) {
	if _, ok := any(v).(I); !ok {
		return Widened[I]{}, errors.Mismatch(fmt.Sprintf("%T", v), reflect.TypeFor[I]().String())
	}
	return Widened[I]{
		table: tableFor[I, T](),
		write: func(p unsafe.Pointer) { *(*T)(p) = v },
	}, nil
}
