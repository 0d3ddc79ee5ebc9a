package alloc

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/tomBoddaert/dynode/errors"
	"github.com/tomBoddaert/dynode/layout"
)

const wasmPageSize = 65536

// WasmArena is a linear allocator over the memory of an instantiated
// WebAssembly module, placing node structures inside a sandboxed guest
// memory region.
//
// The module declares its memory with equal minimum and maximum, so the
// backing buffer never grows and never moves; pointers into it stay valid
// until Close. Allocation bumps an offset; Deallocate only tracks the live
// count, and the arena rewinds to empty once every block has been released.
// Exhaustion is recoverable and reported as an error.
type WasmArena struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	buf     []byte
	off     uintptr
	live    int
	closed  bool
}

// NewWasmArena instantiates a memory-only WebAssembly module of the given
// page count (64 KiB each) and returns an arena over its linear memory.
func NewWasmArena(ctx context.Context, pages uint32) (*WasmArena, error) {
	if pages == 0 || pages > 65535 {
		return nil, fmt.Errorf("alloc: wasm arena pages must be in 1..65535, got %d", pages)
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())

	mod, err := r.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("alloc: instantiate wasm arena: %w", err)
	}

	buf, ok := mod.Memory().Read(0, pages*wasmPageSize)
	if !ok {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("alloc: wasm arena memory view out of range")
	}

	Logger().Debug("wasm arena created",
		zap.Uint32("pages", pages),
		zap.Int("bytes", len(buf)))

	return &WasmArena{runtime: r, buf: buf}, nil
}

func (a *WasmArena) Allocate(l layout.Layout) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, errors.Closed("wasm arena")
	}

	base := unsafe.Pointer(unsafe.SliceData(a.buf))
	start, err := layout.AlignUp(uintptr(base)+a.off, l.Align)
	if err != nil {
		return nil, err
	}
	rel := start - uintptr(base)

	if rel+l.Size > uintptr(len(a.buf)) {
		return nil, errors.Exhausted(l.Size, l.Align, uintptr(len(a.buf)))
	}

	a.off = rel + l.Size
	a.live++
	return unsafe.Add(base, rel), nil
}

func (a *WasmArena) Deallocate(_ unsafe.Pointer, _ layout.Layout) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.live == 0 {
		panic("alloc: deallocate on an empty wasm arena")
	}

	// Linear discipline: individual blocks are not reclaimed, but the
	// arena rewinds once everything has been released.
	a.live--
	if a.live == 0 {
		a.off = 0
	}
}

// Live returns the number of blocks allocated and not yet released.
func (a *WasmArena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Close releases the WebAssembly runtime. All pointers handed out by the
// arena become invalid.
func (a *WasmArena) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	live := a.live
	a.mu.Unlock()

	if live != 0 {
		Logger().Warn("closing wasm arena with live blocks", zap.Int("live", live))
	}
	return a.runtime.Close(ctx)
}

// memoryModule encodes a minimal binary module equivalent to
//
//	(module (memory (export "memory") pages pages))
//
// with matching minimum and maximum so the memory cannot grow.
func memoryModule(pages uint32) []byte {
	lim := append([]byte{0x01}, uleb128(pages)...) // limits flag: min and max present
	lim = append(lim, uleb128(pages)...)

	memSec := append([]byte{0x01}, lim...) // one memory
	expSec := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}

	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00} // magic + version
	bin = append(bin, 0x05, byte(len(memSec)))                    // memory section
	bin = append(bin, memSec...)
	bin = append(bin, 0x07, byte(len(expSec))) // export section
	bin = append(bin, expSec...)
	return bin
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}
