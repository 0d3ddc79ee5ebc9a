package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tomBoddaert/dynode/alloc"
	"github.com/tomBoddaert/dynode/dynlist"
)

func main() {
	var (
		pages       = flag.Uint("arena", 0, "Back the list with a wasm arena of N 64KiB pages (0 = Go heap)")
		words       = flag.String("push", "", "Initial elements (comma-separated)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(uint32(*pages), splitWords(*words)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(uint32(*pages), splitWords(*words)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitWords(s string) []string {
	if s == "" {
		return []string{"front", "middle", "back"}
	}
	return strings.Split(s, ",")
}

// newAllocator builds the backing allocator: the shared heap, or a wasm
// arena when pages is nonzero. The returned closer releases the arena.
func newAllocator(ctx context.Context, pages uint32) (*alloc.Counting, func() error, error) {
	if pages == 0 {
		return alloc.NewCounting(alloc.Global), func() error { return nil }, nil
	}
	arena, err := alloc.NewWasmArena(ctx, pages)
	if err != nil {
		return nil, nil, err
	}
	return alloc.NewCounting(arena), func() error { return arena.Close(ctx) }, nil
}

func run(pages uint32, words []string) error {
	ctx := context.Background()

	counting, closeArena, err := newAllocator(ctx, pages)
	if err != nil {
		return err
	}
	defer closeArena()

	l := dynlist.NewStrings(counting)
	defer l.Close()

	for _, w := range words {
		if err := l.PushBack(w); err != nil {
			return fmt.Errorf("push %q: %w", w, err)
		}
	}

	fmt.Printf("Elements: %d, live blocks: %d, live bytes: %d\n\n",
		l.Len(), counting.Live(), counting.LiveBytes())

	fmt.Println("Forward:")
	i := 0
	for s := range l.All() {
		fmt.Printf("  %d: %q\n", i, s)
		i++
	}

	fmt.Println("\nBackward:")
	for s := range l.Backward() {
		i--
		fmt.Printf("  %d: %q\n", i, s)
	}

	if s, ok := l.PopFront(); ok {
		fmt.Printf("\nPopped front: %q\n", s)
	}
	if s, ok := l.PopBack(); ok {
		fmt.Printf("Popped back: %q\n", s)
	}

	if err := l.Close(); err != nil {
		return fmt.Errorf("close list: %w", err)
	}
	fmt.Printf("\nAfter close: live blocks: %d\n", counting.Live())
	return nil
}
