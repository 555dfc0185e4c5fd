// Command test-inject is a manual test for text injection.
// It waits, then sends test text through the full fallback chain
// (accessibility, typing, clipboard paste) and reports which strategy won.
// Focus a text editor or terminal before the countdown finishes.
//
// Usage:
//
//	go run ./cmd/test-inject [--text "..."] [--newline] [--wait 3]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chaz8081/dictabar/internal/inject"
	"github.com/chaz8081/dictabar/internal/macos"
)

func main() {
	text := flag.String("text", "Hello from dictabar! café 👍🏽", "text to inject")
	newline := flag.Bool("newline", false, "append a trailing newline (ignored for terminals)")
	wait := flag.Int("wait", 3, "seconds to wait before injecting")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fmt.Printf("Will inject %q in %d seconds...\n", *text, *wait)
	fmt.Println("Focus a text field now!")

	for i := *wait; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	inj := inject.New(macos.NewBridges(), inject.DefaultInjectorOptions())
	out := inj.Process(inject.NewRequest(*text, inject.Options{AppendTrailingNewline: *newline}))

	if !out.Delivered {
		fmt.Printf("\nFailed: no strategy could insert text (target: %s)\n", out.Target)
		os.Exit(1)
	}
	fmt.Printf("\nDone! strategy=%s target=%s\n", out.Strategy, out.Target)
}
