// Command test-hotkey is a manual test for the global hotkey listener.
// Run it, then press the combo to see timestamped events and how long each
// hold or toggle lasted. Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--mode hold|toggle] [--keys ctrl,shift,r]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chaz8081/dictabar/internal/hotkey"
)

func main() {
	modeFlag := flag.String("mode", "hold", "hotkey mode: hold or toggle")
	keysFlag := flag.String("keys", "ctrl,shift,r", "comma-separated key combo")
	flag.Parse()

	mode, err := hotkey.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	keys := strings.Split(*keysFlag, ",")

	fmt.Printf("Listening for %s in %q mode...\n", strings.Join(keys, "+"), mode)
	fmt.Println("Press Ctrl+C to exit.")

	listener := hotkey.NewListener(keys, mode)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		listener.Stop()
	}()

	// Read events
	go func() {
		var started time.Time
		for ev := range listener.Events() {
			switch ev.Type {
			case hotkey.EventStart:
				started = ev.At
				fmt.Printf("%s >>> START (recording)\n", ev.At.Format("15:04:05.000"))
			case hotkey.EventStop:
				fmt.Printf("%s <<< STOP  (held %s)\n", ev.At.Format("15:04:05.000"), ev.At.Sub(started).Round(time.Millisecond))
			}
		}
		fmt.Println("Event channel closed.")
	}()

	// Blocks until stopped
	listener.Start()
	fmt.Println("Done.")
}
