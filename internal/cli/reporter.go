// Package cli implements 4crypt's command-line front-end: flag parsing
// into a populated Configuration Record, password prompting, and
// status/error text rendering.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrCancelled is returned by a Reporter's callback to the engine once a
// SIGINT/SIGTERM has been observed, per spec.md §8: cancellation is only
// honored between checkpoint callbacks, by failing the call.
var ErrCancelled = errors.New("operation cancelled")

// stageCount is the fixed number of progress checkpoints the engine calls
// per operation (spec.md §4.5's "roughly 7 calls"), used to compute a
// stable pulse-step.
const stageCount = 7

// Reporter renders the engine's fixed-checkpoint progress callbacks as a
// single overwritten terminal line.
type Reporter struct {
	mu    sync.Mutex
	quiet bool
	seen  int
	label string
}

// NewReporter creates a new CLI progress reporter. If quiet is true, no
// progress is printed.
func NewReporter(quiet bool) *Reporter {
	return &Reporter{quiet: quiet}
}

// Callback returns an engine.ProgressFunc bound to this reporter; pass it
// directly to engine.Encrypt/Decrypt. It returns ErrCancelled once a
// SIGINT/SIGTERM has been observed, aborting the operation at the next
// checkpoint.
func (r *Reporter) Callback() func(any) error {
	return func(any) error {
		r.tick()
		if cancelRequested {
			return ErrCancelled
		}
		return nil
	}
}

func (r *Reporter) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen++
	if r.quiet {
		return
	}

	barWidth := 30
	filled := r.seen * barWidth / stageCount
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(os.Stderr, "\r[%s] %d/%d", bar, r.seen, stageCount)
}

// Finish prints a newline to move past the progress line.
func (r *Reporter) Finish() {
	if !r.quiet {
		fmt.Fprintln(os.Stderr)
	}
}

// PrintError prints an error message.
func (r *Reporter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintSuccess prints a success message.
func (r *Reporter) PrintSuccess(format string, args ...any) {
	if r.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
