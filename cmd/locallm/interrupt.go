package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// InterruptAction is what the program does in response to Ctrl+C.
type InterruptAction int

const (
	// InterruptCancelled means the running operation was cancelled.
	InterruptCancelled InterruptAction = iota
	// InterruptWarned means nothing was running; the user was told how to exit.
	InterruptWarned
	// InterruptExit means a second interrupt arrived before new input.
	InterruptExit
)

// Interrupts turns Ctrl+C into cancellation of the running operation. The
// first interrupt cancels it. A second interrupt before the next input exits.
type Interrupts struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     int
	pending bool
}

// Begin starts an interruptible operation. The returned function must be
// called when it ends. Begin is safe on a nil receiver.
func (i *Interrupts) Begin(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if i == nil {
		return ctx, cancel
	}

	i.mu.Lock()
	i.gen++
	gen := i.gen
	i.cancel = cancel
	i.pending = false
	i.mu.Unlock()

	return ctx, func() {
		i.mu.Lock()
		if i.gen == gen {
			i.cancel = nil
		}
		i.mu.Unlock()
		cancel()
	}
}

// Reset records that new input arrived, so the next interrupt warns again
// instead of exiting.
func (i *Interrupts) Reset() {
	if i == nil {
		return
	}
	i.mu.Lock()
	i.pending = false
	i.mu.Unlock()
}

// Interrupt handles one Ctrl+C.
func (i *Interrupts) Interrupt() InterruptAction {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.pending {
		return InterruptExit
	}
	i.pending = true
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
		return InterruptCancelled
	}
	return InterruptWarned
}

// HandleInterrupts applies every signal received to i until signals is
// closed. exit is called with status 130 on a second interrupt.
func HandleInterrupts(signals <-chan os.Signal, i *Interrupts, stderr io.Writer, exit func(int)) {
	for range signals {
		switch i.Interrupt() {
		case InterruptWarned:
			fmt.Fprintln(stderr, "\nPress Ctrl+C again to exit.")
		case InterruptExit:
			fmt.Fprintln(stderr, "\nExiting...")
			exit(130)
		}
	}
}
