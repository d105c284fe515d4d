package main_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	main "github.com/fwojciec/locallm/cmd/locallm"
	"github.com/stretchr/testify/assert"
)

func TestInterrupts(t *testing.T) {
	t.Parallel()

	t.Run("first interrupt cancels the running operation", func(t *testing.T) {
		t.Parallel()

		var i main.Interrupts
		ctx, done := i.Begin(context.Background())
		defer done()

		assert.Equal(t, main.InterruptCancelled, i.Interrupt())
		assert.Error(t, ctx.Err())
	})

	t.Run("second interrupt before new input exits", func(t *testing.T) {
		t.Parallel()

		var i main.Interrupts
		_, done := i.Begin(context.Background())
		i.Interrupt()
		done()

		assert.Equal(t, main.InterruptExit, i.Interrupt())
	})

	t.Run("new input resets", func(t *testing.T) {
		t.Parallel()

		var i main.Interrupts
		_, done := i.Begin(context.Background())
		i.Interrupt()
		done()
		i.Reset()

		assert.Equal(t, main.InterruptWarned, i.Interrupt())
	})

	t.Run("idle interrupt warns", func(t *testing.T) {
		t.Parallel()

		var i main.Interrupts

		assert.Equal(t, main.InterruptWarned, i.Interrupt())
		assert.Equal(t, main.InterruptExit, i.Interrupt())
	})

	t.Run("finished operation is not cancelled later", func(t *testing.T) {
		t.Parallel()

		var i main.Interrupts
		_, done := i.Begin(context.Background())
		done()
		ctx, done2 := i.Begin(context.Background())
		defer done2()

		assert.Equal(t, main.InterruptCancelled, i.Interrupt())
		assert.Error(t, ctx.Err())
	})

	t.Run("nil receiver begins a plain cancellable context", func(t *testing.T) {
		t.Parallel()

		var i *main.Interrupts
		ctx, done := i.Begin(context.Background())
		i.Reset()
		done()

		assert.Error(t, ctx.Err())
	})
}

func TestHandleInterrupts(t *testing.T) {
	t.Parallel()

	signals := make(chan os.Signal, 3)
	signals <- os.Interrupt
	signals <- os.Interrupt
	close(signals)

	var code int
	stderr := &bytes.Buffer{}
	main.HandleInterrupts(signals, &main.Interrupts{}, stderr, func(c int) { code = c })

	assert.Equal(t, 130, code)
	assert.Contains(t, stderr.String(), "Press Ctrl+C again to exit.")
	assert.Contains(t, stderr.String(), "Exiting...")
}
