package main

import (
	"fmt"

	"github.com/fwojciec/locallm"
)

// Run executes the rebuild command.
func (c *RebuildCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)

	mode := locallm.BuildModeFull
	fmt.Fprintf(deps.Stdout, "%s %s\n", paint(styles.Title, "Rebuilding knowledge map in:"), deps.Dir)
	if c.Fast {
		mode = locallm.BuildModeFast
		fmt.Fprintln(deps.Stdout, paint(styles.Warning, "Fast mode: the model reads only the abstract or table of contents"))
	} else {
		fmt.Fprintln(deps.Stdout, paint(styles.Warning, "Full mode: the model reads the full content (slower but higher quality)"))
	}
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Press Ctrl+C to cancel"))
	fmt.Fprintln(deps.Stdout)

	ctx, done := deps.Interrupts.Begin(deps.Ctx)
	defer done()

	_, res, err := deps.Builder.Rebuild(ctx, deps.Dir, mode, c.Wait, progressPrinter(deps.Stdout, styles))
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(deps.Stderr, paint(styles.Warning, "Map generation cancelled. The previous map was left unchanged."))
			return locallm.Errorf(locallm.EINTERRUPTED, "rebuild cancelled")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		if locallm.ErrorCode(err) == locallm.ETIMEOUT && !c.Wait {
			fmt.Fprintln(deps.Stderr, "Hint: use --wait to wait for the other rebuild to finish")
		}
		return err
	}

	fmt.Fprintln(deps.Stdout)
	printBuildResult(deps.Stdout, styles, res)
	for _, warning := range res.Warnings {
		fmt.Fprintln(deps.Stdout, paint(styles.Muted, "  "+warning))
	}
	return nil
}
