package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fwojciec/locallm"
)

// Run executes the models command.
func (c *ModelsCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)

	models, err := deps.Model.ListModels(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		if locallm.ErrorCode(err) == locallm.EUNAVAILABLE {
			fmt.Fprintln(deps.Stderr, "Hint: make sure Ollama is running (ollama serve)")
		}
		return err
	}

	if len(models) == 0 {
		fmt.Fprintln(deps.Stdout, paint(styles.Warning, "No models found. Please pull a model first:"))
		fmt.Fprintln(deps.Stdout, paint(styles.Muted, "  ollama pull "+locallm.DefaultModel))
		return nil
	}

	if err := printModels(deps.Stdout, models, deps.ModelName); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Default model: "+deps.ModelName))
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Change the default in config.yaml or use the --model flag"))
	return nil
}

// printModels writes a table of models, marking current.
func printModels(w io.Writer, models []locallm.ModelInfo, current string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL NAME\tSIZE\tMODIFIED\tDEFAULT")
	for _, m := range models {
		modified := "Unknown"
		if !m.ModifiedAt.IsZero() {
			modified = m.ModifiedAt.Format("2006-01-02 15:04")
		}
		mark := ""
		if m.Name == current {
			mark = "✓"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, formatSize(m.Size), modified, mark)
	}
	return tw.Flush()
}
