package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/locallm"
)

// historyAnswerWidth truncates answers in the history listing.
const historyAnswerWidth = 120

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)

	filter := locallm.ExchangeFilter{Limit: c.Limit}
	if !c.All {
		filter.Directory = &deps.Dir
	}

	exchanges, err := deps.Exchanges.FindExchanges(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}

	if len(exchanges) == 0 {
		fmt.Fprintln(deps.Stdout, "No questions asked yet. Use 'locallm ask' to ask one.")
		return nil
	}

	for _, e := range exchanges {
		header := fmt.Sprintf("%s  %s  %s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Model, e.Status)
		fmt.Fprintln(deps.Stdout, paint(styles.Muted, header))
		if c.All {
			fmt.Fprintln(deps.Stdout, paint(styles.Muted, e.Directory))
		}
		fmt.Fprintf(deps.Stdout, "%s %s\n", paint(styles.Label, "Q:"), e.Question)
		fmt.Fprintf(deps.Stdout, "%s %s\n\n", paint(styles.Label, "A:"), summarize(e.Answer, historyAnswerWidth))
	}
	return nil
}

// summarize collapses whitespace in s and truncates it to width runes.
func summarize(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > width {
		return string(r[:width]) + "..."
	}
	return s
}
