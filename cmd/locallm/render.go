package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/locallm/agent"
)

// Styles holds the terminal styles used by the CLI. Colors are dropped
// automatically when the output is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Think   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Sources lipgloss.Style
}

// NewStyles returns the styles for output written to w.
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:   r.NewStyle().Faint(true),
		Think:   r.NewStyle().Faint(true).Italic(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Sources: r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// paint renders s line by line so that multi-line text is not padded to a
// common width.
func paint(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// StreamRenderer writes streamed model output, dimming think blocks and
// highlighting the sources section that follows the separator.
type StreamRenderer struct {
	w       io.Writer
	styles  *Styles
	scanner agent.ThinkScanner
	sources bool
	wrote   bool
}

// NewStreamRenderer returns a renderer writing to w.
func NewStreamRenderer(w io.Writer, styles *Styles) *StreamRenderer {
	return &StreamRenderer{w: w, styles: styles}
}

// Write renders one streamed fragment. It matches locallm.FragmentFunc.
func (r *StreamRenderer) Write(fragment string) error {
	return r.render(r.scanner.Write(fragment))
}

// Flush renders any text held back while waiting for a complete marker.
func (r *StreamRenderer) Flush() error {
	return r.render(r.scanner.Flush())
}

// Wrote reports whether anything was rendered.
func (r *StreamRenderer) Wrote() bool {
	return r.wrote
}

func (r *StreamRenderer) render(segments []agent.Segment) error {
	for _, seg := range segments {
		var out string
		switch seg.Type {
		case agent.SegmentThink, agent.SegmentTag:
			out = paint(r.styles.Think, seg.Text)
		case agent.SegmentSeparator:
			r.sources = true
			out = paint(r.styles.Muted, seg.Text)
		default:
			if r.sources {
				out = paint(r.styles.Sources, seg.Text)
			} else {
				out = seg.Text
			}
		}
		if out == "" {
			continue
		}
		r.wrote = true
		if _, err := io.WriteString(r.w, out); err != nil {
			return err
		}
	}
	return nil
}
