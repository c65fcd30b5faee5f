package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Styler colours short status lines for the terminal. Colours degrade to
// plain text when w is not a colour-capable terminal.
type Styler struct {
	out *termenv.Output
}

// NewStyler inspects w to pick a colour profile.
func NewStyler(w io.Writer) *Styler {
	return &Styler{out: termenv.NewOutput(w)}
}

// Chosen highlights the name of a selected strategy.
func (s *Styler) Chosen(name string) string {
	return s.out.String(name).Bold().Foreground(s.out.Color("#22c55e")).String()
}

// Warn colours a warning.
func (s *Styler) Warn(msg string) string {
	return s.out.String(msg).Foreground(s.out.Color("#f59e0b")).String()
}

// Fail colours an error.
func (s *Styler) Fail(msg string) string {
	return s.out.String(msg).Foreground(s.out.Color("#ef4444")).String()
}

// PrintBanner writes the canopy banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"   ___ __ _ _ __   ___  _ __  _   _ ", "#4ade80"},
		{"  / __/ _` | '_ \\ / _ \\| '_ \\| | | |", "#22c55e"},
		{" | (_| (_| | | | | (_) | |_) | |_| |", "#16a34a"},
		{"  \\___\\__,_|_| |_|\\___/| .__/ \\__, |", "#15803d"},
		{"                       |_|    |___/ ", "#166534"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "  decision trees, costed. v%s\n\n", version)
}
