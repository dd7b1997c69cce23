package model

import (
	"bufio"
	"io"
	"os/exec"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

const (
	aliveGlyph = "◼"
	deadGlyph  = "◻"

	clearCmd = "clear"
)

// TerminalRenderer writes the universe to a terminal
type TerminalRenderer struct {
	Out   io.Writer
	Color bool
}

// Display renders the universe, one row per line
func (r *TerminalRenderer) Display(u *Universe) error {
	if !r.Color {
		_, err := io.WriteString(r.Out, u.String())
		return errors.Wrap(err, "[Display] failed to write universe")
	}

	alive := aurora.Green(aliveGlyph).String()
	w := bufio.NewWriter(r.Out)
	for y := range u.Height() {
		for x := range u.Width() {
			if u.cells.get(u.Index(x, y)) {
				w.WriteString(alive)
			} else {
				w.WriteString(deadGlyph)
			}
		}
		w.WriteByte('\n')
	}
	return errors.Wrap(w.Flush(), "[Display] failed to write universe")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	cmd := exec.Command(clearCmd)
	cmd.Stdout = r.Out
	return errors.Wrap(cmd.Run(), "[Clear] failed to clear terminal")
}
