// Package ui provides terminal output for the thermal-print CLI.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	noColorFlag bool
	verboseFlag bool
)

// InitUI initializes the UI with color and verbose settings.
func InitUI(noColor, verbose bool) {
	noColorFlag = noColor
	verboseFlag = verbose

	if noColor || !IsTerminal() {
		color.NoColor = true
	}
}

// IsTerminal reports whether progress output goes to an interactive terminal.
func IsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Animated reports whether spinners and bars should be drawn.
func Animated() bool {
	return !noColorFlag && IsTerminal()
}
