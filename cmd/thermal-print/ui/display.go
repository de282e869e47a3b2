package ui

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

var (
	successMark = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorMark   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnMark    = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoMark    = color.New(color.FgCyan).SprintFunc()
	dim         = color.New(color.Faint).SprintFunc()
)

// Table displays data in a formatted table.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
}

// Section prints an underlined heading.
func Section(title string) {
	fmt.Fprintf(os.Stdout, "\n%s\n%s\n\n", color.New(color.Bold).Sprint(title), strings.Repeat("=", len(title)))
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(100 * time.Millisecond)

	minutes := d / time.Minute
	d -= minutes * time.Minute
	if minutes > 0 {
		return fmt.Sprintf("%dm %.1fs", minutes, d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Error displays an error message to stderr.
func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorMark("✗"), fmt.Sprintf(format, args...))
}

// Success displays a success message.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, "%s %s\n", successMark("✓"), fmt.Sprintf(format, args...))
}

// Warning displays a warning message.
func Warning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnMark("⚠"), fmt.Sprintf(format, args...))
}

// Info displays an informational message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, "%s %s\n", infoMark("ℹ"), fmt.Sprintf(format, args...))
}

// Step displays a step indicator message, only in verbose mode.
func Step(format string, args ...interface{}) {
	if !verboseFlag {
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", dim("→ "+fmt.Sprintf(format, args...)))
}
