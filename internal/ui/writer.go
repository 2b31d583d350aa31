// Package ui renders patch previews and review prompts for the patchapply
// CLI: a non-interactive colored-diff writer, and an interactive
// bubbletea-based review screen.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
	headerColor = color.New(color.FgWhite, color.Bold)
)

// Writer prints status and diff output to a terminal, coloring unified-diff
// lines by their leading marker.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer over stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// Error prints an error message in bold red.
func (w *Writer) Error(msg string) {
	errorColor.Fprintf(w.out, "error: %s\n", msg)
}

// Warn prints a warning message in yellow.
func (w *Writer) Warn(msg string) {
	warnColor.Fprintf(w.out, "warning: %s\n", msg)
}

// Header prints a bold status line, e.g. the file path about to be patched.
func (w *Writer) Header(msg string) {
	headerColor.Fprintln(w.out, msg)
}

// Diff prints a unified diff with per-line coloring: "---"/"+++" file
// headers bold, additions green, deletions red, hunk headers cyan,
// everything else unstyled.
func (w *Writer) Diff(diff string) {
	scanner := bufio.NewScanner(strings.NewReader(diff))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			headerColor.Fprintln(w.out, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprintln(w.out, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprintln(w.out, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprintln(w.out, line)
		default:
			fmt.Fprintln(w.out, line)
		}
	}
}
