package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"curriculum/internal/diag"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
)

// renderDiagnostics writes one line per entry, colored by severity when w
// is a terminal.
func renderDiagnostics(w io.Writer, entries []diag.Entry) {
	colorize := shouldColorize(w)
	for _, entry := range entries {
		line := entry.String()
		if colorize {
			if color := severityColor(entry.Severity); color != "" {
				line = color + line + ansiReset
			}
		}
		fmt.Fprintln(w, line)
	}
}

func severityColor(severity diag.Severity) string {
	switch severity {
	case diag.SeverityError:
		return ansiRed
	case diag.SeverityWarning:
		return ansiYellow
	case diag.SeverityInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
