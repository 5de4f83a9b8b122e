package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
	headerColor  = color.New(color.Bold)
)

// logger writes diagnostics to stderr.
type logger struct {
	w     io.Writer
	quiet bool
}

func (l *logger) errorf(format string, args ...any) {
	errorColor.Fprint(l.w, "error: ")
	fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *logger) warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	warningColor.Fprint(l.w, "warning: ")
	fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *logger) infof(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}

// printDiff writes diff with removed lines in red and added lines in green.
func printDiff(w io.Writer, name, diff string) {
	headerColor.Fprintf(w, "diff %s\n", name)
	for line := range strings.Lines(diff) {
		switch trimmed := strings.TrimLeft(line, " \t"); {
		case strings.HasPrefix(trimmed, "-"):
			removedColor.Fprint(w, line)
		case strings.HasPrefix(trimmed, "+"):
			addedColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(w)
	}
}
