// Package main provides the stylefmt command-line tool for normalizing
// whitespace in C-like source code.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/abemedia/stylefmt"
)

//nolint:cyclop,funlen
func main() {
	var (
		mode        = flag.String("mode", stylefmt.DefaultConfig.Mode.String(), "Style mode: standard, concise or custom")
		operators   = flag.Bool("operators", true, "Space around operators (custom mode)")
		comma       = flag.Bool("comma", true, "Space after commas (custom mode)")
		parens      = flag.Bool("parens", true, "Space between a word and an opening parenthesis (standard and custom modes)")
		indent      = flag.Bool("indent", true, "Preserve indentation (recorded in saved settings)")
		indentWidth = flag.Int("indent-width", 4, "Indent width (recorded in saved settings)")
		configPath  = flag.String("config", "", "Settings file (default: nearest "+settingsName+")")
		save        = flag.Bool("save", false, "Write the effective settings to the settings file and exit")
		list        = flag.Bool("l", false, "List files whose formatting differs instead of rewriting them")
		diff        = flag.Bool("d", false, "Print diffs instead of rewriting files")
		exts        = flag.String("ext", strings.Join(defaultExts, ","), "Comma-separated file extensions to format in directories")
		clip        = flag.Bool("clipboard", false, "Format the clipboard contents in place")
		watchMode   = flag.Bool("watch", false, "Keep running and reformat files when they change")
		quiet       = flag.Bool("q", false, "Suppress non-error output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file|dir|path/...]", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nNormalizes whitespace around operators, commas, parentheses and braces.\n")
		fmt.Fprintf(os.Stderr, "String literals, comments and preprocessor lines are never changed.\n")
		fmt.Fprintf(os.Stderr, "If no file is provided, reads from stdin and writes to stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	log := &logger{w: os.Stderr, quiet: *quiet}

	config := *stylefmt.DefaultConfig

	settingsPath := *configPath
	if settingsPath == "" {
		path, ok, err := findSettings(".")
		if err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		if ok {
			settingsPath = path
		}
	}
	if settingsPath != "" && (!*save || fileExists(settingsPath)) {
		warnings, err := loadSettings(settingsPath, &config)
		if err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		for _, w := range warnings {
			log.warnf("%s", w)
		}
	}

	// Flags given on the command line win over the settings file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			m, err := stylefmt.ParseMode(*mode)
			if err != nil {
				flagErr = fmt.Errorf("-mode: %w", err)
				return
			}
			config.Mode = m
		case "operators":
			config.SpaceAroundOperators = *operators
		case "comma":
			config.SpaceAfterComma = *comma
		case "parens":
			config.SpaceBeforeParens = *parens
		case "indent":
			config.PreserveIndent = *indent
		case "indent-width":
			config.IndentWidth = *indentWidth
		}
	})
	if flagErr != nil {
		log.errorf("%v", flagErr)
		os.Exit(1)
	}

	if *save {
		if settingsPath == "" {
			settingsPath = settingsName
		}
		if err := writeSettings(settingsPath, &config); err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		log.infof("saved settings to %s", settingsPath)
		return
	}

	formatter := stylefmt.New(&config)

	opts := &options{
		list: *list,
		diff: *diff,
		exts: parseExts(*exts),
	}

	if *clip {
		changed, err := formatClipboard(formatter)
		if err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		if changed {
			log.infof("formatted clipboard")
		}
		return
	}

	if flag.NArg() == 0 {
		if *watchMode {
			log.errorf("-watch needs at least one path")
			os.Exit(1)
		}
		if isTerminal(os.Stdin) {
			flag.Usage()
			os.Exit(1)
		}
		if err := processStdin(formatter, opts, os.Stdin, os.Stdout); err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watchMode {
		w, err := newWatcher(formatter, opts, log, flag.Args())
		if err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		if err := w.run(ctx); err != nil {
			log.errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, formatter, opts, log, os.Stdout, flag.Args()); err != nil {
		log.errorf("%v", err)
		os.Exit(1)
	}
}

// run formats every file named by paths.
func run(ctx context.Context, formatter *stylefmt.Formatter, opts *options, log *logger, stdout io.Writer, paths []string) error {
	files, err := collectFiles(paths, opts.exts)
	if err != nil {
		return err
	}

	results, err := processFiles(ctx, formatter, opts, files)
	if err != nil {
		return err
	}

	if report(log, stdout, opts, results) {
		return fmt.Errorf("failed to format some files")
	}
	return nil
}

func parseExts(s string) []string {
	var exts []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		exts = append(exts, part)
	}
	return exts
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
