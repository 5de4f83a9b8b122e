package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/semaphore"

	"github.com/abemedia/stylefmt"
)

// defaultExts are the file extensions picked up when walking directories.
var defaultExts = []string{
	".c", ".h", ".cc", ".cpp", ".cxx", ".hh", ".hpp", ".hxx",
	".cs", ".java", ".js", ".ts", ".go", ".rs", ".swift", ".kt", ".php",
}

// options controls what happens with formatted output.
type options struct {
	list bool // print names of files whose formatting changes
	diff bool // print diffs instead of rewriting
	exts []string
}

// write reports whether files are rewritten in place.
func (o *options) write() bool { return !o.list && !o.diff }

// fileResult is the outcome of formatting one file.
type fileResult struct {
	path    string
	changed bool
	diff    string
	err     error
}

// lineDiff returns a diff of the lines of before and after.
func lineDiff(before, after string) string {
	return cmp.Diff(strings.Split(before, "\n"), strings.Split(after, "\n"))
}

// processFile formats a single file and, if rewriting is enabled, writes it
// back when its contents changed.
func processFile(formatter *stylefmt.Formatter, opts *options, filename string) fileResult {
	res := fileResult{path: filename}

	info, err := os.Stat(filename)
	if err != nil {
		res.err = fmt.Errorf("failed to stat %s: %w", filename, err)
		return res
	}

	input, err := os.ReadFile(filename)
	if err != nil {
		res.err = fmt.Errorf("failed to read %s: %w", filename, err)
		return res
	}

	output := formatter.Format(string(input))
	if output == string(input) {
		return res
	}
	res.changed = true

	if opts.diff {
		res.diff = lineDiff(string(input), output)
	}

	if opts.write() {
		if err := os.WriteFile(filename, []byte(output), info.Mode().Perm()); err != nil {
			res.err = fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}

	return res
}

// processStdin formats r and writes the result to w.
func processStdin(formatter *stylefmt.Formatter, opts *options, r io.Reader, w io.Writer) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}

	output := formatter.Format(string(input))

	switch {
	case opts.diff:
		if output != string(input) {
			printDiff(w, "<standard input>", lineDiff(string(input), output))
		}
	case opts.list:
		if output != string(input) {
			fmt.Fprintln(w, "<standard input>")
		}
	default:
		if _, err := io.WriteString(w, output); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}

	return nil
}

// collectFiles expands the command-line paths into the list of files to
// format. A trailing "/..." walks the directory recursively, a bare directory
// is formatted one level deep and a file is always formatted.
func collectFiles(paths, exts []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		recursive := strings.HasSuffix(path, "/...")
		if recursive {
			path = strings.TrimSuffix(path, "/...")
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		root := path
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(exts, filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk path %s: %w", root, err)
		}
	}

	return files, nil
}

// processFiles formats files concurrently, bounded by the number of CPUs.
// Results are returned in the order of files.
func processFiles(ctx context.Context, formatter *stylefmt.Formatter, opts *options, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))

	for i, path := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("failed to acquire semaphore: %w", err)
		}
		wg.Add(1)
		go func() {
			defer sem.Release(1)
			defer wg.Done()
			results[i] = processFile(formatter, opts, path)
		}()
	}

	wg.Wait()
	return results, nil
}

// report prints the results and reports whether any of them failed.
func report(log *logger, stdout io.Writer, opts *options, results []fileResult) (failed bool) {
	for _, res := range results {
		if res.err != nil {
			log.errorf("%v", res.err)
			failed = true
			continue
		}
		if !res.changed {
			continue
		}
		if opts.list {
			fmt.Fprintln(stdout, res.path)
		}
		if opts.diff {
			printDiff(stdout, res.path, res.diff)
		}
		if opts.write() {
			log.infof("formatted %s", res.path)
		}
	}
	return failed
}
