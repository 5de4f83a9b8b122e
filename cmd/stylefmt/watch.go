package main

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/abemedia/stylefmt"
)

// watcher reformats files as they are written.
type watcher struct {
	formatter *stylefmt.Formatter
	opts      *options
	log       *logger

	files     map[string]bool // explicitly named files
	dirs      map[string]bool // directories whose source files are formatted
	recursive map[string]bool // directories whose new subdirectories are watched too
}

// newWatcher builds a watcher over the command-line paths. Named files are
// watched through their parent directory. A "dir/..." path subscribes to
// every directory below dir, including empty ones.
func newWatcher(formatter *stylefmt.Formatter, opts *options, log *logger, paths []string) (*watcher, error) {
	w := &watcher{
		formatter: formatter,
		opts:      opts,
		log:       log,
		files:     map[string]bool{},
		dirs:      map[string]bool{},
		recursive: map[string]bool{},
	}

	files, err := collectFiles(paths, opts.exts)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		recursive := strings.HasSuffix(path, "/...")
		path = filepath.Clean(strings.TrimSuffix(path, "/..."))
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir() && recursive:
			if err := w.addTree(path); err != nil {
				return nil, err
			}
		case err == nil && info.IsDir():
			w.dirs[path] = true
		default:
			w.files[path] = true
		}
	}
	for _, f := range files {
		if !w.files[filepath.Clean(f)] {
			w.dirs[filepath.Dir(filepath.Clean(f))] = true
		}
	}

	return w, nil
}

// addTree marks root and every directory below it as watched.
func (w *watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			path = filepath.Clean(path)
			w.dirs[path] = true
			w.recursive[path] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk path %s: %w", root, err)
	}
	return nil
}

// track reports whether path is a directory created inside a recursively
// watched tree. If so, it and its subdirectories are marked as watched.
func (w *watcher) track(path string) bool {
	path = filepath.Clean(path)
	if w.dirs[path] || !w.recursive[filepath.Dir(path)] {
		return false
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return false
	}
	return w.addTree(path) == nil
}

// watched returns the directories to subscribe to.
func (w *watcher) watched() []string {
	set := map[string]bool{}
	for dir := range w.dirs {
		set[dir] = true
	}
	for f := range w.files {
		set[filepath.Dir(f)] = true
	}
	return slices.Sorted(maps.Keys(set))
}

// wants reports whether a change to path should trigger formatting.
func (w *watcher) wants(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && slices.Contains(w.opts.exts, filepath.Ext(path))
}

// run blocks until ctx is cancelled, formatting files on every write or create.
func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.watched() {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.log.infof("watching %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if ev.Has(fsnotify.Create) && w.track(ev.Name) {
				w.subscribe(ctx, fw, ev.Name)
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			// Rewriting the file emits another write event; the second pass
			// finds nothing to change.
			res := processFile(w.formatter, w.opts, ev.Name)
			report(w.log, os.Stdout, w.opts, []fileResult{res})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.errorf("watch: %v", err)
		}
	}
}

// subscribe adds the watched directories under root to fw and formats any
// source files already written to them.
func (w *watcher) subscribe(ctx context.Context, fw *fsnotify.Watcher, root string) {
	for _, dir := range w.watched() {
		if dir != root && !strings.HasPrefix(dir, root+string(filepath.Separator)) {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.log.errorf("failed to watch %s: %v", dir, err)
			continue
		}
		w.log.infof("watching %s", dir)
	}

	files, err := collectFiles([]string{root + "/..."}, w.opts.exts)
	if err != nil {
		w.log.errorf("watch: %v", err)
		return
	}
	results, err := processFiles(ctx, w.formatter, w.opts, files)
	if err != nil {
		w.log.errorf("watch: %v", err)
		return
	}
	report(w.log, os.Stdout, w.opts, results)
}
