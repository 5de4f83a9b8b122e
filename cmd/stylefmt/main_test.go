package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/abemedia/stylefmt"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     stylefmt.Config
		warnings int
		wantErr  bool
	}{
		{
			name:    "empty_keeps_defaults",
			content: "",
			want:    *stylefmt.DefaultConfig,
		},
		{
			name: "custom",
			content: `style = "custom"
use_indentation = false
indent_size = 2
space_before_parentheses = false
space_around_operators = true
space_after_comma = false
`,
			want: stylefmt.Config{
				Mode:                 stylefmt.Custom,
				SpaceAroundOperators: true,
				PreserveIndent:       false,
				IndentWidth:          2,
			},
		},
		{
			name:    "partial",
			content: "style = \"concise\"\n",
			want: func() stylefmt.Config {
				c := *stylefmt.DefaultConfig
				c.Mode = stylefmt.Concise
				return c
			}(),
		},
		{
			name:     "unknown_key",
			content:  "style = \"standard\"\nauto_start = true\n",
			want:     *stylefmt.DefaultConfig,
			warnings: 1,
		},
		{
			name:    "bad_style",
			content: "style = \"fancy\"\n",
			wantErr: true,
		},
		{
			name:    "negative_indent",
			content: "indent_size = -1\n",
			wantErr: true,
		},
		{
			name:    "invalid_toml",
			content: "style = \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), settingsName)
			writeFile(t, path, tt.content)

			config := *stylefmt.DefaultConfig
			warnings, err := loadSettings(path, &config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(warnings) != tt.warnings {
				t.Errorf("got %d warnings, want %d: %v", len(warnings), tt.warnings, warnings)
			}
			if diff := cmp.Diff(config, tt.want); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestLoadSettingsBadStyleWrapsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsName)
	writeFile(t, path, "style = \"fancy\"\n")

	config := *stylefmt.DefaultConfig
	_, err := loadSettings(path, &config)
	if !errors.Is(err, stylefmt.ErrUnknownMode) {
		t.Errorf("got %v, want ErrUnknownMode", err)
	}
}

func TestWriteSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsName)
	want := stylefmt.Config{
		Mode:              stylefmt.Custom,
		SpaceAfterComma:   true,
		SpaceBeforeParens: true,
		IndentWidth:       8,
	}

	if err := writeSettings(path, &want); err != nil {
		t.Fatal(err)
	}

	got := *stylefmt.DefaultConfig
	warnings, err := loadSettings(path, &got)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Error(diff)
	}
}

func TestFindSettings(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(root, settingsName), "style = \"concise\"\n")

	path, ok, err := findSettings(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("settings file not found")
	}
	want, err := filepath.Abs(filepath.Join(root, settingsName))
	if err != nil {
		t.Fatal(err)
	}
	if path != want {
		t.Errorf("got %s, want %s", path, want)
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "")
	writeFile(t, filepath.Join(root, "sub", "b.cpp"), "")
	writeFile(t, filepath.Join(root, "sub", "deep", "c.h"), "")
	writeFile(t, filepath.Join(root, "explicit.txt"), "")

	exts := []string{".c", ".cpp", ".h"}

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "flat",
			paths: []string{root},
			want:  []string{filepath.Join(root, "a.c")},
		},
		{
			name:  "recursive",
			paths: []string{root + "/..."},
			want: []string{
				filepath.Join(root, "a.c"),
				filepath.Join(root, "sub", "b.cpp"),
				filepath.Join(root, "sub", "deep", "c.h"),
			},
		},
		{
			name:  "explicit_file",
			paths: []string{filepath.Join(root, "explicit.txt")},
			want:  []string{filepath.Join(root, "explicit.txt")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectFiles(tt.paths, exts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Error(diff)
			}
		})
	}

	if _, err := collectFiles([]string{filepath.Join(root, "missing")}, exts); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "int x=1,y=2;\n")
	writeFile(t, filepath.Join(root, "b.c"), "int z = 3;\n")

	formatter := stylefmt.New(nil)
	log := &logger{w: &bytes.Buffer{}}

	t.Run("list", func(t *testing.T) {
		var out bytes.Buffer
		opts := &options{list: true, exts: defaultExts}
		if err := run(context.Background(), formatter, opts, log, &out, []string{root}); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(out.String(), filepath.Join(root, "a.c")+"\n"); diff != "" {
			t.Error(diff)
		}
		if got := readFile(t, filepath.Join(root, "a.c")); got != "int x=1,y=2;\n" {
			t.Errorf("-l rewrote file: %q", got)
		}
	})

	t.Run("diff", func(t *testing.T) {
		var out bytes.Buffer
		opts := &options{diff: true, exts: defaultExts}
		if err := run(context.Background(), formatter, opts, log, &out, []string{root}); err != nil {
			t.Fatal(err)
		}
		got := out.String()
		for _, want := range []string{"diff " + filepath.Join(root, "a.c"), "int x=1,y=2;", "int x = 1, y = 2;"} {
			if !strings.Contains(got, want) {
				t.Errorf("diff output missing %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "b.c") {
			t.Errorf("diff output mentions unchanged file:\n%s", got)
		}
	})

	t.Run("write", func(t *testing.T) {
		var out bytes.Buffer
		opts := &options{exts: defaultExts}
		if err := run(context.Background(), formatter, opts, log, &out, []string{root}); err != nil {
			t.Fatal(err)
		}
		if got := readFile(t, filepath.Join(root, "a.c")); got != "int x = 1, y = 2;\n" {
			t.Errorf("got %q", got)
		}
		if got := readFile(t, filepath.Join(root, "b.c")); got != "int z = 3;\n" {
			t.Errorf("got %q", got)
		}
	})
}

func TestProcessStdin(t *testing.T) {
	formatter := stylefmt.New(&stylefmt.Config{Mode: stylefmt.Concise})

	var out bytes.Buffer
	if err := processStdin(formatter, &options{}, strings.NewReader("x = 1 ;\n"), &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(out.String(), "x=1;\n"); diff != "" {
		t.Error(diff)
	}

	out.Reset()
	if err := processStdin(formatter, &options{list: true}, strings.NewReader("x=1;\n"), &out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output for formatted input: %q", out.String())
	}
}

func TestFormatClipboard(t *testing.T) {
	defer func(r func() (string, error), w func(string) error) {
		readClipboard, writeClipboard = r, w
	}(readClipboard, writeClipboard)

	var written []string
	writeClipboard = func(s string) error {
		written = append(written, s)
		return nil
	}

	formatter := stylefmt.New(nil)

	tests := []struct {
		name    string
		content string
		changed bool
		written []string
	}{
		{name: "empty", content: "  \n"},
		{name: "already_formatted", content: "x = 1;"},
		{name: "formats", content: "if(a){", changed: true, written: []string{"if (a) {"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written = nil
			readClipboard = func() (string, error) { return tt.content, nil }

			changed, err := formatClipboard(formatter)
			if err != nil {
				t.Fatal(err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if diff := cmp.Diff(written, tt.written); diff != "" {
				t.Error(diff)
			}
		})
	}

	readClipboard = func() (string, error) { return "", errors.New("no clipboard") }
	if _, err := formatClipboard(formatter); err == nil {
		t.Error("expected error")
	}
}

func TestWatcherWants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")
	writeFile(t, filepath.Join(root, "single", "only.txt"), "")
	writeFile(t, filepath.Join(root, "single", "other.c"), "")

	opts := &options{exts: []string{".c"}}
	w, err := newWatcher(stylefmt.New(nil), opts, &logger{w: &bytes.Buffer{}}, []string{
		root,
		filepath.Join(root, "single", "only.txt"),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "a.c"), true},
		{filepath.Join(root, "new.c"), true},
		{filepath.Join(root, "notes.txt"), false},
		{filepath.Join(root, "single", "only.txt"), true},
		{filepath.Join(root, "single", "other.c"), false},
	}

	for _, tt := range tests {
		if got := w.wants(tt.path); got != tt.want {
			t.Errorf("wants(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}

	want := []string{filepath.Clean(root), filepath.Join(root, "single")}
	if diff := cmp.Diff(w.watched(), want); diff != "" {
		t.Error(diff)
	}
}

func TestWatcherRecursiveTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")
	if err := os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}

	opts := &options{exts: []string{".c"}}
	w, err := newWatcher(stylefmt.New(nil), opts, &logger{w: &bytes.Buffer{}}, []string{root + "/..."})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Clean(root),
		filepath.Join(root, "empty"),
		filepath.Join(root, "empty", "deeper"),
	}
	if diff := cmp.Diff(w.watched(), want); diff != "" {
		t.Error(diff)
	}
	if !w.wants(filepath.Join(root, "empty", "deeper", "x.c")) {
		t.Error("file in empty subdirectory not wanted")
	}

	added := filepath.Join(root, "added")
	writeFile(t, filepath.Join(added, "inner", "b.c"), "")

	if !w.track(added) {
		t.Fatalf("track(%s) = false, want true", added)
	}
	if w.track(added) {
		t.Errorf("track(%s) on a watched directory = true, want false", added)
	}
	for _, path := range []string{
		filepath.Join(added, "b.c"),
		filepath.Join(added, "inner", "b.c"),
	} {
		if !w.wants(path) {
			t.Errorf("wants(%s) = false, want true", path)
		}
	}
	if w.track(filepath.Join(root, "a.c")) {
		t.Error("track on a file = true, want false")
	}
}

func TestWatcherFlatDirIgnoresNewSubdirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")

	opts := &options{exts: []string{".c"}}
	w, err := newWatcher(stylefmt.New(nil), opts, &logger{w: &bytes.Buffer{}}, []string{root})
	if err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if w.track(sub) {
		t.Errorf("track(%s) = true, want false", sub)
	}
	if w.wants(filepath.Join(sub, "x.c")) {
		t.Error("file in new subdirectory of a flat watch is wanted")
	}
}

func TestParseExts(t *testing.T) {
	got := parseExts("c, .h,,cpp ")
	if diff := cmp.Diff(got, []string{".c", ".h", ".cpp"}); diff != "" {
		t.Error(diff)
	}
}
