package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/abemedia/stylefmt"
)

const settingsName = ".stylefmt.toml"

// settings is the on-disk form of the style configuration.
type settings struct {
	Style                  string `toml:"style"`
	UseIndentation         bool   `toml:"use_indentation"`
	IndentSize             int    `toml:"indent_size"`
	SpaceBeforeParentheses bool   `toml:"space_before_parentheses"`
	SpaceAroundOperators   bool   `toml:"space_around_operators"`
	SpaceAfterComma        bool   `toml:"space_after_comma"`
}

// findSettings walks up from startDir to locate .stylefmt.toml.
func findSettings(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, settingsName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadSettings decodes the settings file at path and applies the keys it
// defines on top of config. Keys the file does not define keep the value
// already in config. Unknown keys are returned as warnings.
func loadSettings(path string, config *stylefmt.Config) (warnings []string, err error) {
	var s settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if meta.IsDefined("style") {
		mode, err := stylefmt.ParseMode(s.Style)
		if err != nil {
			return nil, fmt.Errorf("%s: style: %w", path, err)
		}
		config.Mode = mode
	}
	if meta.IsDefined("use_indentation") {
		config.PreserveIndent = s.UseIndentation
	}
	if meta.IsDefined("indent_size") {
		if s.IndentSize < 0 {
			return nil, fmt.Errorf("%s: indent_size must not be negative", path)
		}
		config.IndentWidth = s.IndentSize
	}
	if meta.IsDefined("space_before_parentheses") {
		config.SpaceBeforeParens = s.SpaceBeforeParentheses
	}
	if meta.IsDefined("space_around_operators") {
		config.SpaceAroundOperators = s.SpaceAroundOperators
	}
	if meta.IsDefined("space_after_comma") {
		config.SpaceAfterComma = s.SpaceAfterComma
	}

	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown setting %q", path, key.String()))
	}

	return warnings, nil
}

// writeSettings stores config at path in the same format loadSettings reads.
func writeSettings(path string, config *stylefmt.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = toml.NewEncoder(f).Encode(settings{
		Style:                  config.Mode.String(),
		UseIndentation:         config.PreserveIndent,
		IndentSize:             config.IndentWidth,
		SpaceBeforeParentheses: config.SpaceBeforeParens,
		SpaceAroundOperators:   config.SpaceAroundOperators,
		SpaceAfterComma:        config.SpaceAfterComma,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
