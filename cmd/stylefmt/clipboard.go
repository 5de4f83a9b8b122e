package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/abemedia/stylefmt"
)

var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

// formatClipboard formats the text currently on the clipboard and puts the
// result back. An empty clipboard is left alone.
func formatClipboard(formatter *stylefmt.Formatter) (changed bool, err error) {
	text, err := readClipboard()
	if err != nil {
		return false, fmt.Errorf("failed to read clipboard: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	output := formatter.Format(text)
	if output == text {
		return false, nil
	}

	if err := writeClipboard(output); err != nil {
		return false, fmt.Errorf("failed to write clipboard: %w", err)
	}

	return true, nil
}
