// Package cli holds the terminal helpers shared by the command binaries.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"golang.org/x/term"
)

var (
	styleOK    = color.Style{color.FgGreen, color.OpBold}
	styleWarn  = color.Style{color.FgYellow}
	styleError = color.Style{color.FgRed, color.OpBold}
	styleLabel = color.Style{color.FgGray}
)

// Fatalf prints an error to stderr and exits with status 1.
func Fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleError.Sprint("Error: ")+fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Warnf prints a warning to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleWarn.Sprintf("Warning: "+format, args...))
}

// OK prints a success line to stdout.
func OK(format string, args ...any) {
	fmt.Println(styleOK.Sprintf(format, args...))
}

// Field prints one aligned "label: value" line to stdout.
func Field(label string, value any) {
	fmt.Printf("  %s %v\n", styleLabel.Sprintf("%-12s", label+":"), value)
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptInt asks for an integer in [lo, hi] until one is given. It fails
// when in reaches EOF.
func PromptInt(in io.Reader, out io.Writer, label string, lo, hi int) (int, error) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s (%d-%d): ", label, lo, hi)
		line, err := reader.ReadString('\n')
		if v, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && v >= lo && v <= hi {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		fmt.Fprintln(out, styleWarn.Sprintf("Enter a whole number from %d to %d.", lo, hi))
	}
}

// WriteJSON writes v as indented JSON, creating parent directories, and
// returns the number of bytes written.
func WriteJSON(path string, v any) (int, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return len(data), WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Wrote reports a written file with its size.
func Wrote(path string, n int) {
	Field("wrote", fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(n))))
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
