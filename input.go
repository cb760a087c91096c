package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PeriodInput resolves the period text for the parse command
// (args, file, stdin, pipe). Files and stdin may hold one period per line.
type PeriodInput struct {
	Text  []string `arg:"" optional:"" help:"Start and end, e.g. 09/29/21 9:30 pm 09/29/21 11:30 pm."`
	File  string   `help:"Read periods from a file, one per line." short:"F" type:"existingfile"`
	Stdin bool     `help:"Force reading periods from stdin."`
}

// Resolve returns the lines to parse, checking args -> file -> stdin flag -> piped stdin.
func (in *PeriodInput) Resolve() ([]string, error) {
	if len(in.Text) > 0 {
		return []string{strings.Join(in.Text, " ")}, nil
	}
	if in.File != "" {
		return readLines(in.File)
	}
	if in.Stdin {
		return readStdinLines()
	}

	// Piped stdin (not a terminal).
	fi, err := os.Stdin.Stat()
	if err == nil && (fi.Mode()&os.ModeCharDevice) == 0 {
		return readStdinLines()
	}

	return nil, newCLIError(ExitInvalidInput, "empty_input",
		"No period provided. Pass it as arguments, --file, or pipe via stdin.")
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path via CLI flag
	if err != nil {
		return nil, newCLIError(ExitRuntimeError, "read_file_failed",
			fmt.Sprintf("Failed to read file %q: %s", path, err))
	}
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return nil, newCLIError(ExitInvalidInput, "empty_input",
			fmt.Sprintf("File %q is empty.", path))
	}
	return lines, nil
}

func readStdinLines() ([]string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return nil, newCLIError(ExitInvalidInput, "empty_input",
			"No period provided (stdin was empty).")
	}
	return lines, nil
}

// splitLines drops blank lines and surrounding whitespace.
func splitLines(s string) []string {
	var out []string
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
