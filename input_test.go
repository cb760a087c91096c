package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Args(t *testing.T) {
	in := PeriodInput{Text: []string{"09/29/21", "21:30", "09/29/21", "23:30"}}
	got, err := in.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"09/29/21 21:30 09/29/21 23:30"}, got)
}

func TestResolve_EmptyNoStdin(t *testing.T) {
	in := PeriodInput{}
	_, err := in.Resolve()
	require.Error(t, err)

	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, "empty_input", cliErr.Code)
	assert.Equal(t, ExitInvalidInput, cliErr.ExitCode)
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periods.txt")
	require.NoError(t, os.WriteFile(path, []byte("09/29/21 21:30 09/29/21 23:30\n\n  10/01/21 9:00 am 10/01/21 10:00 am  \n"), 0o600))

	in := PeriodInput{File: path}
	got, err := in.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"09/29/21 21:30 09/29/21 23:30",
		"10/01/21 9:00 am 10/01/21 10:00 am",
	}, got)
}

func TestResolve_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))

	_, err := (&PeriodInput{File: path}).Resolve()
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, "empty_input", cliErr.Code)
}

func TestResolve_StdinFlag(t *testing.T) {
	// Save and restore os.Stdin
	oldStdin := os.Stdin
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdin = r

	_, _ = w.Write([]byte("09/29/21 21:30 09/29/21 23:30\n"))
	_ = w.Close()

	in := PeriodInput{Stdin: true}
	got, err := in.Resolve()

	os.Stdin = oldStdin

	require.NoError(t, err)
	assert.Equal(t, []string{"09/29/21 21:30 09/29/21 23:30"}, got) // trailing newline stripped
}
