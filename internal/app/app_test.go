package app

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	err := Start(&out, io.Discard, []string{
		"--ops", "3",
		"--delay", "1ms",
		"-c", "2",
		"-l", "error",
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "op-1")
	assert.Contains(t, got, "op-2")
	assert.Contains(t, got, "op-3")
	assert.Equal(t, 3, strings.Count(got, "done"))
}

func TestStart_failures(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	// operation failures are summarized, not fatal
	err := Start(&out, io.Discard, []string{
		"--ops", "2",
		"--delay", "1ms",
		"--fail-every", "1",
		"--json",
		"-l", "error",
	})
	require.NoError(t, err)

	got := out.String()
	assert.Equal(t, 2, strings.Count(got, "errored"))
	assert.Contains(t, got, "synthetic failure")
}

func TestStart_version(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	err := Start(&out, io.Discard, []string{"--version"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "dispatch")
}
