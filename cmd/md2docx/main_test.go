package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesNextToInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(input, []byte("# Notes\n\n- one"), 0644))

	require.NoError(t, run([]string{"--title", "Notes", input}, nil, nil))

	blob, err := os.ReadFile(filepath.Join(dir, "notes.docx"))
	require.NoError(t, err)
	_, err = zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	assert.NoError(t, err)
}

func TestRunStdinToStdout(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-o", "-", "-a", "#336699", "-"}, strings.NewReader("hello"), &stdout)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(stdout.Bytes(), []byte("PK")))
}

func TestRunExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "report.docx")
	require.NoError(t, run([]string{"--out", target, "-"}, strings.NewReader("text"), nil))
	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestRunErrors(t *testing.T) {
	assert.True(t, errors.Is(run(nil, nil, nil), errUsage))
	assert.True(t, errors.Is(run([]string{"--bogus", "x.md"}, nil, nil), errUsage))

	err := run([]string{"--accent", "blue", "-"}, strings.NewReader("x"), nil)
	assert.ErrorContains(t, err, "invalid accent")

	err = run([]string{filepath.Join(t.TempDir(), "missing.md")}, nil, nil)
	assert.ErrorContains(t, err, "read input")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dir/a.docx", outputPath("dir/a.md"))
	assert.Equal(t, "README.docx", outputPath("README"))
	assert.Equal(t, "document.docx", outputPath("-"))
}
