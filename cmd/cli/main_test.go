package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/sheetcalc/internal/cli"
)

func TestRun_EvaluatesSheet(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sheetHCL := `
sheet {
  rows = [
    [2, 3, "=A1+B1"],
    ["=2*\"ab\"", "=A1", "=Z99"],
  ]
}
`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(sheetHCL), 0600), "failed to set up test file")

	args := []string{"--output", "plain", "--set", "A1=4", filePath}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, ""+
		"A1: 4\n"+
		"B1: 3\n"+
		"C1: 7\n"+
		"A2: abab\n"+
		"B2: 4\n"+
		"C2: ⚠️ invalid reference: Z99 [ReferenceError]\n",
		out.String())
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		sheet {
			rows = [
		# Missing closing brackets here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	// --- Act ---
	runErr := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr, "run() should fail on an unparsable sheet file")
	require.Contains(t, runErr.Error(), "failed to load sheet")
	require.Contains(t, runErr.Error(), "failed to parse HCL sheet file")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
