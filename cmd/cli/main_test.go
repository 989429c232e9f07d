package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validPipelineYAML = `
format_version: 10
pipelines:
  deploy-app:
    group: apps
    materials:
      upstream:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks:
                - exec:
                    command: make
`

func TestRun_ParseRepository(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "deploy.gocd.yaml")
	err := os.WriteFile(filePath, []byte(validPipelineYAML), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{tempDir}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.NoError(t, runErr, "run() should succeed on a clean repository")
	require.Contains(t, out.String(), `"deploy-app"`, "Expected the parsed pipeline in the JSON output")
	require.Contains(t, out.String(), `"target_version": "10"`, "Expected the resolved format version in the output")
}

func TestRun_ParseRepositoryWithErrors(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A file whose pipeline lacks materials parses but produces errors, so
	// the run must print the merged output and still fail.
	brokenYAML := `
format_version: 10
pipelines:
  broken:
    group: apps
    stages:
      - build:
          jobs:
            compile:
              tasks:
                - exec:
                    command: make
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "broken.gocd.yaml")
	err := os.WriteFile(filePath, []byte(brokenYAML), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{tempDir}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should fail when the repository has errors")
	require.Contains(t, runErr.Error(), "configuration has errors")
	require.Contains(t, out.String(), "broken.gocd.yaml", "The offending file should be named in the printed errors")
}

func TestRun_ExportPipeline(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	pipelineJSON := `{"name": "deploy-app", "group": "apps"}`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "pipeline.json")
	err := os.WriteFile(filePath, []byte(pipelineJSON), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"-export", filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.NoError(t, runErr, "run() should succeed exporting a valid pipeline")
	require.Contains(t, out.String(), "format_version: 10")
	require.Contains(t, out.String(), "deploy-app:")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
