package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/testutil"
)

// parseDoc runs one document through the forward transform and returns its
// contribution with the collector that accumulated the errors.
func parseDoc(t *testing.T, source string) (*File, *Collector) {
	t.Helper()
	c := NewCollector()
	file := ParseFile(c, testutil.ParseNode(t, source))
	return file, c
}

// requireErrorCode asserts that the collector holds at least one error with
// the given code whose message contains the fragment.
func requireErrorCode(t *testing.T, c *Collector, code Code, fragment string) {
	t.Helper()
	for _, e := range c.Errors() {
		if e.Code == code && strings.Contains(e.Error(), fragment) {
			return
		}
	}
	require.Failf(t, "expected error not collected",
		"want code %s containing %q, got %v", code, fragment, c.Errors())
}

func TestParseFile_FullDocument(t *testing.T) {
	t.Parallel()

	file, c := parseDoc(t, `
format_version: 10
pipelines:
  pipe1:
    group: apps
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks:
                - exec:
                    command: make
environments:
  testing:
    pipelines:
      - pipe1
templates:
  release:
    stages:
      - publish:
          jobs:
            upload:
              tasks:
                - exec:
                    command: ./publish.sh
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	require.Equal(t, "10", file.FormatVersion)
	require.Len(t, file.Pipelines, 1)
	require.Len(t, file.Environments, 1)
	require.Len(t, file.Templates, 1)
	require.False(t, file.IsEmpty())
}

func TestParseFile_FormatVersionForms(t *testing.T) {
	t.Parallel()

	// Quoted and unquoted versions normalize to the same string.
	unquoted, _ := parseDoc(t, "format_version: 10\n")
	quoted, _ := parseDoc(t, "format_version: \"10\"\n")
	require.Equal(t, "10", unquoted.FormatVersion)
	require.Equal(t, "10", quoted.FormatVersion)
}

func TestParseFile_UnknownRootKey(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, "format_version: 10\npypelines: {}\n")

	requireErrorCode(t, c, CodeUnknownField, "pypelines")
}

func TestParseFile_CommonKeyIgnored(t *testing.T) {
	t.Parallel()

	// "common" hosts anchors; its content is not validated.
	file, c := parseDoc(t, `
common:
  tasks: &build_tasks
    - exec:
        command: make
format_version: 10
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	require.Empty(t, file.Pipelines)
}

func TestParseFile_NonMappingRoot(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, "- just\n- a\n- list\n")

	requireErrorCode(t, c, CodeInvalidFieldValue, "document root")
}

func TestParseFile_EmptyDocumentContributesNothing(t *testing.T) {
	t.Parallel()

	file, c := parseDoc(t, "")

	require.False(t, c.HasErrors())
	require.True(t, file.IsEmpty())
}

func TestParseFile_DuplicatePipelineName(t *testing.T) {
	t.Parallel()

	file, c := parseDoc(t, `
format_version: 10
pipelines:
  pipe1:
    materials:
      repo:
        git: https://example.com/a.git
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
  pipe1:
    materials:
      repo:
        git: https://example.com/b.git
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
`)

	requireErrorCode(t, c, CodeDuplicateName, "pipe1")
	require.Len(t, file.Pipelines, 1, "the first occurrence is kept")
	require.Len(t, file.Pipelines[0].Materials, 1)
	require.Equal(t, "https://example.com/a.git", file.Pipelines[0].Materials[0].URL)
}
