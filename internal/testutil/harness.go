package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/raw"
	"github.com/vk/gocdyaml/internal/reader"
)

// ParseNode parses one YAML document into its raw node tree, failing the
// test on malformed input. Most transform tests start here.
func ParseNode(t *testing.T, source string) *raw.Node {
	t.Helper()

	node, err := reader.Parse([]byte(source), "test.gocd.yaml")
	require.NoError(t, err, "test document should be well-formed YAML")
	return node
}

// WriteRepo materializes a map of relative path to file content inside a
// fresh temporary directory and returns its root. Used by tests that
// exercise directory scanning.
func WriteRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(tmpDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	return tmpDir
}
