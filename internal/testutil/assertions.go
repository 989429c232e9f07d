package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// RequireYAMLEquivalent asserts that two YAML documents describe the same
// data, ignoring formatting differences like indentation, quoting style and
// key spacing. It abstracts the serializer's formatting choices, making
// round-trip tests resilient to encoder changes.
func RequireYAMLEquivalent(t *testing.T, want, got string) {
	t.Helper()

	var wantData, gotData any
	require.NoError(t, yaml.Unmarshal([]byte(want), &wantData), "expected document should be valid YAML")
	require.NoError(t, yaml.Unmarshal([]byte(got), &gotData), "actual document should be valid YAML")
	require.Equal(t, wantData, gotData)
}
