package reader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/raw"
)

func TestParse_WellFormedDocument(t *testing.T) {
	t.Parallel()

	node, err := Parse([]byte("format_version: 10\npipelines: {}\n"), "pipe.gocd.yaml")

	require.NoError(t, err)
	require.Equal(t, raw.KindMapping, node.Kind)
	require.True(t, node.Has("format_version"))
}

func TestParse_MalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("key: [unclosed\n"), "broken.gocd.yaml")

	require.Error(t, err)
	var malformed *MalformedDocumentError
	require.True(t, errors.As(err, &malformed), "the error must identify the malformed document")
	require.Equal(t, "broken.gocd.yaml", malformed.Filename)
	require.ErrorContains(t, err, "broken.gocd.yaml")
}

func TestParse_EmptyDocuments(t *testing.T) {
	t.Parallel()

	// Zero bytes, whitespace, comments and a lone null all declare
	// nothing, and must parse rather than fail.
	cases := map[string]string{
		"zero bytes":   "",
		"whitespace":   "   \n\n",
		"comment only": "# nothing here\n",
		"lone null":    "---\n",
	}
	for label, content := range cases {
		node, err := Parse([]byte(content), "empty.gocd.yaml")
		require.NoError(t, err, "%s should parse", label)
		require.Equal(t, raw.KindMapping, node.Kind, label)
		require.True(t, node.IsEmpty(), label)
	}
}
