// Package reader turns one textual YAML document into a raw node tree. It is
// a pure function of its input: no file system access, no state.
package reader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vk/gocdyaml/internal/raw"
)

// MalformedDocumentError reports a document that could not be parsed at all.
// The wrapped error is the YAML library's syntax error, which includes line
// information when available.
type MalformedDocumentError struct {
	Filename string
	Err      error
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: malformed document: %v", e.Filename, e.Err)
}

// Unwrap exposes the underlying syntax error.
func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Parse reads one YAML document and returns its raw node tree. An empty
// document (zero bytes, only whitespace, or only comments) is a valid file
// that declares nothing, and parses to an empty mapping rather than an
// error.
func Parse(content []byte, filename string) (*raw.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &MalformedDocumentError{Filename: filename, Err: err}
	}

	// An empty document decodes into a zero node.
	if doc.Kind == 0 {
		return raw.NewMapping(), nil
	}

	node, err := raw.FromYAML(&doc)
	if err != nil {
		return nil, &MalformedDocumentError{Filename: filename, Err: err}
	}

	// A document holding a lone null (for example "---") also declares
	// nothing.
	if node.Kind == raw.KindScalar && node.Value == nil {
		return raw.NewMapping(), nil
	}
	return node, nil
}
