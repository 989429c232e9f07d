// Package export runs the inverse transform over a canonical pipeline
// entity and serializes it to the dialect's textual form. The entity may
// come from anywhere — typically a server-side store rather than a YAML
// file — as long as it has the shape the forward transform produces.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
	"github.com/vk/gocdyaml/internal/transform"
)

// ContentType identifies the exported text.
const ContentType = "application/x-yaml; charset=utf-8"

// FilenameSuffix is appended to the pipeline name to suggest a filename.
const FilenameSuffix = ".gocd.yaml"

const yamlIndent = 2

// Result is one exported pipeline document.
type Result struct {
	// Content is the YAML text. Exporting the same entity twice yields
	// byte-identical content: field order is the canonical order per
	// entity kind, never insertion order.
	Content []byte
	// Filename is the suggested name, "<pipeline-name>.gocd.yaml".
	Filename string
	// ContentType tags the text as YAML.
	ContentType string
}

// Pipeline exports one pipeline entity as a complete document: the current
// format version plus the pipeline under its name. It fails only on
// invariants the forward transform would have rejected.
func Pipeline(p *entity.Pipeline) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("export: nil pipeline")
	}
	if p.Name == "" {
		return nil, fmt.Errorf("export: pipeline has no name")
	}

	// The version is numeric in the textual form; parsing normalizes it
	// back to the same string.
	version, _ := strconv.Atoi(transform.CurrentFormatVersion)

	doc := raw.NewMapping()
	doc.SetScalar("format_version", version)
	pipelines := raw.NewMapping()
	pipelines.Set(p.Name, transform.InversePipeline(p))
	doc.Set("pipelines", pipelines)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(doc.ToYAML()); err != nil {
		return nil, fmt.Errorf("export: encoding pipeline %q: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("export: encoding pipeline %q: %w", p.Name, err)
	}

	return &Result{
		Content:     buf.Bytes(),
		Filename:    p.Name + FilenameSuffix,
		ContentType: ContentType,
	}, nil
}
