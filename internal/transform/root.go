package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// File holds everything one document contributed: its declared dialect
// version and the entities it defines. FormatVersion is empty when the
// document declares none; the collection decides what that means.
type File struct {
	FormatVersion string
	Pipelines     []entity.Pipeline
	Environments  []entity.Environment
	Templates     []entity.Template
}

// rootKeys are the accepted top-level fields. "common" is a free-form
// extension point whose only purpose is to host YAML anchors, so its
// content is ignored entirely.
var rootKeys = []string{"format_version", "pipelines", "environments", "templates", "common"}

// ParseFile transforms one document's raw tree into its File contribution,
// collecting structural errors instead of stopping at the first one.
func ParseFile(c *Collector, node *raw.Node) *File {
	file := &File{}
	if node.Kind != raw.KindMapping {
		c.Add(CodeInvalidFieldValue, node, "the document root must be a mapping, got a %s", node.Kind)
		return file
	}
	rejectUnknown(c, node, rootKeys...)

	if version := node.Get("format_version"); version != nil {
		s, ok := version.AsString()
		if !ok {
			c.Add(CodeInvalidFieldValue, version, "format_version must be a number or string")
		} else {
			file.FormatVersion = s
		}
	}

	if pipelines := node.Get("pipelines"); pipelines != nil {
		if expectMapping(c, pipelines, "pipelines") {
			namedEntries(c, pipelines, "pipeline", func(name string, body *raw.Node) {
				if p, ok := ParsePipeline(c, name, body); ok {
					file.Pipelines = append(file.Pipelines, p)
				}
			})
		}
	}

	if environments := node.Get("environments"); environments != nil {
		if expectMapping(c, environments, "environments") {
			namedEntries(c, environments, "environment", func(name string, body *raw.Node) {
				if env, ok := ParseEnvironment(c, name, body); ok {
					file.Environments = append(file.Environments, env)
				}
			})
		}
	}

	if templates := node.Get("templates"); templates != nil {
		if expectMapping(c, templates, "templates") {
			namedEntries(c, templates, "template", func(name string, body *raw.Node) {
				if tpl, ok := ParseTemplate(c, name, body); ok {
					file.Templates = append(file.Templates, tpl)
				}
			})
		}
	}
	return file
}

// IsEmpty reports whether the file contributed nothing: no version and no
// entities. Empty files are legitimate and stay out of version resolution.
func (f *File) IsEmpty() bool {
	return f.FormatVersion == "" && len(f.Pipelines) == 0 &&
		len(f.Environments) == 0 && len(f.Templates) == 0
}
