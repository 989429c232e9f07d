// Package collection aggregates the entities parsed from every file of a
// config repository into one merged, schema-versioned model. Files are
// added one at a time; nothing ever aborts the batch. Every failure —
// malformed document, structural error, cross-file conflict — becomes an
// entry in the error map keyed by its originating file(s), so a consumer
// sees every problem across the whole repository in one round trip.
package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/reader"
	"github.com/vk/gocdyaml/internal/report"
	"github.com/vk/gocdyaml/internal/transform"
)

// Collection is the running merged model. Create one per parse request
// with New, feed it files in lexical path order with AddFile, then call
// Finalize exactly once. After Finalize the collection is read-only.
type Collection struct {
	defaultVersion string

	pipelines    []origin[entity.Pipeline]
	environments []origin[entity.Environment]
	templates    []origin[entity.Template]

	// versions maps each contributing file to its declared (or defaulted)
	// format version. Empty files never appear here.
	versions     map[string]string
	versionOrder []string

	errs      map[string][]report.Error
	finalized bool
	target    string
}

// origin pairs an entity with the file it came from, for cross-file
// duplicate attribution.
type origin[T any] struct {
	path  string
	value T
}

// New creates an empty collection. defaultVersion applies to non-empty
// files that declare no format_version; pass "" to use the dialect default.
func New(defaultVersion string) *Collection {
	if defaultVersion == "" {
		defaultVersion = transform.DefaultFormatVersion
	}
	return &Collection{
		defaultVersion: defaultVersion,
		versions:       make(map[string]string),
		errs:           make(map[string][]report.Error),
	}
}

// AddFile incorporates one file into the running model. It never fails:
// parse and structural errors are recorded against the path and processing
// of later files continues. Calling AddFile after Finalize panics.
func (c *Collection) AddFile(path string, content []byte) {
	if c.finalized {
		panic("collection: AddFile after Finalize")
	}

	node, err := reader.Parse(content, path)
	if err != nil {
		c.errs[path] = append(c.errs[path], report.NewError(path, "%v", err))
		return
	}

	tc := transform.NewCollector()
	file := transform.ParseFile(tc, node)
	for _, e := range tc.Errors() {
		c.errs[path] = append(c.errs[path], report.NewError(path, "%v", e))
	}

	// An empty file declares nothing: no entities, no version vote.
	if file.IsEmpty() && !tc.HasErrors() {
		return
	}

	version := file.FormatVersion
	if version == "" {
		version = c.defaultVersion
	}
	c.versions[path] = version
	c.versionOrder = append(c.versionOrder, path)

	for _, p := range file.Pipelines {
		c.pipelines = append(c.pipelines, origin[entity.Pipeline]{path: path, value: p})
	}
	for _, env := range file.Environments {
		c.environments = append(c.environments, origin[entity.Environment]{path: path, value: env})
	}
	for _, tpl := range file.Templates {
		c.templates = append(c.templates, origin[entity.Template]{path: path, value: tpl})
	}
}

// AddError records an error that did not come from parsing a file, such as
// an unreadable path, against the given location.
func (c *Collection) AddError(location string, err report.Error) {
	c.errs[location] = append(c.errs[location], err)
}

// Finalize resolves the collection-level checks that only make sense once
// every file is in: schema-version consistency and global name uniqueness.
// It is idempotent to call exactly once; the collection is read-only
// afterwards.
func (c *Collection) Finalize() {
	if c.finalized {
		panic("collection: Finalize called twice")
	}
	c.finalized = true

	c.resolveVersion()
	c.pipelines = dedupe(c, "pipeline", c.pipelines, func(p entity.Pipeline) string { return p.Name })
	c.environments = dedupe(c, "environment", c.environments, func(e entity.Environment) string { return e.Name })
	c.templates = dedupe(c, "template", c.templates, func(t entity.Template) string { return t.Name })
}

// resolveVersion requires every contributing file to declare the same
// version. On conflict one collection-level error names every file with
// its version, and no target version is resolved.
func (c *Collection) resolveVersion() {
	if len(c.versionOrder) == 0 {
		return
	}
	first := c.versions[c.versionOrder[0]]
	consistent := true
	for _, path := range c.versionOrder {
		if c.versions[path] != first {
			consistent = false
			break
		}
	}
	if consistent {
		c.target = first
		return
	}

	paths := make([]string, len(c.versionOrder))
	copy(paths, c.versionOrder)
	sort.Strings(paths)
	var parts []string
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s declares %q", path, c.versions[path]))
	}
	location := strings.Join(paths, ", ")
	c.errs[location] = append(c.errs[location], report.NewError(location,
		"VersionMismatch: all files must declare the same format_version: %s",
		strings.Join(parts, ", ")))
}

// dedupe keeps the first occurrence of each name and records one
// DuplicateName error naming every file that defines it again.
func dedupe[T any](c *Collection, what string, entries []origin[T], name func(T) string) []origin[T] {
	firstByName := make(map[string]string, len(entries))
	dupFiles := make(map[string][]string)

	kept := entries[:0]
	for _, e := range entries {
		n := name(e.value)
		if _, seen := firstByName[n]; !seen {
			firstByName[n] = e.path
			kept = append(kept, e)
			continue
		}
		if len(dupFiles[n]) == 0 {
			dupFiles[n] = append(dupFiles[n], firstByName[n])
		}
		dupFiles[n] = append(dupFiles[n], e.path)
	}

	names := make([]string, 0, len(dupFiles))
	for n := range dupFiles {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		paths := dupFiles[n]
		sort.Strings(paths)
		location := strings.Join(uniqueStrings(paths), ", ")
		c.errs[location] = append(c.errs[location], report.NewError(location,
			"DuplicateName: %s %q is defined in more than one place: %s",
			what, n, location))
	}
	return kept
}

func uniqueStrings(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}

// TargetVersion returns the resolved schema version, empty when resolution
// failed or no file declared one.
func (c *Collection) TargetVersion() string {
	return c.target
}

// HasErrors reports whether any error was recorded at any tier.
func (c *Collection) HasErrors() bool {
	return len(c.errs) > 0
}

// Output is the serializable form of the merged model. Entities from clean
// files are present even when sibling files failed; consumers must consult
// Errors before trusting entities from a path that appears there.
type Output struct {
	TargetVersion string                    `json:"target_version,omitempty"`
	Pipelines     []entity.Pipeline         `json:"pipelines"`
	Environments  []entity.Environment      `json:"environments"`
	Templates     []entity.Template         `json:"templates,omitempty"`
	Errors        map[string][]report.Error `json:"errors"`
}

// Output freezes the collection into its serializable form. It must only
// be called after Finalize.
func (c *Collection) Output() *Output {
	if !c.finalized {
		panic("collection: Output before Finalize")
	}
	out := &Output{
		TargetVersion: c.target,
		Pipelines:     []entity.Pipeline{},
		Environments:  []entity.Environment{},
		Errors:        c.errs,
	}
	for _, p := range c.pipelines {
		out.Pipelines = append(out.Pipelines, p.value)
	}
	for _, env := range c.environments {
		out.Environments = append(out.Environments, env.value)
	}
	for _, tpl := range c.templates {
		out.Templates = append(out.Templates, tpl.value)
	}
	return out
}
