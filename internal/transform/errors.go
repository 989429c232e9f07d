package transform

import (
	"fmt"
	"strings"

	"github.com/vk/gocdyaml/internal/raw"
)

// Code classifies a structural error found while transforming a document.
type Code string

// The structural error codes surfaced by the transform layer.
const (
	CodeMissingRequiredField Code = "MissingRequiredField"
	CodeUnknownField         Code = "UnknownField"
	CodeInvalidFieldValue    Code = "InvalidFieldValue"
	CodeDuplicateName        Code = "DuplicateName"
)

// Error is one structural error, located by the entity scope it occurred in
// and, when known, the source line.
type Error struct {
	Code    Code
	Message string
	// Scope is the entity path, e.g. "pipeline mypipe / stage build".
	// Empty for errors at the document root.
	Scope string
	Line  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Scope, e.Message)
}

// Collector accumulates structural errors while a document is transformed.
// Errors are collected, never thrown: one malformed task must not suppress
// its siblings' errors. The zero value is not usable; call NewCollector.
type Collector struct {
	scope []string
	errs  []*Error
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Scope pushes an entity scope segment and returns the function that pops
// it. Use with defer:
//
//	defer c.Scope("pipeline " + name)()
func (c *Collector) Scope(segment string) func() {
	c.scope = append(c.scope, segment)
	return func() {
		c.scope = c.scope[:len(c.scope)-1]
	}
}

// Add records one error against the current scope. node supplies the source
// line and may be nil.
func (c *Collector) Add(code Code, node *raw.Node, format string, args ...any) {
	e := &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Scope:   strings.Join(c.scope, " / "),
	}
	if node != nil {
		e.Line = node.Line
	}
	c.errs = append(c.errs, e)
}

// Errors returns everything collected so far, in encounter order.
func (c *Collector) Errors() []*Error {
	return c.errs
}

// HasErrors reports whether anything was collected.
func (c *Collector) HasErrors() bool {
	return len(c.errs) > 0
}
