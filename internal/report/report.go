// Package report defines the uniform reporting structures the boundary
// layer serializes outward: file-attributed errors and the static
// capability descriptor. Pure data, no behavior beyond construction.
package report

import "fmt"

// Error is one normalized error: a message plus the context it originated
// from (a file path, a set of file paths, or a subsystem name). Never
// mutated after creation.
type Error struct {
	Message  string `json:"message"`
	Location string `json:"location"`
}

// NewError builds an error from a message and its originating context.
func NewError(location, format string, args ...any) Error {
	return Error{Message: fmt.Sprintf(format, args...), Location: location}
}

// Capabilities describes the static feature set of the engine.
type Capabilities struct {
	SupportsPipelineExport  bool `json:"supports_pipeline_export"`
	SupportsParseContent    bool `json:"supports_parse_content"`
	SupportsListConfigFiles bool `json:"supports_list_config_files"`
}

// EngineCapabilities is the descriptor this engine advertises.
func EngineCapabilities() Capabilities {
	return Capabilities{
		SupportsPipelineExport:  true,
		SupportsParseContent:    true,
		SupportsListConfigFiles: true,
	}
}
