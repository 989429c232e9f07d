// Package plugin is the thin dispatch shell over the transform engine: it
// routes named requests to handlers and normalizes every failure into the
// uniform response envelope. All algorithmic work lives in the engine
// packages; nothing here holds state across requests beyond the immutable
// default settings.
package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/gocdyaml/internal/ctxlog"
	"github.com/vk/gocdyaml/internal/report"
)

// HandlerFunc handles one request kind.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Plugin dispatches requests to the engine.
type Plugin struct {
	settings Settings
	handlers map[string]HandlerFunc
}

// New creates a plugin with the given default settings and registers every
// request handler.
func New(settings Settings) *Plugin {
	p := &Plugin{
		settings: settings,
		handlers: make(map[string]HandlerFunc),
	}
	p.register(ReqParseDirectory, p.handleParseDirectory)
	p.register(ReqParseContent, p.handleParseContent)
	p.register(ReqPipelineExport, p.handlePipelineExport)
	p.register(ReqConfigFiles, p.handleConfigFiles)
	p.register(ReqGetCapabilities, p.handleGetCapabilities)
	p.register(ReqSettingsConfiguration, p.handleSettingsConfiguration)
	p.register(ReqSettingsValidate, p.handleSettingsValidate)
	return p
}

// register wires one request name to its handler.
func (p *Plugin) register(name string, fn HandlerFunc) {
	if _, exists := p.handlers[name]; exists {
		panic(fmt.Sprintf("request handler with name '%s' already registered", name))
	}
	p.handlers[name] = fn
}

// Handle routes one request. It never lets a failure escape as a panic or
// a bare error: a malformed request becomes a bad-request response, and an
// unexpected internal fault is logged with full detail and reported as a
// collection containing one synthetic error.
func (p *Plugin) Handle(ctx context.Context, req *Request) (resp *Response) {
	logger := ctxlog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unexpected error occurred in YAML configuration plugin.",
				"request", req.Name, "panic", r)
			resp = internalErrorResponse(r)
		}
	}()

	handler, ok := p.handlers[req.Name]
	if !ok {
		return badRequest(fmt.Sprintf("unhandled request name %q", req.Name))
	}

	logger.Debug("Dispatching plugin request.", "request", req.Name)
	resp, err := handler(ctx, req)
	if err != nil {
		var badReq *badRequestError
		if errors.As(err, &badReq) {
			return badRequest(badReq.message)
		}
		logger.Error("Unexpected error occurred in YAML configuration plugin.",
			"request", req.Name, "error", err)
		return internalErrorResponse(err)
	}
	return resp
}

// badRequestError marks a request the caller got wrong, as opposed to an
// engine fault.
type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

func badRequestf(format string, args ...any) error {
	return &badRequestError{message: fmt.Sprintf(format, args...)}
}

func badRequest(message string) *Response {
	body, _ := json.Marshal(map[string]string{"message": message})
	return &Response{Code: CodeBadRequest, Body: body}
}

// internalErrorResponse is the synthetic one-error collection reported for
// unexpected faults, so the caller always receives the uniform structure.
func internalErrorResponse(cause any) *Response {
	out := struct {
		Pipelines    []any                     `json:"pipelines"`
		Environments []any                     `json:"environments"`
		Errors       map[string][]report.Error `json:"errors"`
	}{
		Pipelines:    []any{},
		Environments: []any{},
		Errors: map[string][]report.Error{
			"YAML config plugin": {
				report.NewError("YAML config plugin", "%v", cause),
			},
		},
	}
	body, _ := json.Marshal(out)
	return &Response{Code: CodeInternalError, Body: body}
}

func successJSON(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling response: %w", err)
	}
	return &Response{Code: CodeSuccess, Body: body}, nil
}

// filePattern resolves the glob with the documented precedence: the
// per-request configuration, then the plugin settings, then the built-in
// default (applied by fsutil when this returns "").
func (p *Plugin) filePattern(cfg requestConfiguration) string {
	if cfg.FilePattern != "" {
		return cfg.FilePattern
	}
	return p.settings.FilePattern
}
