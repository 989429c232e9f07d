package plugin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/report"
	"github.com/vk/gocdyaml/internal/testutil"
)

const validPipelineDoc = `
format_version: 10
pipelines:
  pipe1:
    group: apps
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
`

// handle runs one request against a fresh default-settings plugin.
func handle(t *testing.T, name string, body any) *Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return New(Settings{}).Handle(context.Background(), &Request{Name: name, Body: raw})
}

// decodeOutput unmarshals a merged-model response body.
type mergedOutput struct {
	TargetVersion string                    `json:"target_version"`
	Pipelines     []json.RawMessage         `json:"pipelines"`
	Environments  []json.RawMessage         `json:"environments"`
	Errors        map[string][]report.Error `json:"errors"`
}

func decodeOutput(t *testing.T, resp *Response) mergedOutput {
	t.Helper()
	var out mergedOutput
	require.NoError(t, json.Unmarshal(resp.Body, &out))
	return out
}

func TestHandle_UnknownRequestName(t *testing.T) {
	t.Parallel()

	resp := New(Settings{}).Handle(context.Background(), &Request{Name: "no-such-request"})

	require.Equal(t, CodeBadRequest, resp.Code)
	require.Contains(t, string(resp.Body), "no-such-request")
}

func TestHandle_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	p := New(Settings{})
	require.Panics(t, func() {
		p.register(ReqGetCapabilities, p.handleGetCapabilities)
	})
}

func TestHandle_PanicBecomesErrorEnvelope(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	p := New(Settings{})
	p.register("explode", func(ctx context.Context, req *Request) (*Response, error) {
		panic("boom")
	})

	// --- Act ---
	resp := p.Handle(context.Background(), &Request{Name: "explode"})

	// --- Assert ---
	require.Equal(t, CodeInternalError, resp.Code)
	out := decodeOutput(t, resp)
	require.NotNil(t, out.Pipelines, "the envelope keeps the merged-model shape")
	require.Len(t, out.Errors["YAML config plugin"], 1)
	require.Contains(t, out.Errors["YAML config plugin"][0].Message, "boom")
}

func TestHandle_GetCapabilities(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqGetCapabilities, nil)

	require.Equal(t, CodeSuccess, resp.Code)
	require.JSONEq(t, `{
		"supports_pipeline_export": true,
		"supports_parse_content": true,
		"supports_list_config_files": true
	}`, string(resp.Body))
}

func TestHandle_ParseContent(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqParseContent, map[string]any{
		"contents": map[string]string{"pipe.gocd.yaml": validPipelineDoc},
	})

	require.Equal(t, CodeSuccess, resp.Code)
	out := decodeOutput(t, resp)
	require.Equal(t, "10", out.TargetVersion)
	require.Len(t, out.Pipelines, 1)
	require.Empty(t, out.Errors)
}

func TestHandle_ParseContent_DeterministicOrder(t *testing.T) {
	t.Parallel()

	// Two files defining the same pipeline: the lexically first path wins
	// regardless of map iteration order.
	resp := handle(t, ReqParseContent, map[string]any{
		"contents": map[string]string{
			"b.gocd.yaml": validPipelineDoc,
			"a.gocd.yaml": validPipelineDoc,
		},
	})

	out := decodeOutput(t, resp)
	require.Len(t, out.Pipelines, 1)
	require.Contains(t, out.Errors, "a.gocd.yaml, b.gocd.yaml")
}

func TestHandle_ParseDirectory(t *testing.T) {
	t.Parallel()

	root := testutil.WriteRepo(t, map[string]string{
		"pipe.gocd.yaml":   validPipelineDoc,
		"broken.gocd.yaml": "key: [unclosed\n",
		"ignored.txt":      "not yaml",
	})

	resp := handle(t, ReqParseDirectory, map[string]any{"directory": root})

	require.Equal(t, CodeSuccess, resp.Code, "per-file failures never fail the request")
	out := decodeOutput(t, resp)
	require.Len(t, out.Pipelines, 1)
	require.Contains(t, out.Errors, "broken.gocd.yaml")
}

func TestHandle_ParseDirectory_MissingDirectory(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqParseDirectory, map[string]any{})

	require.Equal(t, CodeBadRequest, resp.Code)
}

func TestHandle_ConfigFiles(t *testing.T) {
	t.Parallel()

	root := testutil.WriteRepo(t, map[string]string{
		"a.gocd.yaml": "",
		"b.yaml":      "",
	})

	resp := handle(t, ReqConfigFiles, map[string]any{"directory": root})

	require.Equal(t, CodeSuccess, resp.Code)
	require.JSONEq(t, `{"files": ["a.gocd.yaml"]}`, string(resp.Body))
}

func TestHandle_ConfigFiles_PatternPrecedence(t *testing.T) {
	t.Parallel()

	root := testutil.WriteRepo(t, map[string]string{
		"a.gocd.yaml": "",
		"b.yaml":      "",
	})

	// Plugin-level settings override the default.
	p := New(Settings{FilePattern: "*.yaml"})
	body, _ := json.Marshal(map[string]any{"directory": root})
	resp := p.Handle(context.Background(), &Request{Name: ReqConfigFiles, Body: body})
	require.JSONEq(t, `{"files": ["a.gocd.yaml", "b.yaml"]}`, string(resp.Body))

	// The per-request configuration overrides the plugin settings.
	body, _ = json.Marshal(map[string]any{
		"directory":     root,
		"configuration": map[string]string{"file_pattern": "b.*"},
	})
	resp = p.Handle(context.Background(), &Request{Name: ReqConfigFiles, Body: body})
	require.JSONEq(t, `{"files": ["b.yaml"]}`, string(resp.Body))
}

func TestHandle_PipelineExport(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqPipelineExport, map[string]any{
		"pipeline": map[string]any{
			"name":  "pipe1",
			"group": "apps",
		},
	})

	require.Equal(t, CodeSuccess, resp.Code)
	require.Equal(t, "application/x-yaml; charset=utf-8", resp.Headers["Content-Type"])
	require.Equal(t, "pipe1.gocd.yaml", resp.Headers["X-Export-Filename"])

	var out struct {
		Pipeline string `json:"pipeline"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &out))
	require.Contains(t, out.Pipeline, "format_version: 10")
	require.Contains(t, out.Pipeline, "pipe1:")
}

func TestHandle_PipelineExport_MissingPipeline(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqPipelineExport, map[string]any{})

	require.Equal(t, CodeBadRequest, resp.Code)
	require.Contains(t, string(resp.Body), "missing pipeline")
}

func TestHandle_SettingsConfiguration(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqSettingsConfiguration, nil)

	require.Equal(t, CodeSuccess, resp.Code)
	var fields map[string]map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &fields))
	require.Contains(t, fields, "file_pattern")
	require.Equal(t, "**/*.gocd.yaml", fields["file_pattern"]["default-value"])
}

func TestHandle_SettingsValidate(t *testing.T) {
	t.Parallel()

	resp := handle(t, ReqSettingsValidate, map[string]any{
		"plugin-settings": map[string]any{"file_pattern": map[string]string{"value": "*.yaml"}},
	})

	require.Equal(t, CodeSuccess, resp.Code)
	require.JSONEq(t, `[]`, string(resp.Body))
}
