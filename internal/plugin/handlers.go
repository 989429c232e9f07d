package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/gocdyaml/internal/collection"
	"github.com/vk/gocdyaml/internal/ctxlog"
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/export"
	"github.com/vk/gocdyaml/internal/fsutil"
	"github.com/vk/gocdyaml/internal/report"
)

// handleParseDirectory discovers every config file under the base
// directory, parses them in lexical order into a fresh collection and
// responds with the merged model. A file that fails to parse or even to
// read contributes errors, never a failed request.
func (p *Plugin) handleParseDirectory(ctx context.Context, req *Request) (*Response, error) {
	var params struct {
		Directory     string               `json:"directory"`
		Configuration requestConfiguration `json:"configuration"`
	}
	if err := json.Unmarshal(req.Body, &params); err != nil {
		return nil, badRequestf("invalid parse-directory request: %v", err)
	}
	if params.Directory == "" {
		return nil, badRequestf("invalid parse-directory request: missing directory")
	}

	files, err := fsutil.FindConfigFiles(params.Directory, p.filePattern(params.Configuration))
	if err != nil {
		return nil, badRequestf("cannot scan directory %q: %v", params.Directory, err)
	}
	ctxlog.FromContext(ctx).Debug("Parsing config repository.",
		"directory", params.Directory, "files", len(files))

	col := collection.New("")
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(params.Directory, filepath.FromSlash(rel)))
		if err != nil {
			col.AddError(rel, report.NewError(rel, "cannot read file: %v", err))
			continue
		}
		col.AddFile(rel, content)
	}
	col.Finalize()
	return successJSON(col.Output())
}

// handleParseContent parses documents supplied inline, keyed by logical
// filename, without touching the file system.
func (p *Plugin) handleParseContent(ctx context.Context, req *Request) (*Response, error) {
	var params struct {
		Contents map[string]string `json:"contents"`
	}
	if err := json.Unmarshal(req.Body, &params); err != nil {
		return nil, badRequestf("invalid parse-content request: %v", err)
	}

	// Map order is not deterministic; lexical path order is.
	paths := make([]string, 0, len(params.Contents))
	for path := range params.Contents {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	col := collection.New("")
	for _, path := range paths {
		col.AddFile(path, []byte(params.Contents[path]))
	}
	col.Finalize()
	return successJSON(col.Output())
}

// handlePipelineExport runs the inverse transform over one pipeline entity
// and responds with the YAML text plus the suggested filename and content
// type as response headers.
func (p *Plugin) handlePipelineExport(ctx context.Context, req *Request) (*Response, error) {
	var params struct {
		Pipeline *entity.Pipeline `json:"pipeline"`
	}
	if err := json.Unmarshal(req.Body, &params); err != nil {
		return nil, badRequestf("invalid pipeline-export request: %v", err)
	}
	if params.Pipeline == nil {
		return nil, badRequestf("invalid pipeline-export request: missing pipeline")
	}

	result, err := export.Pipeline(params.Pipeline)
	if err != nil {
		return nil, badRequestf("%v", err)
	}
	ctxlog.FromContext(ctx).Debug("Exported pipeline.", "name", params.Pipeline.Name)

	resp, err := successJSON(map[string]string{"pipeline": string(result.Content)})
	if err != nil {
		return nil, err
	}
	resp.Headers = map[string]string{
		"Content-Type":      result.ContentType,
		"X-Export-Filename": result.Filename,
	}
	return resp, nil
}

// handleConfigFiles lists the files the default or supplied pattern
// matches, without parsing them.
func (p *Plugin) handleConfigFiles(ctx context.Context, req *Request) (*Response, error) {
	var params struct {
		Directory     string               `json:"directory"`
		Configuration requestConfiguration `json:"configuration"`
	}
	if err := json.Unmarshal(req.Body, &params); err != nil {
		return nil, badRequestf("invalid config-files request: %v", err)
	}
	if params.Directory == "" {
		return nil, badRequestf("invalid config-files request: missing directory")
	}

	files, err := fsutil.FindConfigFiles(params.Directory, p.filePattern(params.Configuration))
	if err != nil {
		return nil, badRequestf("cannot scan directory %q: %v", params.Directory, err)
	}
	if files == nil {
		files = []string{}
	}
	return successJSON(map[string][]string{"files": files})
}

func (p *Plugin) handleGetCapabilities(ctx context.Context, req *Request) (*Response, error) {
	return successJSON(report.EngineCapabilities())
}

// handleSettingsConfiguration describes the settings fields the host may
// render: just the file pattern.
func (p *Plugin) handleSettingsConfiguration(ctx context.Context, req *Request) (*Response, error) {
	return successJSON(map[string]any{
		"file_pattern": map[string]any{
			"display-name":  "YAML file pattern",
			"default-value": fsutil.DefaultPattern,
			"required":      false,
			"secure":        false,
			"display-order": "0",
		},
	})
}

// handleSettingsValidate accepts any pattern; an empty validation-error
// list means the settings are fine.
func (p *Plugin) handleSettingsValidate(ctx context.Context, req *Request) (*Response, error) {
	return successJSON([]any{})
}
