package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/gocdyaml/internal/ctxlog"
	"github.com/vk/gocdyaml/internal/plugin"
	"github.com/vk/gocdyaml/internal/report"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var err error
	if appConfig.ExportPath != "" {
		err = a.runExport(ctx, appConfig.ExportPath)
	} else {
		err = a.runParse(ctx, appConfig.RepoPath)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// runParse sends the repository through the parse-directory request and
// prints the merged configuration as indented JSON. Per-file errors do not
// stop the merge, but their presence makes the run fail after printing.
func (a *App) runParse(ctx context.Context, repoPath string) error {
	a.logger.Info("Parsing config repository.", "path", repoPath)

	body, err := json.Marshal(map[string]string{"directory": repoPath})
	if err != nil {
		return fmt.Errorf("building parse-directory request: %w", err)
	}
	resp := a.plugin.Handle(ctx, &plugin.Request{Name: plugin.ReqParseDirectory, Body: body})
	if resp.Code != plugin.CodeSuccess {
		return fmt.Errorf("parse-directory failed: %s", resp.Body)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, resp.Body, "", "  "); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Fprintln(a.outW, indented.String())

	var out struct {
		Errors map[string][]report.Error `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return fmt.Errorf("decoding output: %w", err)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("configuration has errors in %d location(s)", len(out.Errors))
	}

	a.logger.Info("Configuration parsed cleanly.")
	return nil
}

// runExport reads a pipeline entity JSON file, runs it through the
// pipeline-export request and prints the resulting YAML.
func (a *App) runExport(ctx context.Context, exportPath string) error {
	a.logger.Info("Exporting pipeline.", "path", exportPath)

	raw, err := os.ReadFile(exportPath)
	if err != nil {
		return fmt.Errorf("reading pipeline file: %w", err)
	}
	body, err := json.Marshal(map[string]json.RawMessage{"pipeline": raw})
	if err != nil {
		return fmt.Errorf("building pipeline-export request: %w", err)
	}

	resp := a.plugin.Handle(ctx, &plugin.Request{Name: plugin.ReqPipelineExport, Body: body})
	if resp.Code != plugin.CodeSuccess {
		return fmt.Errorf("pipeline-export failed: %s", resp.Body)
	}

	var out struct {
		Pipeline string `json:"pipeline"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return fmt.Errorf("decoding export response: %w", err)
	}
	fmt.Fprint(a.outW, out.Pipeline)

	a.logger.Info("Pipeline exported.", "filename", resp.Headers["X-Export-Filename"])
	return nil
}
