package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/entity"
)

// pipelineWithStages wraps the stage list into a minimal valid document and
// returns the parsed pipeline.
func pipelineWithStages(t *testing.T, stagesYAML string) (entity.Pipeline, *Collector) {
	t.Helper()
	file, c := parseDoc(t, `
pipelines:
  pipe1:
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
`+stagesYAML)
	require.Len(t, file.Pipelines, 1)
	return file.Pipelines[0], c
}

func TestParseStage_Defaults(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - build:
          jobs:
            compile:
              tasks: ["make"]
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	stage := p.Stages[0]
	require.Equal(t, "build", stage.Name)
	require.True(t, stage.Approval.IsDefault())
	require.Nil(t, stage.FetchMaterials, "the default for fetch_materials stays implicit")
	require.False(t, stage.CleanWorkingDirectory)
	require.False(t, stage.NeverCleanupArtifacts)
}

func TestParseStage_ApprovalShorthand(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - deploy:
          approval: manual
          jobs:
            release:
              tasks: ["./deploy.sh"]
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	require.Equal(t, entity.ApprovalManual, p.Stages[0].Approval.Type)
}

func TestParseStage_ApprovalLongForm(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - deploy:
          approval:
            type: manual
            roles:
              - operators
            users:
              - alice
            allow_only_on_success: true
          jobs:
            release:
              tasks: ["./deploy.sh"]
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	approval := p.Stages[0].Approval
	require.Equal(t, entity.ApprovalManual, approval.Type)
	require.Equal(t, []string{"operators"}, approval.Roles)
	require.Equal(t, []string{"alice"}, approval.Users)
	require.True(t, approval.AllowOnlyOnSuccess)
}

func TestParseStage_InvalidApprovalType(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - deploy:
          approval: whenever
          jobs:
            release:
              tasks: ["./deploy.sh"]
`)

	requireErrorCode(t, c, CodeInvalidFieldValue, "approval type")
	require.Equal(t, DefaultApprovalType, p.Stages[0].Approval.Type,
		"an invalid approval falls back to the default so later checks still run")
}

func TestParseStage_Flags(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - build:
          fetch_materials: false
          keep_artifacts: true
          clean_workspace: true
          jobs:
            compile:
              tasks: ["make"]
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	stage := p.Stages[0]
	require.NotNil(t, stage.FetchMaterials)
	require.False(t, *stage.FetchMaterials)
	require.True(t, stage.NeverCleanupArtifacts)
	require.True(t, stage.CleanWorkingDirectory)
}

func TestParseStages_DuplicateStageName(t *testing.T) {
	t.Parallel()

	p, c := pipelineWithStages(t, `
      - build:
          jobs:
            compile:
              tasks: ["make"]
      - build:
          jobs:
            again:
              tasks: ["make"]
`)

	requireErrorCode(t, c, CodeDuplicateName, "build")
	require.Len(t, p.Stages, 1, "the first occurrence is kept")
	require.Equal(t, "compile", p.Stages[0].Jobs[0].Name)
}

func TestParseStages_EntryMustBeSingleKey(t *testing.T) {
	t.Parallel()

	_, c := pipelineWithStages(t, `
      - build: {jobs: {compile: {tasks: ["make"]}}}
        deploy: {jobs: {release: {tasks: ["./go"]}}}
`)

	requireErrorCode(t, c, CodeInvalidFieldValue, "single-key")
}

func TestParseStage_JobsRequired(t *testing.T) {
	t.Parallel()

	_, c := pipelineWithStages(t, `
      - build: {}
`)

	requireErrorCode(t, c, CodeMissingRequiredField, `"jobs"`)
}
