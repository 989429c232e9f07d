package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gocdyaml/internal/entity"
)

func TestParsePipeline_AllFields(t *testing.T) {
	t.Parallel()

	file, c := parseDoc(t, `
format_version: 10
pipelines:
  pipe1:
    group: apps
    display_order: 2
    label_template: "${COUNT}"
    lock_behavior: unlockWhenFinished
    tracking_tool:
      link: "https://issues.example.com/${ID}"
      regex: "##(\\d+)"
    timer:
      spec: "0 15 10 * * ?"
      only_on_changes: true
    environment_variables:
      DEPLOY_ENV: staging
    secure_variables:
      API_KEY: "AES:encrypted=="
    parameters:
      region: eu-west-1
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks:
                - exec:
                    command: make
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	require.Len(t, file.Pipelines, 1)
	p := file.Pipelines[0]

	require.Equal(t, "pipe1", p.Name)
	require.Equal(t, "apps", p.Group)
	require.NotNil(t, p.DisplayOrder)
	require.Equal(t, 2, *p.DisplayOrder)
	require.Equal(t, "${COUNT}", p.LabelTemplate)
	require.Equal(t, entity.LockUnlockWhenFinished, p.LockBehavior)
	require.NotNil(t, p.TrackingTool)
	require.Equal(t, "https://issues.example.com/${ID}", p.TrackingTool.Link)
	require.NotNil(t, p.Timer)
	require.True(t, p.Timer.OnlyOnChanges)

	require.Len(t, p.EnvironmentVariables, 2)
	require.Equal(t, "DEPLOY_ENV", p.EnvironmentVariables[0].Name)
	require.Equal(t, "staging", p.EnvironmentVariables[0].Value)
	require.False(t, p.EnvironmentVariables[0].Secure())
	require.Equal(t, "API_KEY", p.EnvironmentVariables[1].Name)
	require.Equal(t, "AES:encrypted==", p.EnvironmentVariables[1].EncryptedValue)
	require.True(t, p.EnvironmentVariables[1].Secure())

	require.Len(t, p.Parameters, 1)
	require.Equal(t, entity.Parameter{Name: "region", Value: "eu-west-1"}, p.Parameters[0])
	require.Len(t, p.Materials, 1)
	require.Len(t, p.Stages, 1)
}

func TestParsePipeline_TemplateReference(t *testing.T) {
	t.Parallel()

	file, c := parseDoc(t, `
format_version: 10
pipelines:
  pipe1:
    group: apps
    template: release
    materials:
      repo:
        git: https://example.com/repo.git
`)

	require.False(t, c.HasErrors(), "errors: %v", c.Errors())
	require.Equal(t, "release", file.Pipelines[0].Template)
	require.Empty(t, file.Pipelines[0].Stages)
}

func TestParsePipeline_TemplateAndStagesConflict(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, `
pipelines:
  pipe1:
    template: release
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
`)

	requireErrorCode(t, c, CodeInvalidFieldValue, "template")
}

func TestParsePipeline_MissingStages(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, `
pipelines:
  pipe1:
    materials:
      repo:
        git: https://example.com/repo.git
`)

	requireErrorCode(t, c, CodeMissingRequiredField, `"stages"`)
}

func TestParsePipeline_MissingMaterials(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, `
pipelines:
  pipe1:
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
`)

	requireErrorCode(t, c, CodeMissingRequiredField, `"materials"`)
}

func TestParsePipeline_InvalidLockBehavior(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, `
pipelines:
  pipe1:
    lock_behavior: sometimes
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks: ["make"]
`)

	requireErrorCode(t, c, CodeInvalidFieldValue, "lock_behavior")
}

func TestParsePipeline_ErrorsCarryScope(t *testing.T) {
	t.Parallel()

	_, c := parseDoc(t, `
pipelines:
  pipe1:
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs:
            compile:
              tasks:
                - exec: {}
`)

	require.True(t, c.HasErrors())
	found := false
	for _, e := range c.Errors() {
		if e.Scope == "pipeline pipe1 / stage build / job compile / task 1" {
			found = true
			require.Equal(t, CodeMissingRequiredField, e.Code)
		}
	}
	require.True(t, found, "expected a scoped error for the broken task, got %v", c.Errors())
}

func TestParsePipeline_CollectsSiblingErrors(t *testing.T) {
	t.Parallel()

	// One malformed stage must not suppress the errors of the next one.
	_, c := parseDoc(t, `
pipelines:
  pipe1:
    materials:
      repo:
        git: https://example.com/repo.git
    stages:
      - build:
          jobs: {}
      - deploy:
          approval: whenever
          jobs:
            release:
              tasks: ["./deploy.sh"]
`)

	requireErrorCode(t, c, CodeInvalidFieldValue, "at least one job")
	requireErrorCode(t, c, CodeInvalidFieldValue, "approval type")
}
