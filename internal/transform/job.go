package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// Jobs are a name→body mapping within their stage; duplicate job names are
// reported against the stage.

func parseJobs(c *Collector, stageBody *raw.Node) []entity.Job {
	node := stageBody.Get("jobs")
	if node == nil {
		c.Add(CodeMissingRequiredField, stageBody, "missing required field %q", "jobs")
		return nil
	}
	if !expectMapping(c, node, "jobs") {
		return nil
	}
	if len(node.Pairs) == 0 {
		c.Add(CodeInvalidFieldValue, node, "a stage needs at least one job")
		return nil
	}
	var out []entity.Job
	namedEntries(c, node, "job", func(name string, body *raw.Node) {
		pop := c.Scope("job " + name)
		if job, ok := parseJob(c, name, body); ok {
			out = append(out, job)
		}
		pop()
	})
	return out
}

func parseJob(c *Collector, name string, body *raw.Node) (entity.Job, bool) {
	if !expectMapping(c, body, "job") {
		return entity.Job{}, false
	}
	rejectUnknown(c, body, "timeout", "run_instance_count", "elastic_profile_id", "resources",
		"tabs", "artifacts", "environment_variables", "secure_variables", "tasks")

	job := entity.Job{Name: name}
	if timeout, ok := intField(c, body, "timeout"); ok {
		if timeout < 0 {
			c.Add(CodeInvalidFieldValue, body.Get("timeout"), "timeout cannot be negative")
		} else {
			job.Timeout = &timeout
		}
	}
	if count := body.Get("run_instance_count"); count != nil {
		job.RunInstanceCount = normalizeRunInstanceCount(c, count)
	}
	job.ElasticProfileID, _ = stringField(c, body, "elastic_profile_id")
	job.Resources = stringListField(c, body, "resources")
	if job.ElasticProfileID != "" && len(job.Resources) > 0 {
		c.Add(CodeInvalidFieldValue, body, "elastic_profile_id and resources are mutually exclusive")
	}
	job.Tabs = parseTabs(c, body)
	job.Artifacts = parseArtifacts(c, body)
	job.EnvironmentVariables = parseEnvironmentVariables(c, body)
	job.Tasks = parseTasks(c, body, "tasks")
	return job, true
}

// Tabs are a name→path mapping.
func parseTabs(c *Collector, body *raw.Node) []entity.Tab {
	node := body.Get("tabs")
	if node == nil {
		return nil
	}
	if !expectMapping(c, node, "tabs") {
		return nil
	}
	var out []entity.Tab
	namedEntries(c, node, "tab", func(name string, value *raw.Node) {
		path, ok := value.AsString()
		if !ok {
			c.Add(CodeInvalidFieldValue, value, "tab %q must map to a path string", name)
			return
		}
		out = append(out, entity.Tab{Name: name, Path: path})
	})
	return out
}

// Artifacts are a sequence of single-key mappings keyed by artifact kind:
//
//	artifacts:
//	  - build:
//	      source: bin/
//	  - external:
//	      id: docker-image
//	      store_id: dockerhub
func parseArtifacts(c *Collector, body *raw.Node) []entity.Artifact {
	node := body.Get("artifacts")
	if node == nil {
		return nil
	}
	if node.Kind != raw.KindSequence {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a list", "artifacts")
		return nil
	}
	var out []entity.Artifact
	for _, item := range node.Items {
		kind, artifactBody, ok := singleKeyEntry(c, item, "artifact")
		if !ok {
			continue
		}
		if artifact, ok := parseArtifact(c, kind, artifactBody); ok {
			out = append(out, artifact)
		}
	}
	return out
}

func parseArtifact(c *Collector, kind string, body *raw.Node) (entity.Artifact, bool) {
	if !expectMapping(c, body, kind+" artifact") {
		return entity.Artifact{}, false
	}
	artifact := entity.Artifact{Type: kind}
	switch kind {
	case entity.ArtifactBuild, entity.ArtifactTest:
		rejectUnknown(c, body, "source", "destination")
		artifact.Source, _ = requiredStringField(c, body, "source")
		artifact.Destination, _ = stringField(c, body, "destination")
	case entity.ArtifactExternal:
		rejectUnknown(c, body, "id", "store_id", "options", "secure_options")
		artifact.ID, _ = requiredStringField(c, body, "id")
		artifact.StoreID, _ = requiredStringField(c, body, "store_id")
		artifact.Configuration = parseOptions(c, body)
	default:
		c.Add(CodeInvalidFieldValue, body, "unknown artifact kind %q; expected %q, %q or %q",
			kind, entity.ArtifactBuild, entity.ArtifactTest, entity.ArtifactExternal)
		return entity.Artifact{}, false
	}
	return artifact, true
}

// InverseJob renders a job body in canonical order.
func InverseJob(job *entity.Job) *raw.Node {
	body := raw.NewMapping()
	if job.Timeout != nil {
		body.SetScalar("timeout", *job.Timeout)
	}
	if job.RunInstanceCount != "" {
		body.SetScalar("run_instance_count", job.RunInstanceCount)
	}
	if job.ElasticProfileID != "" {
		body.SetScalar("elastic_profile_id", job.ElasticProfileID)
	}
	if len(job.Resources) > 0 {
		resources := raw.NewSequence()
		for _, r := range job.Resources {
			resources.Append(raw.NewScalar(r))
		}
		body.Set("resources", resources)
	}
	if len(job.Tabs) > 0 {
		tabs := raw.NewMapping()
		for _, tab := range job.Tabs {
			tabs.SetScalar(tab.Name, tab.Path)
		}
		body.Set("tabs", tabs)
	}
	if len(job.Artifacts) > 0 {
		body.Set("artifacts", inverseArtifacts(job.Artifacts))
	}
	inverseEnvironmentVariables(job.EnvironmentVariables, body)
	body.Set("tasks", inverseTasks(job.Tasks))
	return body
}

func inverseArtifacts(artifacts []entity.Artifact) *raw.Node {
	seq := raw.NewSequence()
	for _, artifact := range artifacts {
		body := raw.NewMapping()
		switch artifact.Type {
		case entity.ArtifactExternal:
			body.SetScalar("id", artifact.ID)
			body.SetScalar("store_id", artifact.StoreID)
			inverseOptions(artifact.Configuration, body)
		default:
			body.SetScalar("source", artifact.Source)
			if artifact.Destination != "" {
				body.SetScalar("destination", artifact.Destination)
			}
		}
		entry := raw.NewMapping()
		entry.Set(artifact.Type, body)
		seq.Append(entry)
	}
	return seq
}

// inverseJobs renders the jobs mapping keyed by job name.
func inverseJobs(jobs []entity.Job) *raw.Node {
	node := raw.NewMapping()
	for i := range jobs {
		node.Set(jobs[i].Name, InverseJob(&jobs[i]))
	}
	return node
}
