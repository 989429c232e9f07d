package transform

import (
	"fmt"
	"strconv"

	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// A task entry is either a bare string (shorthand for an exec task whose
// command is the whole string, with no arguments) or a mapping with exactly
// one key naming the kind:
//
//	- "make test"
//	- exec:
//	    command: make
//	    arguments: [test]
//
// Both directions switch exhaustively over entity.TaskTypes.

func parseTasks(c *Collector, m *raw.Node, key string) []entity.Task {
	node := m.Get(key)
	if node == nil {
		c.Add(CodeMissingRequiredField, m, "missing required field %q", key)
		return nil
	}
	if node.Kind != raw.KindSequence {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a list", key)
		return nil
	}
	var out []entity.Task
	for i, item := range node.Items {
		pop := c.Scope(fmt.Sprintf("task %d", i+1))
		if task, ok := parseTask(c, item); ok {
			out = append(out, task)
		}
		pop()
	}
	return out
}

func parseTask(c *Collector, node *raw.Node) (entity.Task, bool) {
	switch node.Kind {
	case raw.KindScalar:
		command, ok := node.AsString()
		if !ok || command == "" {
			c.Add(CodeInvalidFieldValue, node, "a shorthand task must be a non-empty string")
			return entity.Task{}, false
		}
		return entity.Task{Type: entity.TaskExec, Command: command}, true
	case raw.KindMapping:
		return parseTaskMapping(c, node)
	default:
		c.Add(CodeInvalidFieldValue, node, "a task must be a string or a single-key mapping")
		return entity.Task{}, false
	}
}

func parseTaskMapping(c *Collector, node *raw.Node) (entity.Task, bool) {
	var kind entity.TaskType
	var body *raw.Node
	found := 0
	for _, p := range node.Pairs {
		for _, t := range entity.TaskTypes {
			if p.Key == string(t) {
				kind, body = t, p.Value
				found++
			}
		}
	}
	switch {
	case found == 0:
		c.Add(CodeInvalidFieldValue, node, "unknown task kind; expected one of %v", entity.TaskTypes)
		return entity.Task{}, false
	case found > 1:
		c.Add(CodeInvalidFieldValue, node, "a task entry must declare exactly one kind")
		return entity.Task{}, false
	case len(node.Pairs) != 1:
		rejectUnknown(c, node, string(kind))
	}

	// "- rake:" with no body is a kind with all defaults.
	if body.Kind == raw.KindScalar && body.Value == nil {
		body = raw.NewMapping()
	}
	if !expectMapping(c, body, string(kind)+" task") {
		return entity.Task{}, false
	}

	task := entity.Task{Type: kind}
	switch kind {
	case entity.TaskExec:
		rejectUnknown(c, body, "command", "arguments", "working_directory", "run_if", "on_cancel")
		task.Command, _ = requiredStringField(c, body, "command")
		task.Arguments = stringListField(c, body, "arguments")
		task.WorkingDirectory, _ = stringField(c, body, "working_directory")
	case entity.TaskRake, entity.TaskAnt, entity.TaskNant:
		rejectUnknown(c, body, "build_file", "target", "working_directory", "run_if", "on_cancel")
		task.BuildFile, _ = stringField(c, body, "build_file")
		task.Target, _ = stringField(c, body, "target")
		task.WorkingDirectory, _ = stringField(c, body, "working_directory")
	case entity.TaskFetch:
		parseFetchTask(c, body, &task)
	case entity.TaskPlugin:
		rejectUnknown(c, body, "plugin_configuration", "options", "secure_options", "run_if", "on_cancel")
		task.PluginConfiguration = parsePluginConfiguration(c, body)
		if task.PluginConfiguration == nil {
			c.Add(CodeMissingRequiredField, body, "missing required field %q", "plugin_configuration")
		}
		task.Configuration = parseOptions(c, body)
	}

	parseTaskCommon(c, body, &task)
	return task, true
}

func parseFetchTask(c *Collector, body *raw.Node, task *entity.Task) {
	rejectUnknown(c, body, "pipeline", "stage", "job", "source", "is_file", "destination",
		"artifact_origin", "artifact_id", "options", "secure_options", "run_if", "on_cancel")

	task.Pipeline, _ = stringField(c, body, "pipeline")
	task.Stage, _ = requiredStringField(c, body, "stage")
	task.Job, _ = requiredStringField(c, body, "job")
	task.Destination, _ = stringField(c, body, "destination")

	origin, ok := stringField(c, body, "artifact_origin")
	if ok && origin != entity.ArtifactOriginGoCD && origin != entity.ArtifactOriginExternal {
		c.Add(CodeInvalidFieldValue, body.Get("artifact_origin"),
			"artifact_origin must be %q or %q", entity.ArtifactOriginGoCD, entity.ArtifactOriginExternal)
		origin = ""
	}
	task.ArtifactOrigin = origin

	if origin == entity.ArtifactOriginExternal {
		task.ArtifactID, _ = requiredStringField(c, body, "artifact_id")
		task.Configuration = parseOptions(c, body)
		return
	}
	task.Source, _ = requiredStringField(c, body, "source")
	task.IsFile, _ = boolField(c, body, "is_file")
}

func parseTaskCommon(c *Collector, body *raw.Node, task *entity.Task) {
	runIf, ok := stringField(c, body, "run_if")
	if ok {
		switch runIf {
		case entity.RunIfPassed, entity.RunIfFailed, entity.RunIfAny:
			task.RunIf = runIf
		default:
			c.Add(CodeInvalidFieldValue, body.Get("run_if"),
				"run_if must be %q, %q or %q", entity.RunIfPassed, entity.RunIfFailed, entity.RunIfAny)
		}
	}
	if cancel := body.Get("on_cancel"); cancel != nil {
		defer c.Scope("on_cancel")()
		if t, ok := parseTask(c, cancel); ok {
			if t.OnCancel != nil {
				c.Add(CodeInvalidFieldValue, cancel, "an on_cancel task cannot nest another on_cancel")
				t.OnCancel = nil
			}
			task.OnCancel = &t
		}
	}
}

// InverseTask renders a task back to its raw form with the canonical key
// order for its kind, omitting fields equal to the defaults. The shorthand
// string form is never emitted: the long form is the canonical one.
func InverseTask(task *entity.Task) *raw.Node {
	body := raw.NewMapping()
	switch task.Type {
	case entity.TaskExec:
		body.SetScalar("command", task.Command)
		if len(task.Arguments) > 0 {
			args := raw.NewSequence()
			for _, a := range task.Arguments {
				args.Append(raw.NewScalar(a))
			}
			body.Set("arguments", args)
		}
		if task.WorkingDirectory != "" {
			body.SetScalar("working_directory", task.WorkingDirectory)
		}
	case entity.TaskRake, entity.TaskAnt, entity.TaskNant:
		if task.BuildFile != "" {
			body.SetScalar("build_file", task.BuildFile)
		}
		if task.Target != "" {
			body.SetScalar("target", task.Target)
		}
		if task.WorkingDirectory != "" {
			body.SetScalar("working_directory", task.WorkingDirectory)
		}
	case entity.TaskFetch:
		if task.Pipeline != "" {
			body.SetScalar("pipeline", task.Pipeline)
		}
		body.SetScalar("stage", task.Stage)
		body.SetScalar("job", task.Job)
		if task.ArtifactOrigin == entity.ArtifactOriginExternal {
			body.SetScalar("artifact_origin", task.ArtifactOrigin)
			body.SetScalar("artifact_id", task.ArtifactID)
			inverseOptions(task.Configuration, body)
		} else {
			body.SetScalar("source", task.Source)
			if task.IsFile {
				body.SetScalar("is_file", true)
			}
		}
		if task.Destination != "" {
			body.SetScalar("destination", task.Destination)
		}
	case entity.TaskPlugin:
		inversePluginConfiguration(task.PluginConfiguration, body)
		inverseOptions(task.Configuration, body)
	}

	if task.RunIf != "" && task.RunIf != DefaultRunIf {
		body.SetScalar("run_if", task.RunIf)
	}
	if task.OnCancel != nil {
		body.Set("on_cancel", InverseTask(task.OnCancel))
	}

	entry := raw.NewMapping()
	entry.Set(string(task.Type), body)
	return entry
}

// inverseTasks renders the ordered task list.
func inverseTasks(tasks []entity.Task) *raw.Node {
	seq := raw.NewSequence()
	for i := range tasks {
		seq.Append(InverseTask(&tasks[i]))
	}
	return seq
}

// normalizeRunInstanceCount validates a scalar that must be a positive
// integer or the literal "all".
func normalizeRunInstanceCount(c *Collector, node *raw.Node) string {
	if node.Kind != raw.KindScalar {
		c.Add(CodeInvalidFieldValue, node, "run_instance_count must be a number or \"all\"")
		return ""
	}
	s, _ := node.AsString()
	if s == "all" {
		return s
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return s
	}
	c.Add(CodeInvalidFieldValue, node, "run_instance_count must be a positive number or \"all\"")
	return ""
}
