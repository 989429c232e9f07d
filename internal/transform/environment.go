package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// ParseEnvironment transforms one environment body (the value of an entry
// under the root "environments" mapping).
func ParseEnvironment(c *Collector, name string, body *raw.Node) (entity.Environment, bool) {
	defer c.Scope("environment " + name)()

	if !expectMapping(c, body, "environment") {
		return entity.Environment{}, false
	}
	rejectUnknown(c, body, "environment_variables", "secure_variables", "pipelines", "agents")

	env := entity.Environment{Name: name}
	env.EnvironmentVariables = parseEnvironmentVariables(c, body)
	env.Pipelines = stringListField(c, body, "pipelines")
	env.Agents = stringListField(c, body, "agents")
	return env, true
}

// InverseEnvironment renders an environment body in canonical order.
func InverseEnvironment(env *entity.Environment) *raw.Node {
	body := raw.NewMapping()
	inverseEnvironmentVariables(env.EnvironmentVariables, body)
	if len(env.Pipelines) > 0 {
		pipelines := raw.NewSequence()
		for _, p := range env.Pipelines {
			pipelines.Append(raw.NewScalar(p))
		}
		body.Set("pipelines", pipelines)
	}
	if len(env.Agents) > 0 {
		agents := raw.NewSequence()
		for _, a := range env.Agents {
			agents.Append(raw.NewScalar(a))
		}
		body.Set("agents", agents)
	}
	return body
}

// ParseTemplate transforms one template body (the value of an entry under
// the root "templates" mapping). A template is a named stage sequence.
func ParseTemplate(c *Collector, name string, body *raw.Node) (entity.Template, bool) {
	defer c.Scope("template " + name)()

	if !expectMapping(c, body, "template") {
		return entity.Template{}, false
	}
	rejectUnknown(c, body, "stages")

	tpl := entity.Template{Name: name}
	if !body.Has("stages") {
		c.Add(CodeMissingRequiredField, body, "missing required field %q", "stages")
		return tpl, true
	}
	tpl.Stages = parseStages(c, body, "stages")
	return tpl, true
}

// InverseTemplate renders a template body.
func InverseTemplate(tpl *entity.Template) *raw.Node {
	body := raw.NewMapping()
	body.Set("stages", inverseStages(tpl.Stages))
	return body
}
