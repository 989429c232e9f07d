package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// ParsePipeline transforms one pipeline body (the value of an entry under
// the root "pipelines" mapping) into its canonical entity. Structural
// errors accumulate on the collector; the returned flag is false only when
// the body is too malformed to yield an entity at all.
func ParsePipeline(c *Collector, name string, body *raw.Node) (entity.Pipeline, bool) {
	defer c.Scope("pipeline " + name)()

	if name == "" {
		c.Add(CodeInvalidFieldValue, body, "a pipeline needs a non-empty name")
		return entity.Pipeline{}, false
	}
	if !expectMapping(c, body, "pipeline") {
		return entity.Pipeline{}, false
	}
	rejectUnknown(c, body, "group", "display_order", "label_template", "lock_behavior",
		"tracking_tool", "timer", "environment_variables", "secure_variables", "parameters",
		"template", "materials", "stages")

	p := entity.Pipeline{Name: name}
	p.Group, _ = stringField(c, body, "group")
	if order, ok := intField(c, body, "display_order"); ok {
		p.DisplayOrder = &order
	}
	p.LabelTemplate, _ = stringField(c, body, "label_template")
	p.LockBehavior = parseLockBehavior(c, body)
	p.TrackingTool = parseTrackingTool(c, body)
	p.Timer = parseTimer(c, body)
	p.EnvironmentVariables = parseEnvironmentVariables(c, body)
	p.Parameters = parseParameters(c, body)
	p.Template, _ = stringField(c, body, "template")
	p.Materials = parseMaterials(c, body)

	p.Stages = parseStages(c, body, "stages")
	switch {
	case p.Template != "" && len(p.Stages) > 0:
		c.Add(CodeInvalidFieldValue, body, "a pipeline cannot have both a template and its own stages")
	case p.Template == "" && !body.Has("stages"):
		c.Add(CodeMissingRequiredField, body, "missing required field %q", "stages")
	}
	return p, true
}

func parseLockBehavior(c *Collector, body *raw.Node) string {
	lock, ok := stringField(c, body, "lock_behavior")
	if !ok {
		return ""
	}
	switch lock {
	case entity.LockNone, entity.LockOnFailure, entity.LockUnlockWhenFinished:
		return lock
	default:
		c.Add(CodeInvalidFieldValue, body.Get("lock_behavior"),
			"lock_behavior must be %q, %q or %q",
			entity.LockNone, entity.LockOnFailure, entity.LockUnlockWhenFinished)
		return ""
	}
}

func parseTrackingTool(c *Collector, body *raw.Node) *entity.TrackingTool {
	node := body.Get("tracking_tool")
	if node == nil {
		return nil
	}
	if !expectMapping(c, node, "tracking_tool") {
		return nil
	}
	rejectUnknown(c, node, "link", "regex")
	link, _ := requiredStringField(c, node, "link")
	regex, _ := requiredStringField(c, node, "regex")
	return &entity.TrackingTool{Link: link, Regex: regex}
}

func parseTimer(c *Collector, body *raw.Node) *entity.Timer {
	node := body.Get("timer")
	if node == nil {
		return nil
	}
	if !expectMapping(c, node, "timer") {
		return nil
	}
	rejectUnknown(c, node, "spec", "only_on_changes")
	spec, _ := requiredStringField(c, node, "spec")
	only, _ := boolField(c, node, "only_on_changes")
	return &entity.Timer{Spec: spec, OnlyOnChanges: only}
}

// Parameters are a name→value mapping.
func parseParameters(c *Collector, body *raw.Node) []entity.Parameter {
	node := body.Get("parameters")
	if node == nil {
		return nil
	}
	if !expectMapping(c, node, "parameters") {
		return nil
	}
	var out []entity.Parameter
	namedEntries(c, node, "parameter", func(name string, value *raw.Node) {
		if value.Kind != raw.KindScalar {
			c.Add(CodeInvalidFieldValue, value, "parameter %q must have a scalar value", name)
			return
		}
		s := ""
		if value.Value != nil {
			s, _ = value.AsString()
		}
		out = append(out, entity.Parameter{Name: name, Value: s})
	})
	return out
}

// InversePipeline renders a pipeline body in the canonical field order, so
// that two exports of semantically identical pipelines are textually
// identical. Fields equal to their documented defaults are omitted.
func InversePipeline(p *entity.Pipeline) *raw.Node {
	body := raw.NewMapping()
	if p.Group != "" {
		body.SetScalar("group", p.Group)
	}
	if p.DisplayOrder != nil {
		body.SetScalar("display_order", *p.DisplayOrder)
	}
	if p.LabelTemplate != "" {
		body.SetScalar("label_template", p.LabelTemplate)
	}
	if p.LockBehavior != "" {
		body.SetScalar("lock_behavior", p.LockBehavior)
	}
	if p.TrackingTool != nil {
		tool := raw.NewMapping()
		tool.SetScalar("link", p.TrackingTool.Link)
		tool.SetScalar("regex", p.TrackingTool.Regex)
		body.Set("tracking_tool", tool)
	}
	if p.Timer != nil {
		timer := raw.NewMapping()
		timer.SetScalar("spec", p.Timer.Spec)
		if p.Timer.OnlyOnChanges {
			timer.SetScalar("only_on_changes", true)
		}
		body.Set("timer", timer)
	}
	inverseEnvironmentVariables(p.EnvironmentVariables, body)
	if len(p.Parameters) > 0 {
		params := raw.NewMapping()
		for _, param := range p.Parameters {
			params.SetScalar(param.Name, param.Value)
		}
		body.Set("parameters", params)
	}
	if p.Template != "" {
		body.SetScalar("template", p.Template)
	}
	body.Set("materials", inverseMaterials(p.Materials))
	if len(p.Stages) > 0 {
		body.Set("stages", inverseStages(p.Stages))
	}
	return body
}
