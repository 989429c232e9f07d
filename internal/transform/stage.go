package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// Stages are a sequence of single-key mappings so that execution order is
// explicit in the document:
//
//	stages:
//	  - build:
//	      jobs: ...
//	  - deploy:
//	      approval: manual
//	      jobs: ...

func parseStages(c *Collector, m *raw.Node, key string) []entity.Stage {
	node := m.Get(key)
	if node == nil {
		return nil
	}
	if node.Kind != raw.KindSequence {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a list", key)
		return nil
	}
	var out []entity.Stage
	seen := make(map[string]bool)
	for _, item := range node.Items {
		name, body, ok := singleKeyEntry(c, item, "stage")
		if !ok {
			continue
		}
		if seen[name] {
			c.Add(CodeDuplicateName, item, "stage %q is defined more than once", name)
			continue
		}
		seen[name] = true

		pop := c.Scope("stage " + name)
		if stage, ok := parseStage(c, name, body); ok {
			out = append(out, stage)
		}
		pop()
	}
	return out
}

// singleKeyEntry unwraps a sequence item of the form {name: body}.
func singleKeyEntry(c *Collector, item *raw.Node, what string) (string, *raw.Node, bool) {
	if item.Kind != raw.KindMapping || len(item.Pairs) != 1 {
		c.Add(CodeInvalidFieldValue, item, "a %s entry must be a single-key mapping", what)
		return "", nil, false
	}
	return item.Pairs[0].Key, item.Pairs[0].Value, true
}

func parseStage(c *Collector, name string, body *raw.Node) (entity.Stage, bool) {
	if !expectMapping(c, body, "stage") {
		return entity.Stage{}, false
	}
	rejectUnknown(c, body, "approval", "fetch_materials", "keep_artifacts", "clean_workspace",
		"environment_variables", "secure_variables", "jobs")

	stage := entity.Stage{Name: name}
	stage.Approval = parseApproval(c, body)
	if fetch, ok := boolField(c, body, "fetch_materials"); ok && fetch != DefaultFetchMaterials {
		stage.FetchMaterials = &fetch
	}
	stage.NeverCleanupArtifacts, _ = boolField(c, body, "keep_artifacts")
	stage.CleanWorkingDirectory, _ = boolField(c, body, "clean_workspace")
	stage.EnvironmentVariables = parseEnvironmentVariables(c, body)
	stage.Jobs = parseJobs(c, body)
	return stage, true
}

// parseApproval accepts the scalar shorthand ("manual") and the long form;
// absence yields the documented default of an unrestricted automatic
// trigger.
func parseApproval(c *Collector, stageBody *raw.Node) *entity.Approval {
	node := stageBody.Get("approval")
	if node == nil {
		return &entity.Approval{Type: DefaultApprovalType}
	}

	approval := &entity.Approval{}
	switch node.Kind {
	case raw.KindScalar:
		s, _ := node.AsString()
		approval.Type = s
	case raw.KindMapping:
		rejectUnknown(c, node, "type", "roles", "users", "allow_only_on_success")
		approval.Type, _ = requiredStringField(c, node, "type")
		approval.Roles = stringListField(c, node, "roles")
		approval.Users = stringListField(c, node, "users")
		approval.AllowOnlyOnSuccess, _ = boolField(c, node, "allow_only_on_success")
	default:
		c.Add(CodeInvalidFieldValue, node, "approval must be a string or a mapping")
		return &entity.Approval{Type: DefaultApprovalType}
	}

	if approval.Type != entity.ApprovalSuccess && approval.Type != entity.ApprovalManual {
		c.Add(CodeInvalidFieldValue, node, "approval type must be %q or %q",
			entity.ApprovalSuccess, entity.ApprovalManual)
		approval.Type = DefaultApprovalType
	}
	return approval
}

// InverseStage renders a stage body in canonical order.
func InverseStage(stage *entity.Stage) *raw.Node {
	body := raw.NewMapping()
	inverseApproval(stage.Approval, body)
	if stage.FetchMaterials != nil && *stage.FetchMaterials != DefaultFetchMaterials {
		body.SetScalar("fetch_materials", *stage.FetchMaterials)
	}
	if stage.NeverCleanupArtifacts {
		body.SetScalar("keep_artifacts", true)
	}
	if stage.CleanWorkingDirectory {
		body.SetScalar("clean_workspace", true)
	}
	inverseEnvironmentVariables(stage.EnvironmentVariables, body)
	body.Set("jobs", inverseJobs(stage.Jobs))
	return body
}

func inverseApproval(approval *entity.Approval, body *raw.Node) {
	if approval.IsDefault() {
		return
	}
	if approval.Type == entity.ApprovalManual && len(approval.Roles) == 0 &&
		len(approval.Users) == 0 && !approval.AllowOnlyOnSuccess {
		body.SetScalar("approval", entity.ApprovalManual)
		return
	}
	node := raw.NewMapping()
	node.SetScalar("type", approval.Type)
	if len(approval.Roles) > 0 {
		roles := raw.NewSequence()
		for _, r := range approval.Roles {
			roles.Append(raw.NewScalar(r))
		}
		node.Set("roles", roles)
	}
	if len(approval.Users) > 0 {
		users := raw.NewSequence()
		for _, u := range approval.Users {
			users.Append(raw.NewScalar(u))
		}
		node.Set("users", users)
	}
	if approval.AllowOnlyOnSuccess {
		node.SetScalar("allow_only_on_success", true)
	}
	body.Set("approval", node)
}

// inverseStages renders the ordered stage list.
func inverseStages(stages []entity.Stage) *raw.Node {
	seq := raw.NewSequence()
	for i := range stages {
		entry := raw.NewMapping()
		entry.Set(stages[i].Name, InverseStage(&stages[i]))
		seq.Append(entry)
	}
	return seq
}
