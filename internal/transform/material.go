package transform

import (
	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// Materials are a name→body mapping. The kind comes from, in order, an
// explicit "type" field, a signature key (git/hg/svn/p4 holding the URL or
// port, pipeline marking a dependency, plugin_configuration marking a
// pluggable SCM), or the documented default of git. When a shorthand
// signature key and the long-form "url" both appear, the long form wins.

func parseMaterials(c *Collector, m *raw.Node) []entity.Material {
	node := m.Get("materials")
	if node == nil {
		c.Add(CodeMissingRequiredField, m, "missing required field %q", "materials")
		return nil
	}
	if !expectMapping(c, node, "materials") {
		return nil
	}
	if len(node.Pairs) == 0 {
		c.Add(CodeInvalidFieldValue, node, "a pipeline needs at least one material")
		return nil
	}
	var out []entity.Material
	namedEntries(c, node, "material", func(name string, body *raw.Node) {
		pop := c.Scope("material " + name)
		if mat, ok := parseMaterial(c, name, body); ok {
			out = append(out, mat)
		}
		pop()
	})
	return out
}

func parseMaterial(c *Collector, name string, body *raw.Node) (entity.Material, bool) {
	if !expectMapping(c, body, "material") {
		return entity.Material{}, false
	}

	kind, ok := materialKind(c, body)
	if !ok {
		return entity.Material{}, false
	}

	mat := entity.Material{Type: kind, Name: name}
	switch kind {
	case entity.MaterialGit:
		rejectUnknown(c, body, scmKeys("type", "git", "url", "branch", "shallow_clone")...)
		mat.URL = urlField(c, body, "git")
		mat.Branch, _ = stringField(c, body, "branch")
		mat.ShallowClone, _ = boolField(c, body, "shallow_clone")
		parseCommonSCM(c, body, &mat)
	case entity.MaterialHg:
		rejectUnknown(c, body, scmKeys("type", "hg", "url", "branch")...)
		mat.URL = urlField(c, body, "hg")
		mat.Branch, _ = stringField(c, body, "branch")
		parseCommonSCM(c, body, &mat)
	case entity.MaterialSvn:
		rejectUnknown(c, body, scmKeys("type", "svn", "url", "check_externals")...)
		mat.URL = urlField(c, body, "svn")
		mat.CheckExternals, _ = boolField(c, body, "check_externals")
		parseCommonSCM(c, body, &mat)
	case entity.MaterialP4:
		rejectUnknown(c, body, scmKeys("type", "p4", "port", "view", "use_tickets")...)
		mat.Port = portField(c, body)
		mat.View, _ = requiredStringField(c, body, "view")
		mat.UseTickets, _ = boolField(c, body, "use_tickets")
		parseCommonSCM(c, body, &mat)
	case entity.MaterialDependency:
		rejectUnknown(c, body, "type", "pipeline", "stage", "ignore_for_scheduling")
		mat.Pipeline, _ = requiredStringField(c, body, "pipeline")
		mat.Stage, _ = requiredStringField(c, body, "stage")
		mat.IgnoreForScheduling, _ = boolField(c, body, "ignore_for_scheduling")
	case entity.MaterialPlugin:
		rejectUnknown(c, body, "type", "plugin_configuration", "options", "secure_options",
			"destination", "ignore", "includes", "auto_update")
		mat.PluginConfiguration = parsePluginConfiguration(c, body)
		if mat.PluginConfiguration == nil {
			c.Add(CodeMissingRequiredField, body, "missing required field %q", "plugin_configuration")
		}
		mat.Configuration = parseOptions(c, body)
		mat.Destination, _ = stringField(c, body, "destination")
		mat.Ignore = stringListField(c, body, "ignore")
		mat.Includes = stringListField(c, body, "includes")
		if auto, ok := boolField(c, body, "auto_update"); ok && auto != DefaultAutoUpdate {
			mat.AutoUpdate = &auto
		}
	}
	return mat, true
}

// commonSCMKeys are accepted by every repository-backed material kind.
var commonSCMKeys = []string{
	"auto_update", "destination", "ignore", "includes", "username", "encrypted_password",
}

// scmKeys joins kind-specific keys with the common SCM set.
func scmKeys(extra ...string) []string {
	keys := make([]string, 0, len(extra)+len(commonSCMKeys))
	keys = append(keys, extra...)
	return append(keys, commonSCMKeys...)
}

func parseCommonSCM(c *Collector, body *raw.Node, mat *entity.Material) {
	if auto, ok := boolField(c, body, "auto_update"); ok && auto != DefaultAutoUpdate {
		mat.AutoUpdate = &auto
	}
	mat.Destination, _ = stringField(c, body, "destination")
	mat.Ignore = stringListField(c, body, "ignore")
	mat.Includes = stringListField(c, body, "includes")
	mat.Username, _ = stringField(c, body, "username")
	mat.EncryptedPassword, _ = stringField(c, body, "encrypted_password")
}

func materialKind(c *Collector, body *raw.Node) (entity.MaterialType, bool) {
	if explicit, ok := stringField(c, body, "type"); ok {
		for _, t := range entity.MaterialTypes {
			if explicit == string(t) {
				return t, true
			}
		}
		c.Add(CodeInvalidFieldValue, body.Get("type"),
			"unknown material type %q; expected one of %v", explicit, entity.MaterialTypes)
		return "", false
	}
	switch {
	case body.Has("git"):
		return entity.MaterialGit, true
	case body.Has("hg"):
		return entity.MaterialHg, true
	case body.Has("svn"):
		return entity.MaterialSvn, true
	case body.Has("p4"):
		return entity.MaterialP4, true
	case body.Has("pipeline"):
		return entity.MaterialDependency, true
	case body.Has("plugin_configuration"):
		return entity.MaterialPlugin, true
	}
	return DefaultMaterialType, true
}

// urlField resolves the URL with the long-form-wins rule: "url" beats the
// kind's shorthand key. A material with neither is missing its URL.
func urlField(c *Collector, body *raw.Node, shorthand string) string {
	if url, ok := stringField(c, body, "url"); ok {
		return url
	}
	if url, ok := stringField(c, body, shorthand); ok {
		return url
	}
	c.Add(CodeMissingRequiredField, body, "missing required field %q", "url")
	return ""
}

// portField is the p4 equivalent: "port" beats the "p4" shorthand.
func portField(c *Collector, body *raw.Node) string {
	if port, ok := stringField(c, body, "port"); ok {
		return port
	}
	if port, ok := stringField(c, body, "p4"); ok {
		return port
	}
	c.Add(CodeMissingRequiredField, body, "missing required field %q", "port")
	return ""
}

// InverseMaterial renders a material body in canonical order. The caller
// supplies the mapping key (the material name).
func InverseMaterial(mat *entity.Material) *raw.Node {
	body := raw.NewMapping()
	switch mat.Type {
	case entity.MaterialGit:
		body.SetScalar("git", mat.URL)
		if mat.Branch != "" {
			body.SetScalar("branch", mat.Branch)
		}
		if mat.ShallowClone {
			body.SetScalar("shallow_clone", true)
		}
		inverseCommonSCM(mat, body)
	case entity.MaterialHg:
		body.SetScalar("hg", mat.URL)
		if mat.Branch != "" {
			body.SetScalar("branch", mat.Branch)
		}
		inverseCommonSCM(mat, body)
	case entity.MaterialSvn:
		body.SetScalar("svn", mat.URL)
		if mat.CheckExternals {
			body.SetScalar("check_externals", true)
		}
		inverseCommonSCM(mat, body)
	case entity.MaterialP4:
		body.SetScalar("p4", mat.Port)
		body.SetScalar("view", mat.View)
		if mat.UseTickets {
			body.SetScalar("use_tickets", true)
		}
		inverseCommonSCM(mat, body)
	case entity.MaterialDependency:
		body.SetScalar("pipeline", mat.Pipeline)
		body.SetScalar("stage", mat.Stage)
		if mat.IgnoreForScheduling {
			body.SetScalar("ignore_for_scheduling", true)
		}
	case entity.MaterialPlugin:
		inversePluginConfiguration(mat.PluginConfiguration, body)
		inverseOptions(mat.Configuration, body)
		if mat.Destination != "" {
			body.SetScalar("destination", mat.Destination)
		}
		inverseFilter(mat, body)
		if mat.AutoUpdate != nil && *mat.AutoUpdate != DefaultAutoUpdate {
			body.SetScalar("auto_update", *mat.AutoUpdate)
		}
	}
	return body
}

func inverseCommonSCM(mat *entity.Material, body *raw.Node) {
	if mat.AutoUpdate != nil && *mat.AutoUpdate != DefaultAutoUpdate {
		body.SetScalar("auto_update", *mat.AutoUpdate)
	}
	if mat.Destination != "" {
		body.SetScalar("destination", mat.Destination)
	}
	inverseFilter(mat, body)
	if mat.Username != "" {
		body.SetScalar("username", mat.Username)
	}
	if mat.EncryptedPassword != "" {
		body.SetScalar("encrypted_password", mat.EncryptedPassword)
	}
}

func inverseFilter(mat *entity.Material, body *raw.Node) {
	if len(mat.Ignore) > 0 {
		seq := raw.NewSequence()
		for _, pattern := range mat.Ignore {
			seq.Append(raw.NewScalar(pattern))
		}
		body.Set("ignore", seq)
	}
	if len(mat.Includes) > 0 {
		seq := raw.NewSequence()
		for _, pattern := range mat.Includes {
			seq.Append(raw.NewScalar(pattern))
		}
		body.Set("includes", seq)
	}
}

// inverseMaterials renders the materials mapping keyed by material name.
// An unnamed material falls back to its kind as the key.
func inverseMaterials(materials []entity.Material) *raw.Node {
	node := raw.NewMapping()
	for i := range materials {
		key := materials[i].Name
		if key == "" {
			key = string(materials[i].Type)
		}
		node.Set(key, InverseMaterial(&materials[i]))
	}
	return node
}
