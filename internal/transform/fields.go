package transform

import (
	"slices"

	"github.com/vk/gocdyaml/internal/entity"
	"github.com/vk/gocdyaml/internal/raw"
)

// Shared field readers. Each reader records an error on the collector when
// the field is present but ill-typed, and reports presence to the caller so
// that absence can fall through to a default.

func expectMapping(c *Collector, node *raw.Node, what string) bool {
	if node.Kind != raw.KindMapping {
		c.Add(CodeInvalidFieldValue, node, "%s must be a mapping, got a %s", what, node.Kind)
		return false
	}
	return true
}

func stringField(c *Collector, m *raw.Node, key string) (string, bool) {
	node := m.Get(key)
	if node == nil {
		return "", false
	}
	s, ok := node.AsString()
	if !ok {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a string", key)
		return "", false
	}
	return s, true
}

func requiredStringField(c *Collector, m *raw.Node, key string) (string, bool) {
	if !m.Has(key) {
		c.Add(CodeMissingRequiredField, m, "missing required field %q", key)
		return "", false
	}
	return stringField(c, m, key)
}

func boolField(c *Collector, m *raw.Node, key string) (bool, bool) {
	node := m.Get(key)
	if node == nil {
		return false, false
	}
	b, ok := node.AsBool()
	if !ok {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a boolean", key)
		return false, false
	}
	return b, true
}

func intField(c *Collector, m *raw.Node, key string) (int, bool) {
	node := m.Get(key)
	if node == nil {
		return 0, false
	}
	i, ok := node.AsInt()
	if !ok {
		c.Add(CodeInvalidFieldValue, node, "field %q must be an integer", key)
		return 0, false
	}
	return int(i), true
}

// stringListField reads a sequence of scalars. Ill-typed items are reported
// individually and skipped.
func stringListField(c *Collector, m *raw.Node, key string) []string {
	node := m.Get(key)
	if node == nil {
		return nil
	}
	if node.Kind != raw.KindSequence {
		c.Add(CodeInvalidFieldValue, node, "field %q must be a list", key)
		return nil
	}
	var out []string
	for _, item := range node.Items {
		s, ok := item.AsString()
		if !ok {
			c.Add(CodeInvalidFieldValue, item, "entries of %q must be strings", key)
			continue
		}
		out = append(out, s)
	}
	return out
}

// rejectUnknown reports every mapping key outside the allowed set. Entity
// kinds with a free-form extension point (plugin options, anchors under the
// root's "common" key) list it among the allowed keys instead of bypassing
// the check.
func rejectUnknown(c *Collector, m *raw.Node, allowed ...string) {
	for _, p := range m.Pairs {
		if !slices.Contains(allowed, p.Key) {
			c.Add(CodeUnknownField, p.Value, "unknown field %q", p.Key)
		}
	}
}

// namedEntries iterates a name→body mapping (pipelines, jobs, materials...)
// in document order, reporting duplicate names against the parent and
// skipping the later duplicates.
func namedEntries(c *Collector, m *raw.Node, what string, fn func(name string, body *raw.Node)) {
	seen := make(map[string]bool, len(m.Pairs))
	for _, p := range m.Pairs {
		if seen[p.Key] {
			c.Add(CodeDuplicateName, p.Value, "%s %q is defined more than once", what, p.Key)
			continue
		}
		seen[p.Key] = true
		fn(p.Key, p.Value)
	}
}

// parseEnvironmentVariables reads the environment_variables and
// secure_variables blocks of the given parent mapping into one ordered
// list, plain variables first.
func parseEnvironmentVariables(c *Collector, m *raw.Node) []entity.EnvironmentVariable {
	var out []entity.EnvironmentVariable
	out = appendVariables(c, m, "environment_variables", false, out)
	out = appendVariables(c, m, "secure_variables", true, out)
	return out
}

func appendVariables(c *Collector, m *raw.Node, key string, secure bool, out []entity.EnvironmentVariable) []entity.EnvironmentVariable {
	node := m.Get(key)
	if node == nil {
		return out
	}
	if !expectMapping(c, node, key) {
		return out
	}
	namedEntries(c, node, "variable", func(name string, body *raw.Node) {
		if body.Kind != raw.KindScalar {
			c.Add(CodeInvalidFieldValue, body, "variable %q must have a scalar value", name)
			return
		}
		value := ""
		if body.Value != nil {
			value, _ = body.AsString()
		}
		v := entity.EnvironmentVariable{Name: name}
		if secure {
			v.EncryptedValue = value
		} else {
			v.Value = value
		}
		out = append(out, v)
	})
	return out
}

// inverseEnvironmentVariables writes the variable list back as the two
// dialect blocks, omitted when empty.
func inverseEnvironmentVariables(vars []entity.EnvironmentVariable, m *raw.Node) {
	plain := raw.NewMapping()
	secure := raw.NewMapping()
	for _, v := range vars {
		if v.Secure() {
			secure.SetScalar(v.Name, v.EncryptedValue)
		} else {
			plain.SetScalar(v.Name, v.Value)
		}
	}
	if len(plain.Pairs) > 0 {
		m.Set("environment_variables", plain)
	}
	if len(secure.Pairs) > 0 {
		m.Set("secure_variables", secure)
	}
}

// parseOptions reads the options and secure_options blocks of a plugin
// configuration into one ordered property list.
func parseOptions(c *Collector, m *raw.Node) []entity.ConfigurationProperty {
	var out []entity.ConfigurationProperty
	out = appendOptions(c, m, "options", false, out)
	out = appendOptions(c, m, "secure_options", true, out)
	return out
}

func appendOptions(c *Collector, m *raw.Node, key string, secure bool, out []entity.ConfigurationProperty) []entity.ConfigurationProperty {
	node := m.Get(key)
	if node == nil {
		return out
	}
	if !expectMapping(c, node, key) {
		return out
	}
	// Options are a free-form extension point: any key, scalar values.
	namedEntries(c, node, "option", func(name string, body *raw.Node) {
		if body.Kind != raw.KindScalar {
			c.Add(CodeInvalidFieldValue, body, "option %q must have a scalar value", name)
			return
		}
		value := ""
		if body.Value != nil {
			value, _ = body.AsString()
		}
		p := entity.ConfigurationProperty{Key: name}
		if secure {
			p.EncryptedValue = value
		} else {
			p.Value = value
		}
		out = append(out, p)
	})
	return out
}

// inverseOptions writes a property list back as options / secure_options.
func inverseOptions(props []entity.ConfigurationProperty, m *raw.Node) {
	plain := raw.NewMapping()
	secure := raw.NewMapping()
	for _, p := range props {
		if p.EncryptedValue != "" {
			secure.SetScalar(p.Key, p.EncryptedValue)
		} else {
			plain.SetScalar(p.Key, p.Value)
		}
	}
	if len(plain.Pairs) > 0 {
		m.Set("options", plain)
	}
	if len(secure.Pairs) > 0 {
		m.Set("secure_options", secure)
	}
}

// parsePluginConfiguration reads a plugin_configuration block.
func parsePluginConfiguration(c *Collector, m *raw.Node) *entity.PluginConfiguration {
	node := m.Get("plugin_configuration")
	if node == nil {
		return nil
	}
	if !expectMapping(c, node, "plugin_configuration") {
		return nil
	}
	rejectUnknown(c, node, "id", "version")
	id, _ := requiredStringField(c, node, "id")
	version, _ := stringField(c, node, "version")
	return &entity.PluginConfiguration{ID: id, Version: version}
}

// inversePluginConfiguration writes a plugin_configuration block.
func inversePluginConfiguration(pc *entity.PluginConfiguration, m *raw.Node) {
	if pc == nil {
		return
	}
	node := raw.NewMapping()
	node.SetScalar("id", pc.ID)
	if pc.Version != "" {
		node.SetScalar("version", pc.Version)
	}
	m.Set("plugin_configuration", node)
}
