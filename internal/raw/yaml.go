package raw

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a decoded yaml.Node into a raw node tree. Document
// wrappers are unwrapped, aliases are resolved in place and merge keys
// ("<<") splice the referenced mapping's pairs in front of the explicit
// ones, so an explicit key always wins over a merged one.
func FromYAML(yn *yaml.Node) (*Node, error) {
	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return NewMapping(), nil
		}
		return FromYAML(yn.Content[0])
	case yaml.AliasNode:
		return FromYAML(yn.Alias)
	case yaml.MappingNode:
		return mappingFromYAML(yn)
	case yaml.SequenceNode:
		seq := &Node{Kind: KindSequence, Line: yn.Line, Column: yn.Column}
		for _, item := range yn.Content {
			child, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, child)
		}
		return seq, nil
	case yaml.ScalarNode:
		value, err := scalarValue(yn)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindScalar, Value: value, Line: yn.Line, Column: yn.Column}, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", yn.Line, yn.Kind)
}

func mappingFromYAML(yn *yaml.Node) (*Node, error) {
	m := &Node{Kind: KindMapping, Line: yn.Line, Column: yn.Column}
	var merged []Pair
	for i := 0; i+1 < len(yn.Content); i += 2 {
		keyNode, valNode := yn.Content[i], yn.Content[i+1]

		if keyNode.Tag == "!!merge" || keyNode.Value == "<<" {
			pairs, err := mergePairs(valNode)
			if err != nil {
				return nil, err
			}
			merged = append(merged, pairs...)
			continue
		}

		value, err := FromYAML(valNode)
		if err != nil {
			return nil, err
		}
		m.Pairs = append(m.Pairs, Pair{
			Key:    keyNode.Value,
			Value:  value,
			Line:   keyNode.Line,
			Column: keyNode.Column,
		})
	}
	if len(merged) > 0 {
		m.Pairs = append(merged, m.Pairs...)
	}
	return m, nil
}

// mergePairs flattens the value of a "<<" key: either a single mapping or a
// sequence of mappings.
func mergePairs(yn *yaml.Node) ([]Pair, error) {
	node, err := FromYAML(yn)
	if err != nil {
		return nil, err
	}
	switch node.Kind {
	case KindMapping:
		return node.Pairs, nil
	case KindSequence:
		var pairs []Pair
		for _, item := range node.Items {
			if item.Kind != KindMapping {
				return nil, fmt.Errorf("line %d: merge key value must be a mapping", yn.Line)
			}
			pairs = append(pairs, item.Pairs...)
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("line %d: merge key value must be a mapping", yn.Line)
}

func scalarValue(yn *yaml.Node) (any, error) {
	switch yn.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		return strconv.ParseBool(yn.Value)
	case "!!int":
		return strconv.ParseInt(yn.Value, 10, 64)
	case "!!float":
		return strconv.ParseFloat(yn.Value, 64)
	default:
		// Strings, timestamps and any custom tag keep their textual form.
		return yn.Value, nil
	}
}

// ToYAML converts the raw tree back into a yaml.Node ready for encoding.
// Scalars carry explicit tags so that a string that merely looks like a
// boolean or number is quoted on output and survives a re-parse.
func (n *Node) ToYAML() *yaml.Node {
	switch n.Kind {
	case KindMapping:
		yn := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range n.Pairs {
			yn.Content = append(yn.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
				p.Value.ToYAML(),
			)
		}
		return yn
	case KindSequence:
		yn := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			yn.Content = append(yn.Content, item.ToYAML())
		}
		return yn
	default:
		return scalarToYAML(n.Value)
	}
}

func scalarToYAML(v any) *yaml.Node {
	yn := &yaml.Node{Kind: yaml.ScalarNode}
	switch val := v.(type) {
	case nil:
		yn.Tag = "!!null"
		yn.Value = "null"
	case bool:
		yn.Tag = "!!bool"
		yn.Value = strconv.FormatBool(val)
	case int:
		yn.Tag = "!!int"
		yn.Value = strconv.Itoa(val)
	case int64:
		yn.Tag = "!!int"
		yn.Value = strconv.FormatInt(val, 10)
	case float64:
		yn.Tag = "!!float"
		yn.Value = strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		yn.Tag = "!!str"
		yn.Value = val
	default:
		yn.Tag = "!!str"
		yn.Value = fmt.Sprint(val)
	}
	return yn
}
