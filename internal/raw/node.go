// Package raw defines the untyped node tree that sits between the YAML
// document layer and the entity transforms. A node is one of three variants:
// a mapping with ordered key/value pairs, a sequence, or a scalar. Nodes
// remember the source line and column they came from so structural errors
// can point back into the document.
package raw

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindMapping is an ordered list of key/value pairs.
	KindMapping Kind = iota
	// KindSequence is an ordered list of nodes.
	KindSequence
	// KindScalar is a single string, integer, float, boolean or null value.
	KindScalar
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pair is a single key/value entry of a mapping node.
type Pair struct {
	Key   string
	Value *Node

	Line   int
	Column int
}

// Node is one node of the raw tree. Exactly one of Pairs, Items or Value is
// meaningful, selected by Kind. A scalar Value is one of string, int64,
// float64, bool or nil.
//
// Mapping pairs keep document order. Duplicate keys are preserved as parsed;
// Get resolves them with a later-entry-wins rule and the transforms report
// duplicates where a key names an entity.
type Node struct {
	Kind  Kind
	Pairs []Pair
	Items []*Node
	Value any

	Line   int
	Column int
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping}
}

// NewSequence returns an empty sequence node.
func NewSequence() *Node {
	return &Node{Kind: KindSequence}
}

// NewScalar returns a scalar node holding v. v must be a string, int,
// int64, float64, bool or nil.
func NewScalar(v any) *Node {
	if i, ok := v.(int); ok {
		v = int64(i)
	}
	return &Node{Kind: KindScalar, Value: v}
}

// IsEmpty reports whether the node carries no content at all.
func (n *Node) IsEmpty() bool {
	switch n.Kind {
	case KindMapping:
		return len(n.Pairs) == 0
	case KindSequence:
		return len(n.Items) == 0
	default:
		return n.Value == nil
	}
}

// Get returns the value of the last pair with the given key, or nil when the
// mapping has no such key. Later entries win so that a long form written
// after a shorthand of the same field takes effect.
func (n *Node) Get(key string) *Node {
	for i := len(n.Pairs) - 1; i >= 0; i-- {
		if n.Pairs[i].Key == key {
			return n.Pairs[i].Value
		}
	}
	return nil
}

// Has reports whether the mapping contains the given key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Set appends a key/value pair, replacing the previous value when the key is
// already present.
func (n *Node) Set(key string, value *Node) {
	for i := range n.Pairs {
		if n.Pairs[i].Key == key {
			n.Pairs[i].Value = value
			return
		}
	}
	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// SetScalar is shorthand for Set(key, NewScalar(v)).
func (n *Node) SetScalar(key string, v any) {
	n.Set(key, NewScalar(v))
}

// Append adds an item to a sequence node.
func (n *Node) Append(item *Node) {
	n.Items = append(n.Items, item)
}

// AsString renders a scalar as its string form. Numbers and booleans are
// formatted the way they were written; null and non-scalars report false.
func (n *Node) AsString() (string, bool) {
	if n.Kind != KindScalar {
		return "", false
	}
	switch v := n.Value.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// AsBool returns the scalar's boolean value.
func (n *Node) AsBool() (bool, bool) {
	if n.Kind != KindScalar {
		return false, false
	}
	b, ok := n.Value.(bool)
	return b, ok
}

// AsInt returns the scalar's integer value.
func (n *Node) AsInt() (int64, bool) {
	if n.Kind != KindScalar {
		return 0, false
	}
	i, ok := n.Value.(int64)
	return i, ok
}
