package object

import (
	"gopkg.in/yaml.v2"
)

// MarshalYAML renders the node as an ordered mapping. Repeated keys are
// kept as repeated mapping keys. A node made only of anonymous items is
// rendered as a sequence.
func (n *Node) MarshalYAML() (interface{}, error) {
	if n.Len() > 0 && n.anonymous() {
		items := make([]interface{}, 0, n.Len())
		for _, e := range n.entries {
			items = append(items, e.Value)
		}
		return items, nil
	}

	out := make(yaml.MapSlice, 0, n.Len())
	for _, e := range n.Entries() {
		out = append(out, yaml.MapItem{Key: e.Key, Value: e.Value})
	}
	return out, nil
}

// MarshalYAML renders a scalar as a string, a list as a sequence and a block
// through Node.MarshalYAML.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case ScalarKind:
		return v.scalar.Text, nil
	case ListKind:
		return v.Tokens(), nil
	default:
		return v.block.MarshalYAML()
	}
}

func (n *Node) anonymous() bool {
	for _, e := range n.entries {
		if e.Key != "" {
			return false
		}
	}
	return true
}

// YAML returns the YAML rendering of the node.
func (n *Node) YAML() ([]byte, error) {
	return yaml.Marshal(n)
}
