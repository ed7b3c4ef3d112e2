package metadata

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a configuration tree from a YAML document whose
// top-level mapping holds the root's children.
//
// Mapping keys are node labels. A key maps to one of:
//   - a scalar, stored as a dimensionless value;
//   - a sequence of scalars, stored as a 1-D value;
//   - a mapping containing a lowercase "values" key, an explicit value
//     with optional "dims", "format" and "description" keys;
//   - any other mapping, a group node with children.
func LoadYAML(r io.Reader) (*Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewNode(""), nil
		}
		return nil, fmt.Errorf("failed to parse metadata YAML: %w", err)
	}
	return FromYAML(&doc)
}

// FromYAML builds a root node from an already decoded YAML node.
func FromYAML(doc *yaml.Node) (*Node, error) {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return NewNode(""), nil
		}
		n = n.Content[0]
	}
	root := NewNode("")
	if err := fillGroup(root, n); err != nil {
		return nil, err
	}
	return root, nil
}

func fillGroup(group *Node, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("metadata group %q: expected mapping at line %d", group.Label, n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		label := n.Content[i].Value
		child, err := buildNode(label, n.Content[i+1])
		if err != nil {
			return err
		}
		group.AppendChild(child)
	}
	return nil
}

func buildNode(label string, n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		v, err := scalarValue(n)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", label, err)
		}
		return NewValueNode(label, v), nil
	case yaml.SequenceNode:
		v, err := sequenceValue(n.Content, nil, "")
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", label, err)
		}
		return NewValueNode(label, v), nil
	case yaml.MappingNode:
		if values := mappingEntry(n, "values"); values != nil {
			return explicitValueNode(label, n, values)
		}
		group := NewNode(label)
		if err := fillGroup(group, n); err != nil {
			return nil, err
		}
		return group, nil
	case yaml.AliasNode:
		return buildNode(label, n.Alias)
	}
	return nil, fmt.Errorf("metadata %q: unsupported YAML node at line %d", label, n.Line)
}

func explicitValueNode(label string, n, values *yaml.Node) (*Node, error) {
	var dims []int
	if d := mappingEntry(n, "dims"); d != nil {
		if err := d.Decode(&dims); err != nil {
			return nil, fmt.Errorf("metadata %q: invalid dims: %w", label, err)
		}
	}
	format := ""
	if f := mappingEntry(n, "format"); f != nil {
		format = f.Value
	}
	var items []*yaml.Node
	if values.Kind == yaml.SequenceNode {
		items = values.Content
	} else {
		items = []*yaml.Node{values}
	}
	if dims == nil && values.Kind == yaml.SequenceNode {
		dims = []int{len(items)}
	}
	if product(dims) != len(items) {
		return nil, fmt.Errorf("metadata %q: dims %v describe %d values, got %d", label, dims, product(dims), len(items))
	}
	v, err := sequenceValue(items, dims, format)
	if err != nil {
		return nil, fmt.Errorf("metadata %q: %w", label, err)
	}
	node := NewValueNode(label, v)
	if d := mappingEntry(n, "description"); d != nil {
		node.Description = d.Value
	}
	return node, nil
}

func mappingEntry(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func scalarValue(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!int":
		var x int
		if err := n.Decode(&x); err != nil {
			return nil, err
		}
		return ScalarInt(x), nil
	case "!!float":
		var x float64
		if err := n.Decode(&x); err != nil {
			return nil, err
		}
		return ScalarFloat(x), nil
	default:
		return NewStrings(nil, []string{n.Value}), nil
	}
}

// sequenceValue decodes flat scalar items. The format is forced when
// given, otherwise inferred: all ints stay ints, any float promotes to
// float, anything else is a string array.
func sequenceValue(items []*yaml.Node, dims []int, format string) (*Value, error) {
	if dims == nil {
		dims = []int{len(items)}
	}
	f := FormatInt
	if format != "" {
		var ok bool
		if f, ok = ParseFormat(format); !ok {
			return nil, fmt.Errorf("unknown format %q", format)
		}
	} else {
		for _, it := range items {
			if it.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("nested sequence at line %d; use dims to describe shape", it.Line)
			}
			switch it.Tag {
			case "!!int":
			case "!!float":
				if f == FormatInt {
					f = FormatFloat
				}
			default:
				f = FormatString
			}
		}
	}

	switch f {
	case FormatInt:
		vals := make([]int, len(items))
		for i, it := range items {
			if err := it.Decode(&vals[i]); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return NewInts(dims, vals), nil
	case FormatFloat:
		vals := make([]float64, len(items))
		for i, it := range items {
			if err := it.Decode(&vals[i]); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return NewFloats(dims, vals), nil
	default:
		vals := make([]string, len(items))
		for i, it := range items {
			vals[i] = strings.TrimSpace(it.Value)
		}
		return NewStrings(dims, vals), nil
	}
}
