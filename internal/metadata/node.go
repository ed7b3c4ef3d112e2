// Package metadata models the hierarchical configuration tree attached
// to a recording: named nodes holding optional typed array values and
// label-unique children.
package metadata

import "github.com/banshee-data/forceplate/internal/pipeline"

// Node is one entry of the configuration tree. A child edit stamps every
// ancestor, so a consumer can compare the timestamp of a whole group
// against its own last computation.
type Node struct {
	pipeline.DataObject
	Label       string
	Description string
	value       *Value
	children    []*Node
}

// NewNode returns a group node without a value.
func NewNode(label string) *Node {
	return &Node{Label: label}
}

// NewValueNode returns a leaf node holding v.
func NewValueNode(label string, v *Value) *Node {
	return &Node{Label: label, value: v}
}

// Value returns the node's value, or nil for a pure group.
func (n *Node) Value() *Value {
	return n.value
}

// SetValue replaces the node's value and marks the node modified.
func (n *Node) SetValue(v *Value) {
	n.value = v
	n.Modified()
}

// Children returns the direct children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// FindChild returns the direct child with the given label.
func (n *Node) FindChild(label string) (*Node, bool) {
	for _, c := range n.children {
		if c.Label == label {
			return c, true
		}
	}
	return nil, false
}

// AppendChild adds child at the end, or replaces in place an existing
// child with the same label.
func (n *Node) AppendChild(child *Node) {
	for i, c := range n.children {
		if c.Label == child.Label {
			if c == child {
				return
			}
			c.RemoveParent(n)
			child.AddParent(n)
			n.children[i] = child
			n.Modified()
			return
		}
	}
	child.AddParent(n)
	n.children = append(n.children, child)
	n.Modified()
}

// RemoveChild detaches the child with the given label. It reports
// whether a child was removed.
func (n *Node) RemoveChild(label string) bool {
	for i, c := range n.children {
		if c.Label == label {
			c.RemoveParent(n)
			n.children = append(n.children[:i], n.children[i+1:]...)
			n.Modified()
			return true
		}
	}
	return false
}
