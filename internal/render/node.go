// Package render translates block records into a presentational node tree
// and wires the per-type interactions back onto the editor. It never
// mutates the block collection directly; every change goes through the
// document's operations.
package render

import "strings"

// Node is one presentational element. A Node with an empty Tag is a bare
// text run.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// NewNode creates an element node.
func NewNode(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}}
}

// TextNode creates a bare text run.
func TextNode(text string) *Node {
	return &Node{Text: text}
}

// Attr sets an attribute and returns the node for chaining.
func (n *Node) Attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

// Append adds children and returns the node.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// PlainText returns the concatenated text of the node and its subtree.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

// Find returns the first node in the subtree with the given tag, nil if
// none. Depth-first, document order.
func (n *Node) Find(tag string) *Node {
	if n.Tag == tag {
		return n
	}
	for _, c := range n.Children {
		if got := c.Find(tag); got != nil {
			return got
		}
	}
	return nil
}
