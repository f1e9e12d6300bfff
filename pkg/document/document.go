// Package document builds generated text as a tree of lines and renders it
// with a single indentation pass, so indentation never depends on the
// characters that appear inside the generated content.
package document

import "strings"

// Node is a piece of a document.
type Node interface {
	render(b *strings.Builder, indent string, depth int)
	// suffixed returns a copy of the node with s appended to its last line.
	suffixed(s string) Node
}

// Line is a single line of output.
type Line string

func (l Line) render(b *strings.Builder, indent string, depth int) {
	if l == "" {
		b.WriteByte('\n')
		return
	}
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString(string(l))
	b.WriteByte('\n')
}

func (l Line) suffixed(s string) Node { return l + Line(s) }

// Block is an opening line, a body indented one level deeper and a closing line.
type Block struct {
	Open  string
	Body  []Node
	Close string
}

func (bl Block) render(b *strings.Builder, indent string, depth int) {
	Line(bl.Open).render(b, indent, depth)
	for _, n := range bl.Body {
		n.render(b, indent, depth+1)
	}
	Line(bl.Close).render(b, indent, depth)
}

func (bl Block) suffixed(s string) Node {
	bl.Close += s
	return bl
}

// Group is a sequence of nodes at the same depth.
type Group []Node

func (g Group) render(b *strings.Builder, indent string, depth int) {
	for _, n := range g {
		n.render(b, indent, depth)
	}
}

func (g Group) suffixed(s string) Node {
	if len(g) == 0 {
		return g
	}
	out := make(Group, len(g))
	copy(out, g)
	out[len(out)-1] = out[len(out)-1].suffixed(s)
	return out
}

// Suffix appends s to the last line of n.
func Suffix(n Node, s string) Node {
	return n.suffixed(s)
}

// Join appends sep to every node but the last, the way list items are
// separated in JSON.
func Join(nodes []Node, sep string) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if i < len(nodes)-1 {
			n = n.suffixed(sep)
		}
		out[i] = n
	}
	return out
}

// Render prints the nodes, indenting each nesting level by indent.
func Render(indent string, nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		n.render(&b, indent, 0)
	}
	return b.String()
}
