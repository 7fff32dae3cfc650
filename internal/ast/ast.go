package ast

import (
	"fmt"
	"io"
	"strings"

	"vex/internal/token"
	"vex/internal/value"
)

// Node is the one AST node shape. The token labels what the node means; the
// children carry the operands in source order. The Cached fields are filled
// by the optimizer and are hints only, evaluation works without them.
type Node struct {
	Token    token.Token
	Children []*Node

	// CachedValue holds a folded literal, borrowed from the tree itself.
	CachedValue value.Value
	// CachedSignature is the resolved signature of a call head identifier.
	CachedSignature *value.Signature
	// CachedName is the interned identifier or member name.
	CachedName string
}

func NewNode(tok token.Token, children ...*Node) *Node {
	return &Node{Token: tok, Children: children}
}

func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Pos is the source offset of the subtree's labeling token.
func (n *Node) Pos() int {
	return n.Token.Position
}

// End is the offset just past the subtree, for error ranges.
func (n *Node) End() int {
	end := n.Token.End()
	for _, c := range n.Children {
		if ce := c.End(); ce > end {
			end = ce
		}
	}
	return end
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if len(n.Children) == 0 {
		b.WriteString(n.Token.Literal)
		return
	}
	b.WriteString("(")
	b.WriteString(n.Token.Literal)
	for _, c := range n.Children {
		b.WriteString(" ")
		c.write(b)
	}
	b.WriteString(")")
}

// PrintTree dumps the subtree one node per line, indented by depth, with
// cache annotations. Used by the execution trace and by tests.
func PrintTree(w io.Writer, n *Node, depth int) {
	fmt.Fprintf(w, "%s%s %q", strings.Repeat("  ", depth), n.Token.Type, n.Token.Literal)
	if n.CachedValue != nil {
		fmt.Fprintf(w, " value=%s", n.CachedValue)
	}
	if n.CachedSignature != nil {
		fmt.Fprintf(w, " signature=%s", n.CachedSignature)
	}
	fmt.Fprintln(w)
	for _, c := range n.Children {
		PrintTree(w, c, depth+1)
	}
}
