package interp

import (
	"strconv"
	"strings"

	"vex/internal/ast"
	"vex/internal/token"
	"vex/internal/value"
)

// Optimize runs the one-time tree preparation: literal folding first, then
// name resolution against the registry. It is idempotent; evaluation works
// on an unoptimized tree but uses the caches when present.
func Optimize(root *ast.Node, reg *Registry) error {
	if err := foldConstants(root); err != nil {
		return err
	}
	return resolveNames(root, reg)
}

// foldConstants caches literal values on their nodes, post-order so a unary
// minus can fold over an already-folded number. Cached values are borrows;
// the tree itself is the owner.
func foldConstants(n *ast.Node) error {
	for _, c := range n.Children {
		if err := foldConstants(c); err != nil {
			return err
		}
	}
	if n.CachedValue != nil {
		return nil
	}
	switch n.Token.Type {
	case token.NUMBER:
		v, err := parseNumber(n.Token.Literal)
		if err != nil {
			return positioned(err, n.Pos(), n.End())
		}
		n.CachedValue = v.Borrow()
	case token.STRING:
		n.CachedValue = value.StringConst(n.Token.Literal).Borrow()
	case token.MINUS:
		if len(n.Children) != 1 {
			return nil
		}
		switch t := n.Children[0].CachedValue.(type) {
		case *value.Integer:
			if t.Values[0] != -9223372036854775808 {
				n.CachedValue = value.IntegerConst(-t.Values[0]).Borrow()
			}
		case *value.Float:
			n.CachedValue = value.FloatConst(-t.Values[0]).Borrow()
		}
	case token.RETURN, token.LBRACE:
		// A single folded child makes the whole statement constant.
		if len(n.Children) == 1 {
			n.CachedValue = n.Children[0].CachedValue
		}
	}
	return nil
}

func parseNumber(lit string) (value.Value, error) {
	if strings.ContainsAny(lit, ".eE") {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, value.Scriptf(-1, -1, "malformed float literal %q", lit)
		}
		return value.FloatConst(f), nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, value.Scriptf(-1, -1, "integer literal %q is out of range", lit)
	}
	return value.IntegerConst(n), nil
}

// resolveNames interns identifier names, resolves call heads against the
// registry and rejects member names no registered element class exposes.
// Both are definite errors; no runtime state could make them succeed.
func resolveNames(n *ast.Node, reg *Registry) error {
	switch n.Token.Type {
	case token.IDENT:
		n.CachedName = n.Token.Literal
	case token.LPAREN:
		if len(n.Children) > 0 {
			head := n.Children[0]
			switch head.Token.Type {
			case token.IDENT:
				sig, _, ok := reg.Lookup(head.Token.Literal)
				if !ok {
					return value.Scriptf(head.Pos(), head.End(), "unrecognized function name '%s'", head.Token.Literal)
				}
				head.CachedSignature = sig
			case token.DOT:
				// Method call; the name check happens on the DOT node below.
			default:
				return value.Scriptf(head.Pos(), head.End(), "this expression cannot be called")
			}
		}
	case token.DOT:
		if len(n.Children) == 2 {
			name := n.Children[1].Token.Literal
			if !reg.HasMemberName(name) {
				return value.Scriptf(n.Children[1].Pos(), n.Children[1].End(), "unrecognized member name '%s'", name)
			}
			n.CachedName = name
		}
	}
	for _, c := range n.Children {
		if err := resolveNames(c, reg); err != nil {
			return err
		}
	}
	return nil
}
