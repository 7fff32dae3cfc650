package parser

import (
	"testing"

	"vex/internal/ast"
	"vex/internal/token"
)

// parse parses one expression statement and returns its node.
func parseStatement(t *testing.T, src string) *ast.Node {
	t.Helper()
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 statement for %q, got %d", src, len(root.Children))
	}
	return root.Children[0]
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3;", "(+ (* 1 2) 3)"},
		{"-2 ^ 2;", "(- (^ 2 2))"},
		{"2 ^ 3 ^ 2;", "(^ 2 (^ 3 2))"},
		{"1:5 * 2;", "(* (: 1 5) 2)"},
		{"-1:5;", "(: (- 1) 5)"},
		{"a + b < c == d;", "(== (< (+ a b) c) d)"},
		{"a == b & c != d | e;", "(| (& (== a b) (!= c d)) e)"},
		{"!a & b;", "(& (! a) b)"},
		{"a = b = c;", "(= a (= b c))"},
		{"(1 + 2) * 3;", "(* (+ 1 2) 3)"},
		{"x[0] + 1;", "(+ ([ x 0) 1)"},
		{"x[i] = y.m;", "(= ([ x i) (. y m))"},
		{"f(a, b + 1)[0];", "([ (( f a (+ b 1)) 0)"},
		{"p.size();", "(( (. p size))"},
		{"1 / 2 % 3;", "(% (/ 1 2) 3)"},
	}
	for _, tt := range tests {
		stmt := parseStatement(t, tt.input)
		if got := stmt.String(); got != tt.expected {
			t.Errorf("%q parsed as %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestIfStatement(t *testing.T) {
	stmt := parseStatement(t, "if (x < 1) y = 2; else { y = 3; }")
	if stmt.Token.Type != token.IF {
		t.Fatalf("expected IF node, got %s", stmt.Token.Type)
	}
	if len(stmt.Children) != 3 {
		t.Fatalf("expected cond, then, else; got %d children", len(stmt.Children))
	}
	if stmt.Children[2].Token.Type != token.LBRACE {
		t.Errorf("else branch should be a block, got %s", stmt.Children[2].Token.Type)
	}
}

func TestLoopStatements(t *testing.T) {
	stmt := parseStatement(t, "while (x < 3) x = x + 1;")
	if stmt.Token.Type != token.WHILE || len(stmt.Children) != 2 {
		t.Fatalf("bad while node: %s", stmt)
	}

	stmt = parseStatement(t, "do x = x + 1; while (x < 3);")
	if stmt.Token.Type != token.DO || len(stmt.Children) != 2 {
		t.Fatalf("bad do-while node: %s", stmt)
	}
	if stmt.Children[1].Token.Type != token.LT {
		t.Errorf("do-while condition should be the second child")
	}

	stmt = parseStatement(t, "for (i in 1:5) { s = s + i; }")
	if stmt.Token.Type != token.FOR || len(stmt.Children) != 3 {
		t.Fatalf("bad for node: %s", stmt)
	}
	if stmt.Children[0].Token.Literal != "i" {
		t.Errorf("loop variable should be first child, got %q", stmt.Children[0].Token.Literal)
	}
}

func TestJumpStatements(t *testing.T) {
	root, err := Parse("next; break; return; return 5;")
	if err != nil {
		t.Fatal(err)
	}
	types := []token.TokenType{token.NEXT, token.BREAK, token.RETURN, token.RETURN}
	if len(root.Children) != len(types) {
		t.Fatalf("expected %d statements, got %d", len(types), len(root.Children))
	}
	for i, want := range types {
		if root.Children[i].Token.Type != want {
			t.Errorf("statement %d: expected %s, got %s", i, want, root.Children[i].Token.Type)
		}
	}
	if len(root.Children[3].Children) != 1 {
		t.Errorf("return 5 should carry its value")
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"x = ;",
		"if x > 1) y = 2;",
		"x + 1",      // missing semicolon
		"{ x = 1; ",  // unterminated block
		"for (i in) x;",
		"a.;",
	} {
		if _, err := Parse(src); err == nil {
			t.Errorf("expected parse error for %q", src)
		}
	}
}

func TestNodePositions(t *testing.T) {
	stmt := parseStatement(t, "abc = 12 + 3;")
	if stmt.Pos() != 4 {
		t.Errorf("assignment node position: expected 4, got %d", stmt.Pos())
	}
	if stmt.End() != 12 {
		t.Errorf("assignment node end: expected 12, got %d", stmt.End())
	}
}
