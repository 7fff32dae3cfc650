package parser

import (
	"fmt"

	"vex/internal/ast"
	"vex/internal/lexer"
	"vex/internal/token"
	"vex/internal/value"
)

const (
	_          int = iota
	LOWEST         //
	ASSIGNMENT     // = (right associative)
	LOGICAL_OR     // |
	LOGICAL_AND    // &
	EQUALS         // == !=
	COMPARISON     // < <= > >=
	SUM            // + -
	PRODUCT        // * / %
	RANGE          // :
	PREFIX         // -x !x +x
	EXPONENT       // ^ (right associative)
	POSTFIX        // f(x) v[i] o.m
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.COLON:    RANGE,
	token.CARET:    EXPONENT,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(left *ast.Node) *ast.Node
)

type Parser struct {
	l      *lexer.Lexer
	errors []string
	errPos int

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
		errPos: -1,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseLeaf)
	p.registerPrefix(token.NUMBER, p.parseLeaf)
	p.registerPrefix(token.STRING, p.parseLeaf)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ,
		token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.COLON,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.CARET, p.parseExponentExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse tokenizes and parses src in one call, folding the first parse error
// into a script error with its source position.
func Parse(src string) (*ast.Node, error) {
	p := New(lexer.New(src))
	root := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, value.Scriptf(p.errPos, p.errPos+1, "%s", errs[0])
	}
	return root, nil
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) addError(message string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(message, args...))
	if p.errPos < 0 {
		p.errPos = p.curToken.Position
	}
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type))
	if p.errPos < 0 {
		p.errPos = p.peekToken.Position
	}
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

// ParseProgram parses the whole input as a statement sequence under a
// synthetic block node.
func (p *Parser) ParseProgram() *ast.Node {
	root := ast.NewNode(token.Token{Type: token.LBRACE, Literal: "{", Position: 0})
	for !p.curTokenIs(token.EOF) {
		if len(p.errors) > 0 {
			break
		}
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		root.AddChild(stmt)
		p.nextToken()
	}
	return root
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.NEXT, token.BREAK:
		stmt := ast.NewNode(p.curToken)
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	case token.RETURN:
		return p.parseReturnStatement()
	case token.SEMICOLON:
		return ast.NewNode(p.curToken) // null statement
	case token.ILLEGAL:
		p.addError("unexpected character %q", p.curToken.Literal)
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.Node {
	block := ast.NewNode(p.curToken)
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError("unexpected EOF in block")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.AddChild(stmt)
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.Node {
	stmt := ast.NewNode(p.curToken)
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	stmt.AddChild(cond)
	stmt.AddChild(body)
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		alt := p.parseStatement()
		if alt == nil {
			return nil
		}
		stmt.AddChild(alt)
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.Node {
	stmt := ast.NewNode(p.curToken)
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	stmt.AddChild(cond)
	stmt.AddChild(body)
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.Node {
	stmt := ast.NewNode(p.curToken)
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	if !p.expectPeek(token.WHILE) || !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	stmt.AddChild(body)
	stmt.AddChild(cond)
	return stmt
}

func (p *Parser) parseForStatement() *ast.Node {
	stmt := ast.NewNode(p.curToken)
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	loopVar := ast.NewNode(p.curToken)
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iterable := p.parseExpression(LOWEST)
	if iterable == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	stmt.AddChild(loopVar)
	stmt.AddChild(iterable)
	stmt.AddChild(body)
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.Node {
	stmt := ast.NewNode(p.curToken)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	if val == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	stmt.AddChild(val)
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return expr
}

func (p *Parser) parseExpression(precedence int) *ast.Node {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("unexpected token %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseLeaf() *ast.Node {
	return ast.NewNode(p.curToken)
}

func (p *Parser) parsePrefixExpression() *ast.Node {
	expr := ast.NewNode(p.curToken)
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	expr.AddChild(operand)
	return expr
}

func (p *Parser) parseInfixExpression(left *ast.Node) *ast.Node {
	expr := ast.NewNode(p.curToken, left)
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	expr.AddChild(right)
	return expr
}

// parseAssignExpression binds right, so a = b = c assigns c to b first.
func (p *Parser) parseAssignExpression(left *ast.Node) *ast.Node {
	expr := ast.NewNode(p.curToken, left)
	p.nextToken()
	right := p.parseExpression(ASSIGNMENT - 1)
	if right == nil {
		return nil
	}
	expr.AddChild(right)
	return expr
}

// parseExponentExpression binds right, so 2^3^2 is 2^(3^2).
func (p *Parser) parseExponentExpression(left *ast.Node) *ast.Node {
	expr := ast.NewNode(p.curToken, left)
	p.nextToken()
	right := p.parseExpression(EXPONENT - 1)
	if right == nil {
		return nil
	}
	expr.AddChild(right)
	return expr
}

func (p *Parser) parseGroupedExpression() *ast.Node {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseCallExpression labels the call with the lparen token; the callee is
// the first child, the arguments follow.
func (p *Parser) parseCallExpression(callee *ast.Node) *ast.Node {
	call := ast.NewNode(p.curToken, callee)
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	call.AddChild(arg)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg = p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.AddChild(arg)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIndexExpression(operand *ast.Node) *ast.Node {
	expr := ast.NewNode(p.curToken, operand)
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if index == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	expr.AddChild(index)
	return expr
}

func (p *Parser) parseMemberExpression(operand *ast.Node) *ast.Node {
	expr := ast.NewNode(p.curToken, operand)
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.AddChild(ast.NewNode(p.curToken))
	return expr
}
