package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // x, sim, readFile, ...
	NUMBER = "NUMBER" // 12, 3.5, 1e3
	STRING = "STRING" // "foo", 'foo'

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	CARET    = "^"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	AND = "&"
	OR  = "|"

	// Delimiters
	DOT       = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	IF     = "IF"
	ELSE   = "ELSE"
	DO     = "DO"
	WHILE  = "WHILE"
	FOR    = "FOR"
	IN     = "IN"
	NEXT   = "NEXT"
	BREAK  = "BREAK"
	RETURN = "RETURN"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

// End returns the src index just past the token's literal, for error ranges.
func (t Token) End() int {
	return t.Position + len(t.Literal)
}

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"do":     DO,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"next":   NEXT,
	"break":  BREAK,
	"return": RETURN,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
