package lexer

import (
	"unicode"
	"unicode/utf8"

	"vex/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	var tok token.Token

	switch l.ch {
	case '=':
		tok = l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '!':
		tok = l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '+':
		tok = newToken(token.PLUS, l.ch, l.position)
	case '-':
		tok = newToken(token.MINUS, l.ch, l.position)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.position)
	case '/':
		tok = newToken(token.SLASH, l.ch, l.position)
	case '%':
		tok = newToken(token.PERCENT, l.ch, l.position)
	case '^':
		tok = newToken(token.CARET, l.ch, l.position)
	case '&':
		tok = newToken(token.AND, l.ch, l.position)
	case '|':
		tok = newToken(token.OR, l.ch, l.position)
	case '.':
		tok = newToken(token.DOT, l.ch, l.position)
	case ',':
		tok = newToken(token.COMMA, l.ch, l.position)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.position)
	case ':':
		tok = newToken(token.COLON, l.ch, l.position)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.position)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.position)
	case '{':
		tok = newToken(token.LBRACE, l.ch, l.position)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.position)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.position)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.position)
	case '"', '\'':
		startPosition := l.position
		str, ok := l.readString(l.ch)
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: str, Position: startPosition}
		}
		return token.Token{Type: token.STRING, Literal: str, Position: startPosition}
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		tok.Position = l.position
	default:
		if isLetter(l.ch) {
			startPosition := l.position
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Literal: ident, Position: startPosition}
		}
		if isDigit(l.ch) {
			startPosition := l.position
			num := l.readNumber()
			return token.Token{Type: token.NUMBER, Literal: num, Position: startPosition}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.position)
	}

	l.readChar()
	return tok
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	return newToken(t, l.ch, startPosition)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else if l.peekChar() == '*' {
				l.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber covers integer and float literals: digits, an optional
// fraction, an optional exponent. The parser decides integer versus float.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		peek := l.peekChar()
		if isDigit(peek) || peek == '+' || peek == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

// readString reads to the matching close quote, decoding the usual escapes.
// Returns false on an unterminated literal.
func (l *Lexer) readString(quote rune) (string, bool) {
	var out []rune
	for {
		l.readChar()
		switch l.ch {
		case quote:
			l.readChar() // consume closing quote
			return string(out), true
		case 0, '\n':
			return string(out), false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\', '"', '\'':
				out = append(out, l.ch)
			case 0:
				return string(out), false
			default:
				out = append(out, '\\', l.ch)
			}
		default:
			out = append(out, l.ch)
		}
	}
}

func newToken(t token.TokenType, ch rune, pos int) token.Token {
	return token.Token{Type: t, Literal: string(ch), Position: pos}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
