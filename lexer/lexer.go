// Package lexer splits the unit-description notation into tokens. The
// notation spells C types Go-style (*T, [N]T, func(T) R) and C expressions
// as written in C.
package lexer

import "github.com/thiremani/cgen/token"

type Lexer struct {
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination

	line   int
	column int
}

func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1}
	l.readRune()
	return l
}

// twoRune maps the second rune of an operator to its token, keyed by the
// first rune.
var twoRune = map[rune]map[rune]token.TokenType{
	'=': {'=': token.EQL},
	'!': {'=': token.NEQ},
	'<': {'=': token.LEQ, '<': token.SHL},
	'>': {'=': token.GEQ, '>': token.SHR},
	'&': {'&': token.LAND},
	'|': {'|': token.LOR},
	'-': {'>': token.ARROW},
}

var oneRune = map[rune]token.TokenType{
	'=': token.ASSIGN,
	'!': token.NOT,
	'~': token.TILDE,
	'+': token.ADD,
	'-': token.SUB,
	'*': token.MUL,
	'/': token.QUO,
	'%': token.REM,
	'&': token.AND,
	'|': token.OR,
	'^': token.XOR,
	'<': token.LSS,
	'>': token.GTR,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACK,
	']': token.RBRACK,
	'{': token.LBRACE,
	'}': token.RBRACE,
	',': token.COMMA,
	'.': token.PERIOD,
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	line, column := l.line, l.column

	tok := l.scan()
	tok.Line, tok.Column = line, column
	return tok
}

func (l *Lexer) scan() token.Token {
	switch {
	case l.curr == 0:
		return token.Token{Type: token.EOF}
	case isLetter(l.curr):
		literal := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(literal), Literal: literal}
	case isDigit(l.curr):
		return token.Token{Type: token.INT, Literal: l.readNumber()}
	case l.curr == '"':
		return l.readQuoted(token.STRING)
	case l.curr == '\'':
		return l.readQuoted(token.CHAR)
	case l.curr == '.' && l.peekRune() == '.':
		start := l.position
		for i := 0; i < 3; i++ {
			if l.curr != '.' {
				return token.Token{Type: token.ILLEGAL, Literal: string(l.input[start:l.position])}
			}
			l.readRune()
		}
		return token.Token{Type: token.ELLIPSIS, Literal: "..."}
	}

	if second, ok := twoRune[l.curr][l.peekRune()]; ok {
		literal := string(l.curr) + string(l.peekRune())
		l.readRune()
		l.readRune()
		return token.Token{Type: second, Literal: literal}
	}
	if tt, ok := oneRune[l.curr]; ok {
		tok := newToken(tt, l.curr)
		l.readRune()
		return tok
	}
	tok := newToken(token.ILLEGAL, l.curr)
	l.readRune()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r':
			l.readRune()
		case l.curr == '#':
			for l.curr != '\n' && l.curr != 0 {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readNumber reads decimal, hex (0x) and octal literals, plus C integer
// suffixes such as u, l and ull.
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.curr) || isLetter(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readQuoted reads a string or character literal, quotes and escapes kept
// verbatim. An unterminated literal is ILLEGAL.
func (l *Lexer) readQuoted(tt token.TokenType) token.Token {
	quote := l.curr
	position := l.position
	l.readRune()
	for l.curr != quote {
		if l.curr == 0 || l.curr == '\n' {
			return token.Token{Type: token.ILLEGAL, Literal: string(l.input[position:l.position])}
		}
		if l.curr == '\\' {
			l.readRune()
			if l.curr == 0 {
				return token.Token{Type: token.ILLEGAL, Literal: string(l.input[position:l.position])}
			}
		}
		l.readRune()
	}
	l.readRune()
	return token.Token{Type: tt, Literal: string(l.input[position:l.position])}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, curr rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(curr)}
}
